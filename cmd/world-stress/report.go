package main

import (
	"io"
	"runtime"
	"text/template"
	"time"
)

// OpStats accumulates latency statistics for one operation kind online, so
// workers do not have to retain per-sample slices.
type OpStats struct {
	Count int64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

func (s *OpStats) Observe(d time.Duration) {
	if s.Count == 0 || d < s.Min {
		s.Min = d
	}
	if d > s.Max {
		s.Max = d
	}
	s.Count++
	s.Total += d
}

func (s OpStats) Avg() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

func (s *OpStats) merge(o *OpStats) {
	if o.Count == 0 {
		return
	}
	if s.Count == 0 || o.Min < s.Min {
		s.Min = o.Min
	}
	if o.Max > s.Max {
		s.Max = o.Max
	}
	s.Count += o.Count
	s.Total += o.Total
}

// opStatsSet is the per-worker bundle; one per worker avoids contention.
type opStatsSet struct {
	Get    OpStats
	Mutate OpStats
	Churn  OpStats
}

type Report struct {
	Config Config

	TotalTime     time.Duration
	Get           OpStats
	Mutate        OpStats
	Churn         OpStats
	FinalEntities int
	FinalSlots    int

	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

func (r *Report) Merge(s *opStatsSet) {
	r.Get.merge(&s.Get)
	r.Mutate.merge(&s.Mutate)
	r.Churn.merge(&s.Churn)
}

func (r *Report) TotalOps() int64 {
	return r.Get.Count + r.Mutate.Count + r.Churn.Count
}

func (r *Report) OpsPerSecond() float64 {
	if r.TotalTime == 0 {
		return 0
	}
	return float64(r.TotalOps()) / r.TotalTime.Seconds()
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# World Stress Test Report

## Test Configuration
- **Run Duration:** {{.Config.Duration}}
- **Initial Entities:** {{.Config.Entities}}
- **Workers:** {{.Config.Workers}}
- **Read Ratio:** {{.Config.ReadRatio}}
- **Churn Rate:** {{.Config.ChurnRate}}

## Performance Results
- **Total Operations:** {{.TotalOps}}
- **Throughput:** {{printf "%.0f" .OpsPerSecond}} ops/s
- **Shared Get:** {{.Get.Count}} ops (avg {{.Get.Avg}}, min {{.Get.Min}}, max {{.Get.Max}})
- **Exclusive Mutate:** {{.Mutate.Count}} ops (avg {{.Mutate.Avg}}, min {{.Mutate.Min}}, max {{.Mutate.Max}})
- **Insert/Remove Churn:** {{.Churn.Count}} ops (avg {{.Churn.Avg}}, min {{.Churn.Min}}, max {{.Churn.Max}})

## Final World State
- **Entities:** {{.FinalEntities}}
- **Arena Slots:** {{.FinalSlots}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
- Total GC Pause: {{.MemStatsEnd.PauseTotalNs | ns}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
