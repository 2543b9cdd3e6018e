package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/plus3/entworld/ecs"
)

// Stress-test component types
type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Health struct {
	Current, Max int
}

// Config describes a stress scenario. Flag values are the defaults; a YAML
// scenario file given with -config overrides them.
type Config struct {
	Duration  time.Duration `yaml:"duration"`
	Entities  int           `yaml:"entities"`
	Workers   int           `yaml:"workers"`
	ReadRatio float64       `yaml:"read_ratio"` // share of ops that are shared Gets
	ChurnRate float64       `yaml:"churn_rate"` // share of ops that insert+remove an entity
}

func loadConfig() (Config, error) {
	cfg := Config{}
	flag.DurationVar(&cfg.Duration, "duration", 10*time.Second, "The total duration the test should run for.")
	flag.IntVar(&cfg.Entities, "entities", 10000, "The initial number of entities to create.")
	flag.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "The number of concurrent workers.")
	flag.Float64Var(&cfg.ReadRatio, "read-ratio", 0.7, "Fraction of operations that are shared reads.")
	flag.Float64Var(&cfg.ChurnRate, "churn-rate", 0.05, "Fraction of operations that insert and remove an entity.")
	configPath := flag.String("config", "", "Optional YAML scenario file; overrides the other flags.")
	flag.Parse()

	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	if cfg.ReadRatio+cfg.ChurnRate > 1 {
		return cfg, fmt.Errorf("read-ratio plus churn-rate must not exceed 1")
	}
	return cfg, nil
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	logger.Info("starting world stress test",
		zap.Duration("duration", cfg.Duration),
		zap.Int("entities", cfg.Entities),
		zap.Int("workers", cfg.Workers),
		zap.Float64("read_ratio", cfg.ReadRatio),
		zap.Float64("churn_rate", cfg.ChurnRate),
	)

	ctx := context.Background()
	world := ecs.NewWorld()

	// 1. Populate the world
	ids := make([]ecs.EntityId, 0, cfg.Entities)
	for i := 0; i < cfg.Entities; i++ {
		b := ecs.NewBuilder()
		_ = b.Add(Position{X: rand.Float64() * 100, Y: rand.Float64() * 100})
		_ = b.Add(Velocity{DX: rand.Float64(), DY: rand.Float64()})
		if i%2 == 0 {
			_ = b.Add(Health{Current: 100, Max: 100})
		}
		id, err := b.Build(ctx, world)
		if err != nil {
			logger.Fatal("populate", zap.Error(err))
		}
		ids = append(ids, id)
	}
	logger.Info("population complete", zap.Int("entities", len(ids)))

	// 2. Hammer the world from all workers for the configured duration
	report := &Report{Config: cfg}
	runtime.ReadMemStats(&report.MemStatsStart)

	runCtx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	workerStats := make([]opStatsSet, cfg.Workers)
	start := time.Now()

	g, gctx := errgroup.WithContext(runCtx)
	for i := 0; i < cfg.Workers; i++ {
		stats := &workerStats[i]
		rng := rand.New(rand.NewSource(int64(i) + 1))
		g.Go(func() error {
			for gctx.Err() == nil {
				if err := runOp(gctx, world, ids, rng, cfg, stats); err != nil {
					return err
				}
			}
			return nil
		})
	}
	// Deadline-driven lock aborts are filtered inside the workers, so any
	// error surfacing here is a real failure.
	if err := g.Wait(); err != nil {
		logger.Fatal("worker failed", zap.Error(err))
	}

	report.TotalTime = time.Since(start)
	runtime.ReadMemStats(&report.MemStatsEnd)
	for i := range workerStats {
		report.Merge(&workerStats[i])
	}

	finalStats, err := world.CollectStats(ctx)
	if err != nil {
		logger.Fatal("collect stats", zap.Error(err))
	}
	report.FinalEntities = finalStats.EntityCount
	report.FinalSlots = finalStats.SlotCount

	logger.Info("stress test finished",
		zap.Int64("operations", report.TotalOps()),
		zap.Int("final_entities", report.FinalEntities),
	)

	// 3. Print the report
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("generate report", zap.Error(err))
	}
}

// runOp performs one randomly chosen operation against the world. Context
// errors from a lock wait cut off by the run deadline are not failures.
func runOp(ctx context.Context, world *ecs.World, ids []ecs.EntityId, rng *rand.Rand, cfg Config, stats *opStatsSet) error {
	roll := rng.Float64()
	id := ids[rng.Intn(len(ids))]

	switch {
	case roll < cfg.ChurnRate:
		begin := time.Now()
		e := ecs.NewEntity(world)
		if err := e.Add(Position{X: rng.Float64()}); err != nil {
			return err
		}
		newId, err := world.Insert(ctx, e)
		if err != nil {
			return ignoreDeadline(err)
		}
		if _, err := world.Remove(ctx, newId); err != nil {
			return ignoreDeadline(err)
		}
		stats.Churn.Observe(time.Since(begin))

	case roll < cfg.ChurnRate+cfg.ReadRatio:
		begin := time.Now()
		ref, err := world.Get(ctx, id)
		if err != nil {
			return ignoreDeadline(err)
		}
		if ref != nil {
			ecs.Get[Position](ref.Entity())
			ref.Close()
		}
		stats.Get.Observe(time.Since(begin))

	default:
		begin := time.Now()
		mut, err := world.GetMut(ctx, id)
		if err != nil {
			return ignoreDeadline(err)
		}
		if mut != nil {
			if pos, ok := ecs.Mut[Position](mut.Entity()); ok {
				vel, hasVel := ecs.Get[Velocity](mut.Entity())
				if hasVel {
					pos.X += vel.DX
					pos.Y += vel.DY
				}
			}
			mut.Close()
		}
		stats.Mutate.Observe(time.Since(begin))
	}
	return nil
}

func ignoreDeadline(err error) error {
	if err == context.DeadlineExceeded || err == context.Canceled {
		return nil
	}
	return err
}
