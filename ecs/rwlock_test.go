package ecs

import (
	"context"
	"testing"
	"time"
)

func TestRWLockSharedCoexists(t *testing.T) {
	ctx := context.Background()
	l := newRWLock()

	if err := l.rlock(ctx); err != nil {
		t.Fatalf("first rlock: %v", err)
	}
	if err := l.rlock(ctx); err != nil {
		t.Fatalf("second rlock: %v", err)
	}
	l.runlock()
	l.runlock()

	if err := l.lock(ctx); err != nil {
		t.Fatalf("lock after full release: %v", err)
	}
	l.unlock()
}

func TestRWLockExclusiveBlocksShared(t *testing.T) {
	ctx := context.Background()
	l := newRWLock()

	if err := l.lock(ctx); err != nil {
		t.Fatalf("lock: %v", err)
	}

	timeout, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := l.rlock(timeout); err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	l.unlock()
	if err := l.rlock(ctx); err != nil {
		t.Fatalf("rlock after unlock: %v", err)
	}
	l.runlock()
}

func TestRWLockAbandonedWaitIsClean(t *testing.T) {
	ctx := context.Background()
	l := newRWLock()

	if err := l.rlock(ctx); err != nil {
		t.Fatalf("rlock: %v", err)
	}

	// A writer abandons its wait; the reader's hold is untouched and a
	// later writer still succeeds once the reader releases
	timeout, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := l.lock(timeout); err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	l.runlock()
	if err := l.lock(ctx); err != nil {
		t.Fatalf("lock after abandoned wait: %v", err)
	}
	l.unlock()
}

func TestRWLockWriterNotStarved(t *testing.T) {
	ctx := context.Background()
	l := newRWLock()

	if err := l.rlock(ctx); err != nil {
		t.Fatalf("rlock: %v", err)
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		if err := l.lock(ctx); err != nil {
			t.Errorf("writer lock: %v", err)
			return
		}
		l.unlock()
	}()

	// Give the writer time to queue, then release the reader. FIFO
	// acquisition means later readers queue behind the writer instead of
	// overtaking it.
	time.Sleep(10 * time.Millisecond)
	l.runlock()

	select {
	case <-writerDone:
	case <-time.After(time.Second):
		t.Fatal("writer starved")
	}
}
