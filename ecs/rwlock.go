package ecs

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// maxLockWeight bounds the number of concurrent shared holders of a lock.
const maxLockWeight = 1 << 30

// rwLock is a reader/writer lock whose acquisition is context-aware: a
// caller waiting for either mode can abandon the wait through its context
// without disturbing the lock state. Shared mode acquires weight 1,
// exclusive mode acquires the full weight. semaphore.Weighted serves
// waiters in FIFO order, so a pending exclusive acquisition cannot be
// starved by a stream of shared ones.
type rwLock struct {
	sem *semaphore.Weighted
}

func newRWLock() *rwLock {
	return &rwLock{sem: semaphore.NewWeighted(maxLockWeight)}
}

func (l *rwLock) rlock(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

func (l *rwLock) runlock() {
	l.sem.Release(1)
}

func (l *rwLock) lock(ctx context.Context) error {
	return l.sem.Acquire(ctx, maxLockWeight)
}

func (l *rwLock) unlock() {
	l.sem.Release(maxLockWeight)
}
