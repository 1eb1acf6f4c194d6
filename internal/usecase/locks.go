package usecase

import "sync"

// taskLocks hands out one mutex per task id. The spawn guard reads the
// persisted worker status and then writes the starting mark; under goroutine
// concurrency those two steps must not interleave for the same task, so they
// run under the task's lock. The persisted starting mark remains the signal
// visible to requests that arrive after the lock is released.
type taskLocks struct {
	locks map[string]*sync.Mutex
	mu    sync.Mutex
}

func newTaskLocks() *taskLocks {
	return &taskLocks{locks: make(map[string]*sync.Mutex)}
}

// forTask returns the mutex for a task id, creating it on first use.
// Locks are never removed; the per-task footprint is a single mutex.
func (l *taskLocks) forTask(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}
