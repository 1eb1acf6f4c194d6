// Package syncstate tracks what the poll loops have already observed about
// each remote worker. It is the only memory the process keeps about workers
// between ticks; worker records themselves are fetched fresh every poll.
package syncstate

import (
	"sync"

	"github.com/snishimura/agentdeck/internal/domain"
)

// State holds per-worker poll bookkeeping. It is safe for concurrent use by
// the monitor, the log streamer and user-triggered transitions. Entries are
// created on first observation and never actively pruned; stale entries for
// vanished workers are harmless.
// Fields are ordered to minimize memory padding.
type State struct {
	prev           map[string]domain.WorkerState
	notified       map[string]bool
	logCounts      map[string]int
	workerSnapshot string
	mu             sync.Mutex
}

// New creates an empty State.
func New() *State {
	return &State{
		prev:      make(map[string]domain.WorkerState),
		notified:  make(map[string]bool),
		logCounts: make(map[string]int),
	}
}

// PreviousStatus returns the status recorded for the worker on the last tick.
// The zero value means the worker has not been observed before.
func (s *State) PreviousStatus(workerID string) domain.WorkerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prev[workerID]
}

// RecordStatus stores the worker's current status for the next tick. The
// status is keyed by both id and name because the service's identifier is
// not always stable between polls.
func (s *State) RecordStatus(workerID, workerName string, status domain.WorkerState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prev[workerID] = status
	if workerName != "" && workerName != workerID {
		s.prev[workerName] = status
	}
}

// Notified reports whether the review notification already succeeded for the
// worker's current idle period.
func (s *State) Notified(workerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notified[workerID]
}

// SetNotified marks or clears the notified flag for a worker.
func (s *State) SetNotified(workerID string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v {
		s.notified[workerID] = true
	} else {
		delete(s.notified, workerID)
	}
}

// LogCount returns the number of log messages last seen for the worker.
func (s *State) LogCount(workerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logCounts[workerID]
}

// SetLogCount records the number of log messages seen for the worker.
func (s *State) SetLogCount(workerID string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logCounts[workerID] = n
}

// WorkerSnapshot returns the serialized form of the last broadcast worker
// list, used for cheap change detection.
func (s *State) WorkerSnapshot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workerSnapshot
}

// SetWorkerSnapshot records the serialized form of the last broadcast.
func (s *State) SetWorkerSnapshot(snapshot string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workerSnapshot = snapshot
}
