package domain

import (
	"context"
	"time"
)

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize() error
}

// TaskRepository manages task persistence. Implementations are single-row
// key/value stores; no multi-row transactions are required.
type TaskRepository interface {
	// Get retrieves a task by ID. Returns nil if not found.
	Get(id string) (*Task, error)

	// List retrieves all tasks.
	List() ([]*Task, error)

	// Save creates or updates a task.
	Save(task *Task) error

	// Delete removes a task by ID.
	Delete(id string) error

	// FindByWorker retrieves the task whose AssignedWorker matches the given
	// worker identifier. Returns nil if no task is bound to it.
	FindByWorker(workerID string) (*Task, error)
}

// ProjectRepository manages project persistence.
type ProjectRepository interface {
	// Get retrieves a project by ID. Returns nil if not found.
	Get(id string) (*Project, error)

	// List retrieves all projects.
	List() ([]*Project, error)

	// Save creates or updates a project.
	Save(project *Project) error

	// Delete removes a project by ID.
	Delete(id string) error

	// FindByPath retrieves a project by its repository path. Returns nil if
	// not found.
	FindByPath(path string) (*Project, error)
}

// AgentClient is the boundary to the external agent-management service.
// All calls may fail transiently; callers decide per call site whether a
// failure is fatal to the operation or best-effort.
type AgentClient interface {
	// Spawn starts a new worker for a task.
	Spawn(ctx context.Context, req SpawnRequest) (SpawnResult, error)

	// List returns all workers known to the service.
	List(ctx context.Context) ([]Worker, error)

	// Close tears down a worker.
	Close(ctx context.Context, workerID string) error

	// ReadLogs returns the worker's transcript so far.
	ReadLogs(ctx context.Context, workerID string) ([]WorkerLog, error)
}

// Notifier sends the external review notification.
type Notifier interface {
	// NotifyReview requests a review for an idle worker. Returns an error on
	// failure; the caller retries on later poll ticks.
	NotifyReview(ctx context.Context, req ReviewRequest) error
}

// Broadcaster pushes full-state snapshots to connected viewers. Delivery is
// fire-and-forget per viewer; implementations drop viewers that fail to
// accept a send.
type Broadcaster interface {
	// BroadcastTasks pushes a full task-list snapshot.
	BroadcastTasks(tasks []*Task)

	// BroadcastWorkers pushes a full enriched-worker-list snapshot.
	BroadcastWorkers(workers []Worker)
}

// RepoInspector resolves repository metadata for project registration.
type RepoInspector interface {
	// DefaultBranch returns the default branch of the repository at path, or
	// an error if path is not a repository.
	DefaultBranch(path string) (string, error)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
