// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/snishimura/agentdeck/internal/domain"
)

// StatusChangeInput contains the parameters for a status transition.
type StatusChangeInput struct {
	Task      *domain.Task  // Task the transition applies to
	OldStatus domain.Status // Status before the transition
	NewStatus domain.Status // Requested status
}

// StatusChangeOutput contains the update set produced by a transition.
// The caller applies the patch to the task row and persists it; the use case
// itself only persists the intermediate starting mark and its revert.
type StatusChangeOutput struct {
	Patch domain.TaskPatch
}

// ApplyStatusChange is the lifecycle coordinator: it reconciles a task's
// board status with its remote worker. Entering in_progress spawns a worker,
// leaving to backlog saves context and closes it, entering done saves logs
// and closes it.
type ApplyStatusChange struct {
	tasks           domain.TaskRepository
	projects        domain.ProjectRepository
	agents          domain.AgentClient
	clock           domain.Clock
	logger          *slog.Logger
	locks           *taskLocks
	contextMessages int
	contextCharCap  int
}

// NewApplyStatusChange creates a new ApplyStatusChange use case.
func NewApplyStatusChange(
	tasks domain.TaskRepository,
	projects domain.ProjectRepository,
	agents domain.AgentClient,
	clock domain.Clock,
	logger *slog.Logger,
) *ApplyStatusChange {
	return &ApplyStatusChange{
		tasks:           tasks,
		projects:        projects,
		agents:          agents,
		clock:           clock,
		logger:          logger,
		locks:           newTaskLocks(),
		contextMessages: domain.DefaultContextMessages,
		contextCharCap:  domain.DefaultContextCharCap,
	}
}

// Execute handles a status transition for the given task.
func (uc *ApplyStatusChange) Execute(ctx context.Context, in StatusChangeInput) (*StatusChangeOutput, error) {
	if in.OldStatus == in.NewStatus {
		return &StatusChangeOutput{}, nil
	}
	if !in.NewStatus.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	switch {
	case in.NewStatus == domain.StatusInProgress:
		return uc.start(ctx, in.Task)
	case in.OldStatus == domain.StatusInProgress && in.NewStatus == domain.StatusBacklog:
		return uc.pause(ctx, in.Task)
	case in.NewStatus == domain.StatusDone:
		return uc.finish(ctx, in.Task)
	}

	// done -> backlog involves no worker; nothing to update.
	return &StatusChangeOutput{}, nil
}

// start spawns a worker for the task. The guard and the mark-starting write
// run under the task's lock; the persisted starting status is what rejects
// concurrent spawn attempts while the slow remote call is in flight.
func (uc *ApplyStatusChange) start(ctx context.Context, task *domain.Task) (*StatusChangeOutput, error) {
	lock := uc.locks.forTask(task.ID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read the worker binding under the lock: a request that raced the
	// mark-starting write may hold a copy fetched before it landed.
	if fresh, err := uc.tasks.Get(task.ID); err == nil && fresh != nil {
		task.AssignedWorker = fresh.AssignedWorker
		task.WorkerStatus = fresh.WorkerStatus
	}

	if task.WorkerStatus == domain.WorkerStarting {
		return nil, domain.ErrWorkerActive
	}
	if task.HasWorker() && task.WorkerStatus == domain.WorkerRunning {
		return nil, domain.ErrWorkerActive
	}

	patch := domain.TaskPatch{}
	if task.Started.IsZero() {
		patch.Started = domain.Ptr(uc.clock.Now())
	}

	// Mark starting before the slow spawn call so concurrent transitions
	// observe it and are rejected by the guard above.
	task.WorkerStatus = domain.WorkerStarting
	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("mark task starting: %w", err)
	}

	project, err := uc.projects.Get(task.ProjectID)
	if err != nil {
		uc.revertStarting(task)
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		uc.revertStarting(task)
		return nil, domain.ErrProjectNotFound
	}

	prompt := domain.BuildWorkerPrompt(task)
	result, err := uc.agents.Spawn(ctx, domain.SpawnRequest{
		TaskID:      task.ID,
		Prompt:      prompt,
		ProjectPath: project.Path,
	})
	if err != nil {
		uc.revertStarting(task)
		return nil, fmt.Errorf("%w: %v", domain.ErrSpawnFailed, err)
	}

	patch.AssignedWorker = domain.Ptr(result.WorkerID)
	patch.WorkerStatus = domain.Ptr(domain.WorkerRunning)
	return &StatusChangeOutput{Patch: patch}, nil
}

// revertStarting undoes the eager starting mark after a failed spawn so the
// task row is not left showing a worker that never existed.
func (uc *ApplyStatusChange) revertStarting(task *domain.Task) {
	task.WorkerStatus = domain.WorkerNone
	if err := uc.tasks.Save(task); err != nil {
		uc.logger.Error("revert starting mark failed", "task", task.ID, "error", err)
	}
}

// pause returns a task to the backlog. Remote calls are best effort: pausing
// must always succeed locally even when the agent service is unreachable.
func (uc *ApplyStatusChange) pause(ctx context.Context, task *domain.Task) (*StatusChangeOutput, error) {
	patch := domain.TaskPatch{}
	if task.HasWorker() {
		logs, err := uc.agents.ReadLogs(ctx, task.AssignedWorker)
		if err != nil {
			uc.logger.Warn("read logs for pause context failed", "task", task.ID, "worker", task.AssignedWorker, "error", err)
		} else if len(logs) > 0 {
			patch.WorkerContext = domain.Ptr(domain.FormatWorkerContext(logs, uc.contextMessages, uc.contextCharCap))
		}
		uc.closeWorker(ctx, task)
	}
	patch.ClearWorker(domain.WorkerNone)
	return &StatusChangeOutput{Patch: patch}, nil
}

// finish moves a task to done, persisting the worker's final transcript when
// the idle monitor has not already cached it.
func (uc *ApplyStatusChange) finish(ctx context.Context, task *domain.Task) (*StatusChangeOutput, error) {
	patch := domain.TaskPatch{}
	if task.Completed.IsZero() {
		patch.Completed = domain.Ptr(uc.clock.Now())
	}
	if task.HasWorker() {
		if len(task.Logs) == 0 {
			logs, err := uc.agents.ReadLogs(ctx, task.AssignedWorker)
			if err != nil {
				uc.logger.Warn("read logs on done failed", "task", task.ID, "worker", task.AssignedWorker, "error", err)
			} else if len(logs) > 0 {
				patch.Logs = domain.Ptr(logs)
			}
		}
		uc.closeWorker(ctx, task)
		patch.WorkerContext = domain.Ptr("")
		patch.ClearWorker(domain.WorkerClosed)
	}
	return &StatusChangeOutput{Patch: patch}, nil
}

// closeWorker tears down the remote worker, logging and swallowing failures.
func (uc *ApplyStatusChange) closeWorker(ctx context.Context, task *domain.Task) {
	if err := uc.agents.Close(ctx, task.AssignedWorker); err != nil {
		uc.logger.Warn("close worker failed", "task", task.ID, "worker", task.AssignedWorker, "error", err)
	}
}
