package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/snishimura/agentdeck/internal/domain"
	"github.com/snishimura/agentdeck/internal/usecase/shared"
)

// RespawnInput contains the parameters for respawning a task's worker.
type RespawnInput struct {
	TaskID string // Task whose worker is replaced
}

// RespawnOutput contains the result of a respawn.
type RespawnOutput struct {
	TaskID   string // Task the new worker is bound to
	WorkerID string // Newly spawned worker id
}

// RespawnWorker discards a task's current worker, carries its recent
// transcript forward as context, and spawns a replacement without changing
// the task's board status. Only valid while the task is in progress.
type RespawnWorker struct {
	tasks           domain.TaskRepository
	agents          domain.AgentClient
	transitions     *ApplyStatusChange
	logger          *slog.Logger
	contextMessages int
	contextCharCap  int
}

// NewRespawnWorker creates a new RespawnWorker use case.
func NewRespawnWorker(
	tasks domain.TaskRepository,
	agents domain.AgentClient,
	transitions *ApplyStatusChange,
	logger *slog.Logger,
) *RespawnWorker {
	return &RespawnWorker{
		tasks:           tasks,
		agents:          agents,
		transitions:     transitions,
		logger:          logger,
		contextMessages: domain.DefaultContextMessages,
		contextCharCap:  domain.DefaultContextCharCap,
	}
}

// Execute replaces the task's worker. A failure at the final spawn step
// leaves the task worker-less rather than retrying; the caller re-invokes
// respawn or moves the task back to backlog.
func (uc *RespawnWorker) Execute(ctx context.Context, in RespawnInput) (*RespawnOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	if task.Status != domain.StatusInProgress {
		return nil, domain.ErrTaskNotInProgress
	}

	// Save context from the current worker exactly as the pause path does,
	// then release the worker slot.
	if task.HasWorker() {
		logs, logsErr := uc.agents.ReadLogs(ctx, task.AssignedWorker)
		if logsErr != nil {
			uc.logger.Warn("read logs for respawn context failed", "task", task.ID, "worker", task.AssignedWorker, "error", logsErr)
		} else if len(logs) > 0 {
			task.WorkerContext = domain.FormatWorkerContext(logs, uc.contextMessages, uc.contextCharCap)
		}
		if closeErr := uc.agents.Close(ctx, task.AssignedWorker); closeErr != nil {
			uc.logger.Warn("close worker for respawn failed", "task", task.ID, "worker", task.AssignedWorker, "error", closeErr)
		}
	}
	task.AssignedWorker = ""
	task.WorkerStatus = domain.WorkerClosed
	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	// Re-fetch so the new spawn's prompt includes the just-saved context.
	task, err = shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	out, err := uc.transitions.Execute(ctx, StatusChangeInput{
		Task:      task,
		OldStatus: domain.StatusBacklog,
		NewStatus: domain.StatusInProgress,
	})
	if err != nil {
		return nil, err
	}
	out.Patch.Apply(task)
	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	return &RespawnOutput{TaskID: task.ID, WorkerID: task.AssignedWorker}, nil
}
