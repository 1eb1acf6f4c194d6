package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/snishimura/agentdeck/internal/domain"
	"github.com/snishimura/agentdeck/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID string
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	Task *domain.Task // The deleted task
}

// DeleteTask removes a task, tearing down its worker best-effort first.
type DeleteTask struct {
	tasks  domain.TaskRepository
	agents domain.AgentClient
	logger *slog.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(tasks domain.TaskRepository, agents domain.AgentClient, logger *slog.Logger) *DeleteTask {
	return &DeleteTask{tasks: tasks, agents: agents, logger: logger}
}

// Execute deletes the task.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	if task.HasWorker() {
		if err := uc.agents.Close(ctx, task.AssignedWorker); err != nil {
			uc.logger.Warn("close worker on delete failed", "task", task.ID, "worker", task.AssignedWorker, "error", err)
		}
	}

	if err := uc.tasks.Delete(task.ID); err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return &DeleteTaskOutput{Task: task}, nil
}
