package usecase

import (
	"context"
	"fmt"

	"github.com/snishimura/agentdeck/internal/domain"
	"github.com/snishimura/agentdeck/internal/usecase/shared"
)

// UpdateTaskInput contains the parameters for updating a task. Nil fields
// are left unchanged. Status changes are routed through the lifecycle
// coordinator; direct status writes bypassing it are not possible through
// this use case.
type UpdateTaskInput struct {
	TaskID        string
	Title         *string
	Description   *string
	TargetBranch  *string
	MergeStrategy *string
	Status        *domain.Status
}

// UpdateTaskOutput contains the updated task.
type UpdateTaskOutput struct {
	Task *domain.Task
}

// UpdateTask is the use case for editing a task.
type UpdateTask struct {
	tasks       domain.TaskRepository
	transitions *ApplyStatusChange
}

// NewUpdateTask creates a new UpdateTask use case.
func NewUpdateTask(tasks domain.TaskRepository, transitions *ApplyStatusChange) *UpdateTask {
	return &UpdateTask{tasks: tasks, transitions: transitions}
}

// Execute updates the task. The transition runs first so a rejected
// transition leaves the persisted row untouched by the metadata edits in the
// same request.
func (uc *UpdateTask) Execute(ctx context.Context, in UpdateTaskInput) (*UpdateTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	if in.Status != nil && *in.Status != task.Status {
		if !in.Status.IsValid() {
			return nil, domain.ErrInvalidStatus
		}
		out, err := uc.transitions.Execute(ctx, StatusChangeInput{
			Task:      task,
			OldStatus: task.Status,
			NewStatus: *in.Status,
		})
		if err != nil {
			return nil, err
		}
		out.Patch.Apply(task)
		task.Status = *in.Status
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, domain.ErrEmptyTitle
		}
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.TargetBranch != nil {
		task.TargetBranch = *in.TargetBranch
	}
	if in.MergeStrategy != nil {
		task.MergeStrategy = *in.MergeStrategy
	}

	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	return &UpdateTaskOutput{Task: task}, nil
}
