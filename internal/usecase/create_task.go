package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/snishimura/agentdeck/internal/domain"
)

// CreateTaskInput contains the parameters for creating a task.
// Fields are ordered to minimize memory padding.
type CreateTaskInput struct {
	Title         string        // Title (required)
	Description   string        // Description (optional)
	ProjectID     string        // Owning project (required)
	TargetBranch  string        // Optional notification metadata
	MergeStrategy string        // Optional notification metadata
	Status        domain.Status // Initial status (defaults to backlog)
}

// CreateTaskOutput contains the created task.
type CreateTaskOutput struct {
	Task *domain.Task
}

// CreateTask creates a task and, when the initial status requires it, runs
// the lifecycle transition. A failed transition rolls the row back entirely
// so a task is never left half-created.
type CreateTask struct {
	tasks       domain.TaskRepository
	projects    domain.ProjectRepository
	transitions *ApplyStatusChange
	clock       domain.Clock
}

// NewCreateTask creates a new CreateTask use case.
func NewCreateTask(
	tasks domain.TaskRepository,
	projects domain.ProjectRepository,
	transitions *ApplyStatusChange,
	clock domain.Clock,
) *CreateTask {
	return &CreateTask{
		tasks:       tasks,
		projects:    projects,
		transitions: transitions,
		clock:       clock,
	}
}

// Execute creates the task.
func (uc *CreateTask) Execute(ctx context.Context, in CreateTaskInput) (*CreateTaskOutput, error) {
	if in.Title == "" {
		return nil, domain.ErrEmptyTitle
	}
	status := in.Status
	if status == "" {
		status = domain.StatusBacklog
	}
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	// A task cannot exist without a valid project at creation time.
	project, err := uc.projects.Get(in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, domain.ErrProjectNotFound
	}

	task := &domain.Task{
		ID:            uuid.NewString(),
		Created:       uc.clock.Now(),
		Title:         in.Title,
		Description:   in.Description,
		ProjectID:     in.ProjectID,
		TargetBranch:  in.TargetBranch,
		MergeStrategy: in.MergeStrategy,
		Status:        domain.StatusBacklog,
	}
	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if status != domain.StatusBacklog {
		out, err := uc.transitions.Execute(ctx, StatusChangeInput{
			Task:      task,
			OldStatus: domain.StatusBacklog,
			NewStatus: status,
		})
		if err != nil {
			// Roll the creation back entirely; the caller sees the
			// transition error, not a backlog row it never asked for.
			_ = uc.tasks.Delete(task.ID)
			return nil, err
		}
		out.Patch.Apply(task)
		task.Status = status
		if err := uc.tasks.Save(task); err != nil {
			return nil, fmt.Errorf("save task: %w", err)
		}
	}

	return &CreateTaskOutput{Task: task}, nil
}
