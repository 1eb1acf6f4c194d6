package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/snishimura/agentdeck/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	ProjectID string // Filter by project (empty = all)
}

// ListTasksOutput contains the listed tasks.
type ListTasksOutput struct {
	Tasks []*domain.Task
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	tasks domain.TaskRepository
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks domain.TaskRepository) *ListTasks {
	return &ListTasks{tasks: tasks}
}

// Execute lists tasks, newest first.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	tasks, err := uc.tasks.List()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	if in.ProjectID != "" {
		filtered := tasks[:0]
		for _, t := range tasks {
			if t.ProjectID == in.ProjectID {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		return b.Created.Compare(a.Created)
	})
	return &ListTasksOutput{Tasks: tasks}, nil
}
