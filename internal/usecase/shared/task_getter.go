// Package shared contains helpers used by multiple use cases.
package shared

import (
	"fmt"

	"github.com/snishimura/agentdeck/internal/domain"
)

// GetTask retrieves a task by ID and returns domain.ErrTaskNotFound if not found.
// This centralizes the common pattern of:
//
//	task, err := repo.Get(taskID)
//	if err != nil { return nil, fmt.Errorf("get task: %w", err) }
//	if task == nil { return nil, domain.ErrTaskNotFound }
func GetTask(repo domain.TaskRepository, taskID string) (*domain.Task, error) {
	task, err := repo.Get(taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

// FindTaskForWorker resolves the task bound to a remote worker. The worker's
// id is tried first, then its name (the service's identifier is not always
// stable), then the task-correlating annotation it reports. A worker with no
// matching task yields (nil, nil), not an error.
func FindTaskForWorker(repo domain.TaskRepository, w domain.Worker) (*domain.Task, error) {
	task, err := repo.FindByWorker(w.ID)
	if err != nil {
		return nil, fmt.Errorf("find task by worker id: %w", err)
	}
	if task != nil {
		return task, nil
	}

	if w.Name != "" && w.Name != w.ID {
		task, err = repo.FindByWorker(w.Name)
		if err != nil {
			return nil, fmt.Errorf("find task by worker name: %w", err)
		}
		if task != nil {
			return task, nil
		}
	}

	if w.TaskID != "" {
		task, err = repo.Get(w.TaskID)
		if err != nil {
			return nil, fmt.Errorf("get annotated task: %w", err)
		}
	}
	return task, nil
}
