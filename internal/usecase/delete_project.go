package usecase

import (
	"context"
	"fmt"

	"github.com/snishimura/agentdeck/internal/domain"
)

// DeleteProjectInput contains the parameters for deleting a project.
type DeleteProjectInput struct {
	ProjectID string
}

// DeleteProjectOutput contains the result of deleting a project.
type DeleteProjectOutput struct {
	Project *domain.Project
}

// DeleteProject removes a project. Tasks referencing it are left with a
// dangling project id; that is tolerated by the rest of the system.
type DeleteProject struct {
	projects domain.ProjectRepository
}

// NewDeleteProject creates a new DeleteProject use case.
func NewDeleteProject(projects domain.ProjectRepository) *DeleteProject {
	return &DeleteProject{projects: projects}
}

// Execute deletes the project.
func (uc *DeleteProject) Execute(_ context.Context, in DeleteProjectInput) (*DeleteProjectOutput, error) {
	project, err := uc.projects.Get(in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, domain.ErrProjectNotFound
	}

	if err := uc.projects.Delete(project.ID); err != nil {
		return nil, fmt.Errorf("delete project: %w", err)
	}
	return &DeleteProjectOutput{Project: project}, nil
}
