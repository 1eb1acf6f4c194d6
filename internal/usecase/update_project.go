package usecase

import (
	"context"
	"fmt"

	"github.com/snishimura/agentdeck/internal/domain"
)

// UpdateProjectInput contains the parameters for editing a project. Nil
// fields are left unchanged. Changing the path re-derives the name unless an
// explicit name is given in the same request.
type UpdateProjectInput struct {
	ProjectID string
	Path      *string
	Name      *string
}

// UpdateProjectOutput contains the updated project.
type UpdateProjectOutput struct {
	Project *domain.Project
}

// UpdateProject is the use case for editing a project.
type UpdateProject struct {
	projects domain.ProjectRepository
}

// NewUpdateProject creates a new UpdateProject use case.
func NewUpdateProject(projects domain.ProjectRepository) *UpdateProject {
	return &UpdateProject{projects: projects}
}

// Execute updates the project.
func (uc *UpdateProject) Execute(_ context.Context, in UpdateProjectInput) (*UpdateProjectOutput, error) {
	project, err := uc.projects.Get(in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, domain.ErrProjectNotFound
	}

	if in.Path != nil {
		if *in.Path == "" {
			return nil, domain.ErrEmptyPath
		}
		other, err := uc.projects.FindByPath(*in.Path)
		if err != nil {
			return nil, fmt.Errorf("find project by path: %w", err)
		}
		if other != nil && other.ID != project.ID {
			return nil, domain.ErrProjectExists
		}
		project.Path = *in.Path
		project.Name = domain.ProjectNameFromPath(*in.Path)
	}
	if in.Name != nil && *in.Name != "" {
		project.Name = *in.Name
	}

	if err := uc.projects.Save(project); err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}
	return &UpdateProjectOutput{Project: project}, nil
}
