package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/snishimura/agentdeck/internal/domain"
)

// ListProjectsOutput contains the listed projects.
type ListProjectsOutput struct {
	Projects []*domain.Project
}

// ListProjects is the use case for listing projects.
type ListProjects struct {
	projects domain.ProjectRepository
}

// NewListProjects creates a new ListProjects use case.
func NewListProjects(projects domain.ProjectRepository) *ListProjects {
	return &ListProjects{projects: projects}
}

// Execute lists projects sorted by name.
func (uc *ListProjects) Execute(_ context.Context) (*ListProjectsOutput, error) {
	projects, err := uc.projects.List()
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	slices.SortFunc(projects, func(a, b *domain.Project) int {
		return strings.Compare(a.Name, b.Name)
	})
	return &ListProjectsOutput{Projects: projects}, nil
}
