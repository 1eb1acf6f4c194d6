package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/snishimura/agentdeck/internal/domain"
)

// CreateProjectInput contains the parameters for registering a project.
type CreateProjectInput struct {
	Path string // Absolute repository path (required, unique)
	Name string // Optional; derived from the path when empty
}

// CreateProjectOutput contains the registered project.
type CreateProjectOutput struct {
	Project *domain.Project
}

// CreateProject registers a repository path on the board. The default branch
// is resolved best-effort; a path that is not a git repository is still
// accepted, it just carries no branch metadata.
type CreateProject struct {
	projects domain.ProjectRepository
	repos    domain.RepoInspector
	clock    domain.Clock
	logger   *slog.Logger
}

// NewCreateProject creates a new CreateProject use case.
func NewCreateProject(
	projects domain.ProjectRepository,
	repos domain.RepoInspector,
	clock domain.Clock,
	logger *slog.Logger,
) *CreateProject {
	return &CreateProject{projects: projects, repos: repos, clock: clock, logger: logger}
}

// Execute registers the project.
func (uc *CreateProject) Execute(_ context.Context, in CreateProjectInput) (*CreateProjectOutput, error) {
	if in.Path == "" {
		return nil, domain.ErrEmptyPath
	}

	existing, err := uc.projects.FindByPath(in.Path)
	if err != nil {
		return nil, fmt.Errorf("find project by path: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrProjectExists
	}

	name := in.Name
	if name == "" {
		name = domain.ProjectNameFromPath(in.Path)
	}

	project := &domain.Project{
		ID:      uuid.NewString(),
		Created: uc.clock.Now(),
		Path:    in.Path,
		Name:    name,
	}

	branch, err := uc.repos.DefaultBranch(in.Path)
	if err != nil {
		uc.logger.Warn("resolve default branch failed", "path", in.Path, "error", err)
	} else {
		project.DefaultBranch = branch
	}

	if err := uc.projects.Save(project); err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}
	return &CreateProjectOutput{Project: project}, nil
}
