package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snishimura/agentdeck/internal/domain"
	"github.com/snishimura/agentdeck/internal/testutil"
)

func TestUpdateProject_Execute_PathChangeRederivesName(t *testing.T) {
	projects := testutil.NewMockProjectRepository()
	projects.Projects["P1"] = &domain.Project{ID: "P1", Path: "/repo/old", Name: "old"}

	uc := NewUpdateProject(projects)
	out, err := uc.Execute(context.Background(), UpdateProjectInput{
		ProjectID: "P1",
		Path:      domain.Ptr("/repo/new-app"),
	})

	require.NoError(t, err)
	assert.Equal(t, "/repo/new-app", out.Project.Path)
	assert.Equal(t, "new-app", out.Project.Name)
}

func TestUpdateProject_Execute_ExplicitNameOverridesDerived(t *testing.T) {
	projects := testutil.NewMockProjectRepository()
	projects.Projects["P1"] = &domain.Project{ID: "P1", Path: "/repo/old", Name: "old"}

	uc := NewUpdateProject(projects)
	out, err := uc.Execute(context.Background(), UpdateProjectInput{
		ProjectID: "P1",
		Path:      domain.Ptr("/repo/new-app"),
		Name:      domain.Ptr("Backend"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Backend", out.Project.Name)
}

func TestUpdateProject_Execute_PathCollision(t *testing.T) {
	projects := testutil.NewMockProjectRepository()
	projects.Projects["P1"] = &domain.Project{ID: "P1", Path: "/repo/a"}
	projects.Projects["P2"] = &domain.Project{ID: "P2", Path: "/repo/b"}

	uc := NewUpdateProject(projects)
	_, err := uc.Execute(context.Background(), UpdateProjectInput{
		ProjectID: "P1",
		Path:      domain.Ptr("/repo/b"),
	})

	assert.ErrorIs(t, err, domain.ErrProjectExists)
}

func TestUpdateProject_Execute_NotFound(t *testing.T) {
	uc := NewUpdateProject(testutil.NewMockProjectRepository())

	_, err := uc.Execute(context.Background(), UpdateProjectInput{ProjectID: "ghost"})

	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestDeleteProject_Execute_Success(t *testing.T) {
	projects := testutil.NewMockProjectRepository()
	projects.Projects["P1"] = &domain.Project{ID: "P1", Path: "/repo/a"}

	uc := NewDeleteProject(projects)
	out, err := uc.Execute(context.Background(), DeleteProjectInput{ProjectID: "P1"})

	require.NoError(t, err)
	assert.Equal(t, "P1", out.Project.ID)
	assert.Empty(t, projects.Projects)
}

func TestDeleteProject_Execute_NotFound(t *testing.T) {
	uc := NewDeleteProject(testutil.NewMockProjectRepository())

	_, err := uc.Execute(context.Background(), DeleteProjectInput{ProjectID: "ghost"})

	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestListProjects_Execute_SortedByName(t *testing.T) {
	projects := testutil.NewMockProjectRepository()
	projects.Projects["P1"] = &domain.Project{ID: "P1", Name: "zeta"}
	projects.Projects["P2"] = &domain.Project{ID: "P2", Name: "alpha"}

	uc := NewListProjects(projects)
	out, err := uc.Execute(context.Background())

	require.NoError(t, err)
	require.Len(t, out.Projects, 2)
	assert.Equal(t, "alpha", out.Projects[0].Name)
	assert.Equal(t, "zeta", out.Projects[1].Name)
}
