// Package app provides the dependency injection container for the application.
package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/snishimura/agentdeck/internal/domain"
	"github.com/snishimura/agentdeck/internal/infra/agentrpc"
	"github.com/snishimura/agentdeck/internal/infra/config"
	"github.com/snishimura/agentdeck/internal/infra/git"
	"github.com/snishimura/agentdeck/internal/infra/hub"
	"github.com/snishimura/agentdeck/internal/infra/jsonstore"
	"github.com/snishimura/agentdeck/internal/infra/notify"
	"github.com/snishimura/agentdeck/internal/syncstate"
	"github.com/snishimura/agentdeck/internal/usecase"
)

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks    domain.TaskRepository
	Projects domain.ProjectRepository
	Agents   domain.AgentClient
	Notifier domain.Notifier
	Repos    domain.RepoInspector
	Clock    domain.Clock

	// Infrastructure
	Hub    *hub.Hub
	State  *syncstate.State
	Logger *slog.Logger

	// Configuration
	Config *config.Config

	// Shared coordinator; status transitions from every entry point must go
	// through the same instance so its per-task locks actually exclude.
	transitions *usecase.ApplyStatusChange
}

// New creates a new Container from the given configuration.
func New(cfg *config.Config) (*Container, error) {
	logger := newLogger(cfg.Log.Level)

	store := jsonstore.New(cfg.Store)
	if err := store.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}

	c := &Container{
		Tasks:    store,
		Projects: store.Projects(),
		Agents:   agentrpc.New(cfg.Agents.Address),
		Notifier: notify.New(cfg.Notify.URL),
		Repos:    git.NewClient(),
		Clock:    domain.RealClock{},
		State:    syncstate.New(),
		Logger:   logger,
		Config:   cfg,
	}
	c.Hub = hub.New(logger, store.List)
	c.transitions = usecase.NewApplyStatusChange(c.Tasks, c.Projects, c.Agents, c.Clock, logger)
	return c, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(
	cfg *config.Config,
	tasks domain.TaskRepository,
	projects domain.ProjectRepository,
	agents domain.AgentClient,
	notifier domain.Notifier,
	repos domain.RepoInspector,
	clock domain.Clock,
	logger *slog.Logger,
) *Container {
	c := &Container{
		Tasks:    tasks,
		Projects: projects,
		Agents:   agents,
		Notifier: notifier,
		Repos:    repos,
		Clock:    clock,
		State:    syncstate.New(),
		Logger:   logger,
		Config:   cfg,
	}
	c.transitions = usecase.NewApplyStatusChange(tasks, projects, agents, clock, logger)
	return c
}

// newLogger builds the process logger at the configured level.
func newLogger(level string) *slog.Logger {
	var lv slog.Level
	switch level {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))
}

// UseCase factory methods

// CreateTaskUseCase returns a new CreateTask use case.
func (c *Container) CreateTaskUseCase() *usecase.CreateTask {
	return usecase.NewCreateTask(c.Tasks, c.Projects, c.transitions, c.Clock)
}

// UpdateTaskUseCase returns a new UpdateTask use case.
func (c *Container) UpdateTaskUseCase() *usecase.UpdateTask {
	return usecase.NewUpdateTask(c.Tasks, c.transitions)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks, c.Agents, c.Logger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks)
}

// RespawnWorkerUseCase returns a new RespawnWorker use case.
func (c *Container) RespawnWorkerUseCase() *usecase.RespawnWorker {
	return usecase.NewRespawnWorker(c.Tasks, c.Agents, c.transitions, c.Logger)
}

// CreateProjectUseCase returns a new CreateProject use case.
func (c *Container) CreateProjectUseCase() *usecase.CreateProject {
	return usecase.NewCreateProject(c.Projects, c.Repos, c.Clock, c.Logger)
}

// UpdateProjectUseCase returns a new UpdateProject use case.
func (c *Container) UpdateProjectUseCase() *usecase.UpdateProject {
	return usecase.NewUpdateProject(c.Projects)
}

// DeleteProjectUseCase returns a new DeleteProject use case.
func (c *Container) DeleteProjectUseCase() *usecase.DeleteProject {
	return usecase.NewDeleteProject(c.Projects)
}

// ListProjectsUseCase returns a new ListProjects use case.
func (c *Container) ListProjectsUseCase() *usecase.ListProjects {
	return usecase.NewListProjects(c.Projects)
}

// MonitorWorkersUseCase returns a new MonitorWorkers use case.
func (c *Container) MonitorWorkersUseCase() *usecase.MonitorWorkers {
	return usecase.NewMonitorWorkers(c.Tasks, c.Agents, c.Notifier, c.Hub, c.State, c.Logger, c.Config.Poll.MonitorDuration())
}

// StreamLogsUseCase returns a new StreamLogs use case.
func (c *Container) StreamLogsUseCase() *usecase.StreamLogs {
	return usecase.NewStreamLogs(c.Tasks, c.Agents, c.Hub, c.State, c.Logger, c.Config.Poll.StreamDuration())
}
