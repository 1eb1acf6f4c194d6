// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"time"

	"github.com/snishimura/agentdeck/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockTaskRepository is a test double for domain.TaskRepository.
type MockTaskRepository struct {
	Tasks     map[string]*domain.Task
	GetErr    error
	ListErr   error
	SaveErr   error
	DeleteErr error
	SaveCount int
}

// NewMockTaskRepository creates a new MockTaskRepository with an initialized map.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{Tasks: make(map[string]*domain.Task)}
}

// Ensure MockTaskRepository implements domain.TaskRepository.
var _ domain.TaskRepository = (*MockTaskRepository)(nil)

// Get retrieves a task by ID. Returns nil if not found.
func (m *MockTaskRepository) Get(id string) (*domain.Task, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	task, ok := m.Tasks[id]
	if !ok {
		return nil, nil
	}
	copied := *task
	return &copied, nil
}

// List returns all tasks.
func (m *MockTaskRepository) List() ([]*domain.Task, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	tasks := make([]*domain.Task, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Save saves a task.
func (m *MockTaskRepository) Save(task *domain.Task) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.SaveCount++
	copied := *task
	m.Tasks[task.ID] = &copied
	return nil
}

// Delete removes a task by ID.
func (m *MockTaskRepository) Delete(id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Tasks, id)
	return nil
}

// FindByWorker retrieves the task bound to the given worker identifier.
func (m *MockTaskRepository) FindByWorker(workerID string) (*domain.Task, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	for _, t := range m.Tasks {
		if t.AssignedWorker != "" && t.AssignedWorker == workerID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

// MockProjectRepository is a test double for domain.ProjectRepository.
type MockProjectRepository struct {
	Projects map[string]*domain.Project
	GetErr   error
	SaveErr  error
}

// NewMockProjectRepository creates a new MockProjectRepository with an initialized map.
func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{Projects: make(map[string]*domain.Project)}
}

// Ensure MockProjectRepository implements domain.ProjectRepository.
var _ domain.ProjectRepository = (*MockProjectRepository)(nil)

// Get retrieves a project by ID. Returns nil if not found.
func (m *MockProjectRepository) Get(id string) (*domain.Project, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	project, ok := m.Projects[id]
	if !ok {
		return nil, nil
	}
	return project, nil
}

// List returns all projects.
func (m *MockProjectRepository) List() ([]*domain.Project, error) {
	projects := make([]*domain.Project, 0, len(m.Projects))
	for _, p := range m.Projects {
		projects = append(projects, p)
	}
	return projects, nil
}

// Save saves a project.
func (m *MockProjectRepository) Save(project *domain.Project) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Projects[project.ID] = project
	return nil
}

// Delete removes a project by ID.
func (m *MockProjectRepository) Delete(id string) error {
	delete(m.Projects, id)
	return nil
}

// FindByPath retrieves a project by its repository path.
func (m *MockProjectRepository) FindByPath(path string) (*domain.Project, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, p := range m.Projects {
		if p.Path == path {
			return p, nil
		}
	}
	return nil, nil
}

// MockAgentClient is a test double for domain.AgentClient.
// Fields are ordered to minimize memory padding.
type MockAgentClient struct {
	SpawnErr    error
	ListErr     error
	CloseErr    error
	ReadLogsErr error
	Workers     []domain.Worker
	Logs        []domain.WorkerLog
	SpawnReqs   []domain.SpawnRequest
	ClosedIDs   []string
	SpawnResult domain.SpawnResult
	SpawnCalls  int
}

// NewMockAgentClient creates a new MockAgentClient.
func NewMockAgentClient() *MockAgentClient {
	return &MockAgentClient{}
}

// Ensure MockAgentClient implements domain.AgentClient.
var _ domain.AgentClient = (*MockAgentClient)(nil)

// Spawn records the request and returns the configured result or error.
func (m *MockAgentClient) Spawn(_ context.Context, req domain.SpawnRequest) (domain.SpawnResult, error) {
	m.SpawnCalls++
	m.SpawnReqs = append(m.SpawnReqs, req)
	if m.SpawnErr != nil {
		return domain.SpawnResult{}, m.SpawnErr
	}
	return m.SpawnResult, nil
}

// List returns the configured workers or error.
func (m *MockAgentClient) List(_ context.Context) ([]domain.Worker, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Workers, nil
}

// Close records the call and returns the configured error.
func (m *MockAgentClient) Close(_ context.Context, workerID string) error {
	m.ClosedIDs = append(m.ClosedIDs, workerID)
	return m.CloseErr
}

// ReadLogs returns the configured logs or error.
func (m *MockAgentClient) ReadLogs(_ context.Context, _ string) ([]domain.WorkerLog, error) {
	if m.ReadLogsErr != nil {
		return nil, m.ReadLogsErr
	}
	return m.Logs, nil
}

// MockNotifier is a test double for domain.Notifier.
type MockNotifier struct {
	NotifyErr error
	Requests  []domain.ReviewRequest
}

// NewMockNotifier creates a new MockNotifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Ensure MockNotifier implements domain.Notifier.
var _ domain.Notifier = (*MockNotifier)(nil)

// NotifyReview records the request and returns the configured error.
func (m *MockNotifier) NotifyReview(_ context.Context, req domain.ReviewRequest) error {
	m.Requests = append(m.Requests, req)
	return m.NotifyErr
}

// MockBroadcaster is a test double for domain.Broadcaster.
type MockBroadcaster struct {
	TaskBroadcasts   [][]*domain.Task
	WorkerBroadcasts [][]domain.Worker
}

// NewMockBroadcaster creates a new MockBroadcaster.
func NewMockBroadcaster() *MockBroadcaster {
	return &MockBroadcaster{}
}

// Ensure MockBroadcaster implements domain.Broadcaster.
var _ domain.Broadcaster = (*MockBroadcaster)(nil)

// BroadcastTasks records the snapshot.
func (m *MockBroadcaster) BroadcastTasks(tasks []*domain.Task) {
	m.TaskBroadcasts = append(m.TaskBroadcasts, tasks)
}

// BroadcastWorkers records the snapshot.
func (m *MockBroadcaster) BroadcastWorkers(workers []domain.Worker) {
	m.WorkerBroadcasts = append(m.WorkerBroadcasts, workers)
}

// MockRepoInspector is a test double for domain.RepoInspector.
type MockRepoInspector struct {
	BranchErr error
	Branch    string
}

// Ensure MockRepoInspector implements domain.RepoInspector.
var _ domain.RepoInspector = (*MockRepoInspector)(nil)

// DefaultBranch returns the configured branch or error.
func (m *MockRepoInspector) DefaultBranch(_ string) (string, error) {
	if m.BranchErr != nil {
		return "", m.BranchErr
	}
	return m.Branch, nil
}
