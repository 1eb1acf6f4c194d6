// Package jsonstore provides a JSON file-based implementation of the task
// and project repositories.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/snishimura/agentdeck/internal/domain"
)

// Ensure Store implements the repository ports.
var (
	_ domain.TaskRepository    = (*Store)(nil)
	_ domain.ProjectRepository = projectView{}
	_ domain.StoreInitializer  = (*Store)(nil)
)

// storeData represents the JSON file structure.
type storeData struct {
	Tasks    map[string]*domain.Task    `json:"tasks"`
	Projects map[string]*domain.Project `json:"projects"`
}

// Store implements the task and project repositories using a JSON file.
// Concurrent access is serialized with an flock-protected lock file, so
// several processes (the server and CLI invocations) can share one board.
type Store struct {
	path     string
	lockPath string
}

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first write.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Initialize creates an empty store file if it doesn't exist.
func (s *Store) Initialize() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil // Already exists
	}

	return s.write(emptyData())
}

// Get retrieves a task by ID.
func (s *Store) Get(id string) (*domain.Task, error) {
	var task *domain.Task
	err := s.withLock(func(data *storeData) error {
		task = data.Tasks[id]
		return nil
	})
	return task, err
}

// List retrieves all tasks, newest first. The backing map has no order of
// its own, so every listing is sorted here; push snapshots and API responses
// agree on one ordering.
func (s *Store) List() ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := s.withLock(func(data *storeData) error {
		for _, t := range data.Tasks {
			tasks = append(tasks, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		if c := b.Created.Compare(a.Created); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return tasks, nil
}

// Save creates or updates a task.
func (s *Store) Save(task *domain.Task) error {
	return s.withLockWrite(func(data *storeData) error {
		data.Tasks[task.ID] = task
		return nil
	})
}

// Delete removes a task by ID.
func (s *Store) Delete(id string) error {
	return s.withLockWrite(func(data *storeData) error {
		delete(data.Tasks, id)
		return nil
	})
}

// FindByWorker retrieves the task bound to the given worker identifier.
func (s *Store) FindByWorker(workerID string) (*domain.Task, error) {
	if workerID == "" {
		return nil, nil
	}
	var task *domain.Task
	err := s.withLock(func(data *storeData) error {
		for _, t := range data.Tasks {
			if t.AssignedWorker == workerID {
				task = t
				return nil
			}
		}
		return nil
	})
	return task, err
}

// GetProject retrieves a project by ID.
func (s *Store) GetProject(id string) (*domain.Project, error) {
	var project *domain.Project
	err := s.withLock(func(data *storeData) error {
		project = data.Projects[id]
		return nil
	})
	return project, err
}

// ListProjects retrieves all projects, sorted by name.
func (s *Store) ListProjects() ([]*domain.Project, error) {
	var projects []*domain.Project
	err := s.withLock(func(data *storeData) error {
		for _, p := range data.Projects {
			projects = append(projects, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(projects, func(a, b *domain.Project) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return projects, nil
}

// SaveProject creates or updates a project.
func (s *Store) SaveProject(project *domain.Project) error {
	return s.withLockWrite(func(data *storeData) error {
		data.Projects[project.ID] = project
		return nil
	})
}

// DeleteProject removes a project by ID.
func (s *Store) DeleteProject(id string) error {
	return s.withLockWrite(func(data *storeData) error {
		delete(data.Projects, id)
		return nil
	})
}

// FindProjectByPath retrieves a project by its repository path.
func (s *Store) FindProjectByPath(path string) (*domain.Project, error) {
	var project *domain.Project
	err := s.withLock(func(data *storeData) error {
		for _, p := range data.Projects {
			if p.Path == path {
				project = p
				return nil
			}
		}
		return nil
	})
	return project, err
}

// Projects returns the project repository view of the store. Both views
// share the same file and lock.
func (s *Store) Projects() domain.ProjectRepository {
	return projectView{s}
}

// projectView adapts the store's project methods to domain.ProjectRepository.
type projectView struct {
	s *Store
}

func (v projectView) Get(id string) (*domain.Project, error) { return v.s.GetProject(id) }

func (v projectView) List() ([]*domain.Project, error) { return v.s.ListProjects() }

func (v projectView) Save(project *domain.Project) error { return v.s.SaveProject(project) }

func (v projectView) Delete(id string) error { return v.s.DeleteProject(id) }

func (v projectView) FindByPath(path string) (*domain.Project, error) {
	return v.s.FindProjectByPath(path)
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return emptyData(), nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	if data.Tasks == nil {
		data.Tasks = make(map[string]*domain.Task)
	}
	if data.Projects == nil {
		data.Projects = make(map[string]*domain.Project)
	}
	return &data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to a temp file and rename for atomicity.
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("finalize store file: %w", err)
	}
	return nil
}

func emptyData() *storeData {
	return &storeData{
		Tasks:    make(map[string]*domain.Task),
		Projects: make(map[string]*domain.Project),
	}
}
