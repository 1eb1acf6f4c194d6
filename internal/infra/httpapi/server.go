// Package httpapi exposes the board over HTTP: task and project CRUD,
// worker respawn, and the WebSocket push channel. Routing and validation
// live here; all workflow decisions are delegated to the use cases.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/snishimura/agentdeck/internal/domain"
	"github.com/snishimura/agentdeck/internal/usecase"
)

// Server routes API requests to use cases.
type Server struct {
	createTask    *usecase.CreateTask
	updateTask    *usecase.UpdateTask
	deleteTask    *usecase.DeleteTask
	listTasks     *usecase.ListTasks
	respawn       *usecase.RespawnWorker
	createProject *usecase.CreateProject
	updateProject *usecase.UpdateProject
	deleteProject *usecase.DeleteProject
	listProjects  *usecase.ListProjects
	tasks         domain.TaskRepository
	ws            http.Handler
	logger        *slog.Logger
}

// New creates a new Server.
func New(
	createTask *usecase.CreateTask,
	updateTask *usecase.UpdateTask,
	deleteTask *usecase.DeleteTask,
	listTasks *usecase.ListTasks,
	respawn *usecase.RespawnWorker,
	createProject *usecase.CreateProject,
	updateProject *usecase.UpdateProject,
	deleteProject *usecase.DeleteProject,
	listProjects *usecase.ListProjects,
	tasks domain.TaskRepository,
	ws http.Handler,
	logger *slog.Logger,
) *Server {
	return &Server{
		createTask:    createTask,
		updateTask:    updateTask,
		deleteTask:    deleteTask,
		listTasks:     listTasks,
		respawn:       respawn,
		createProject: createProject,
		updateProject: updateProject,
		deleteProject: deleteProject,
		listProjects:  listProjects,
		tasks:         tasks,
		ws:            ws,
		logger:        logger,
	}
}

// Routes returns the API mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("POST /api/tasks/{id}/respawn", s.handleRespawn)

	mux.HandleFunc("GET /api/projects", s.handleListProjects)
	mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	mux.HandleFunc("PATCH /api/projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)

	mux.Handle("GET /ws", s.ws)

	return mux
}

type createTaskRequest struct {
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	ProjectID     string        `json:"projectId"`
	TargetBranch  string        `json:"targetBranch"`
	MergeStrategy string        `json:"mergeStrategy"`
	Status        domain.Status `json:"status"`
}

type updateTaskRequest struct {
	Title         *string        `json:"title"`
	Description   *string        `json:"description"`
	TargetBranch  *string        `json:"targetBranch"`
	MergeStrategy *string        `json:"mergeStrategy"`
	Status        *domain.Status `json:"status"`
}

type projectRequest struct {
	Path *string `json:"path"`
	Name *string `json:"name"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	out, err := s.listTasks.Execute(r.Context(), usecase.ListTasksInput{
		ProjectID: r.URL.Query().Get("projectId"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out.Tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorStatus(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	out, err := s.createTask.Execute(r.Context(), usecase.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		ProjectID:     req.ProjectID,
		TargetBranch:  req.TargetBranch,
		MergeStrategy: req.MergeStrategy,
		Status:        req.Status,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, out.Task)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if task == nil {
		s.writeError(w, domain.ErrTaskNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorStatus(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	out, err := s.updateTask.Execute(r.Context(), usecase.UpdateTaskInput{
		TaskID:        r.PathValue("id"),
		Title:         req.Title,
		Description:   req.Description,
		TargetBranch:  req.TargetBranch,
		MergeStrategy: req.MergeStrategy,
		Status:        req.Status,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out.Task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if _, err := s.deleteTask.Execute(r.Context(), usecase.DeleteTaskInput{
		TaskID: r.PathValue("id"),
	}); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRespawn(w http.ResponseWriter, r *http.Request) {
	out, err := s.respawn.Execute(r.Context(), usecase.RespawnInput{
		TaskID: r.PathValue("id"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"taskId":   out.TaskID,
		"workerId": out.WorkerID,
	})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	out, err := s.listProjects.Execute(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out.Projects)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorStatus(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	in := usecase.CreateProjectInput{}
	if req.Path != nil {
		in.Path = *req.Path
	}
	if req.Name != nil {
		in.Name = *req.Name
	}

	out, err := s.createProject.Execute(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, out.Project)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorStatus(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	out, err := s.updateProject.Execute(r.Context(), usecase.UpdateProjectInput{
		ProjectID: r.PathValue("id"),
		Path:      req.Path,
		Name:      req.Name,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out.Project)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if _, err := s.deleteProject.Execute(r.Context(), usecase.DeleteProjectInput{
		ProjectID: r.PathValue("id"),
	}); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("write response failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
		"code":  code,
	})
}

func (s *Server) writeErrorStatus(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": "bad_request"})
}

// statusFor maps domain errors onto stable HTTP codes: conflicts to 409,
// missing rows to 404, rejected input and spawn failures to 400, everything
// else to 500.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrWorkerActive):
		return http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrProjectExists):
		return http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrTaskNotFound), errors.Is(err, domain.ErrProjectNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrSpawnFailed):
		return http.StatusBadRequest, "spawn_failure"
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrEmptyPath),
		errors.Is(err, domain.ErrTaskNotInProgress):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
