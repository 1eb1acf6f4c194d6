package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrProjectNotFound   = errors.New("project not found")
	ErrProjectExists     = errors.New("project path already registered")
	ErrWorkerActive      = errors.New("worker already starting or running for this task")
	ErrSpawnFailed       = errors.New("worker spawn failed")
	ErrTaskNotInProgress = errors.New("task is not in progress")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrEmptyPath         = errors.New("project path cannot be empty")
	ErrNotConnected      = errors.New("agent service not connected")
)
