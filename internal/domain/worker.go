package domain

import "time"

// WorkerState is the status reported by the agent service for a worker.
type WorkerState string

const (
	WorkerStateSpawning WorkerState = "spawning" // Process starting up
	WorkerStateActive   WorkerState = "active"   // Session established
	WorkerStateBusy     WorkerState = "busy"     // Actively working
	WorkerStateIdle     WorkerState = "idle"     // Stopped working, awaiting input
	WorkerStateClosed   WorkerState = "closed"   // Torn down
)

// Pollable returns true if the worker's logs are worth fetching: spawning
// workers have none yet and closed workers no longer exist.
func (s WorkerState) Pollable() bool {
	return s == WorkerStateBusy || s == WorkerStateActive || s == WorkerStateIdle
}

// Worker is the ephemeral record of a remote agent process. It is fetched
// fresh on every poll and never persisted; Sync State holds the only memory
// of what the coordinator has already reacted to.
// Fields are ordered to minimize memory padding.
type Worker struct {
	ID           string      `json:"id"`                     // Service-assigned identifier
	Name         string      `json:"name,omitempty"`         // May echo the id; not always stable
	TaskID       string      `json:"taskId,omitempty"`       // Task-correlating annotation (not authoritative)
	TaskTitle    string      `json:"taskTitle,omitempty"`    // Enriched for viewers (derived, not persisted)
	WorktreePath string      `json:"worktreePath,omitempty"` // Where the worker operates
	ProjectPath  string      `json:"projectPath,omitempty"`  // Repository the worktree belongs to
	Status       WorkerState `json:"status"`                 // Reported status
	IsIdle       bool        `json:"isIdle"`                 // Authoritative idle signal
}

// WorkerLog is a single message from a worker's transcript.
// Fields are ordered to minimize memory padding.
type WorkerLog struct {
	Time    time.Time `json:"time,omitzero"` // When the message was produced
	Role    string    `json:"role"`          // user / assistant / system
	Content string    `json:"content"`       // Message text
}

// SpawnRequest asks the agent service to start a worker for a task.
type SpawnRequest struct {
	TaskID      string `json:"taskId"`
	Prompt      string `json:"prompt"`
	ProjectPath string `json:"projectPath"`
}

// SpawnResult is the normalized outcome of a successful spawn call.
type SpawnResult struct {
	WorkerID string `json:"workerId"`
}
