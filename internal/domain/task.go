// Package domain contains core business entities and interfaces.
package domain

import (
	"strings"
	"time"
)

// Task represents a card on the board.
// Fields are ordered to minimize memory padding.
type Task struct {
	Created        time.Time    `json:"created"`                  // Creation time
	Started        time.Time    `json:"started,omitzero"`         // First entry to in_progress (set once)
	Completed      time.Time    `json:"completed,omitzero"`       // First entry to done (set once)
	ID             string       `json:"id"`                       // Opaque unique identifier
	Title          string       `json:"title"`                    // Title (required)
	Description    string       `json:"description,omitempty"`    // Description (optional)
	ProjectID      string       `json:"projectId"`                // Owning project (required at creation)
	AssignedWorker string       `json:"assignedWorker,omitempty"` // Bound remote worker id (empty if none)
	WorkerStatus   WorkerStatus `json:"workerStatus,omitempty"`   // Worker sub-state (empty = no worker)
	WorkerContext  string       `json:"workerContext,omitempty"`  // Transcript carried into the next spawn
	TargetBranch   string       `json:"targetBranch,omitempty"`   // Branch the work should land on
	MergeStrategy  string       `json:"mergeStrategy,omitempty"`  // merge / squash / rebase
	Logs           []WorkerLog  `json:"logs,omitempty"`           // Last persisted worker transcript
	Status         Status       `json:"status"`                   // Board column
}

// HasWorker returns true if a remote worker is bound to the task.
func (t *Task) HasWorker() bool {
	return t.AssignedWorker != ""
}

// Status represents the board column of a task.
type Status string

const (
	StatusBacklog    Status = "backlog"     // Created, awaiting start
	StatusInProgress Status = "in_progress" // Worker assigned and running
	StatusDone       Status = "done"        // Finished, worker closed
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{StatusBacklog, StatusInProgress, StatusDone}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusBacklog, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusBacklog:
		return "Backlog"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// WorkerStatus represents the lifecycle sub-state of the worker bound to a task.
// It is independent of the board column but constrained by it: starting, running
// and reviewing only coexist with StatusInProgress.
type WorkerStatus string

const (
	WorkerNone      WorkerStatus = ""          // No worker
	WorkerStarting  WorkerStatus = "starting"  // Spawn call in flight
	WorkerRunning   WorkerStatus = "running"   // Worker active
	WorkerReviewing WorkerStatus = "reviewing" // Worker idle, awaiting human decision
	WorkerClosed    WorkerStatus = "closed"    // Worker torn down on done
)

// Active returns true while the worker occupies its slot on the task.
func (ws WorkerStatus) Active() bool {
	return ws == WorkerStarting || ws == WorkerRunning || ws == WorkerReviewing
}

// BuildWorkerPrompt assembles the starting prompt for a newly spawned worker:
// title, description, an environment note, and the saved context of a previous
// worker when one exists.
func BuildWorkerPrompt(task *Task) string {
	var b strings.Builder
	b.WriteString("# Task: ")
	b.WriteString(task.Title)
	b.WriteString("\n")
	if task.Description != "" {
		b.WriteString("\n")
		b.WriteString(task.Description)
		b.WriteString("\n")
	}
	b.WriteString("\nYou are working in a dedicated worktree for this task. ")
	b.WriteString("Commit your changes as you go; do not push or merge.\n")
	if task.WorkerContext != "" {
		b.WriteString("\n## Context from the previous session\n\n")
		b.WriteString(task.WorkerContext)
		b.WriteString("\n")
	}
	return b.String()
}
