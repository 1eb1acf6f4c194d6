package domain

import "time"

// TaskPatch is the update set produced by a lifecycle transition. Nil fields
// are left untouched by Apply; a pointer to the zero value clears the field.
// Returning an explicit patch (rather than mutating in place) keeps the
// swallow-vs-surface policy of each transition auditable and lets the caller
// decide what to do with the task row.
// Fields are ordered to minimize memory padding.
type TaskPatch struct {
	Started        *time.Time
	Completed      *time.Time
	AssignedWorker *string
	WorkerStatus   *WorkerStatus
	WorkerContext  *string
	Logs           *[]WorkerLog
	Status         *Status
}

// IsEmpty returns true if the patch changes nothing.
func (p *TaskPatch) IsEmpty() bool {
	return p.Started == nil && p.Completed == nil && p.AssignedWorker == nil &&
		p.WorkerStatus == nil && p.WorkerContext == nil && p.Logs == nil && p.Status == nil
}

// Apply writes the patch onto the task.
func (p *TaskPatch) Apply(t *Task) {
	if p.Started != nil {
		t.Started = *p.Started
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.AssignedWorker != nil {
		t.AssignedWorker = *p.AssignedWorker
	}
	if p.WorkerStatus != nil {
		t.WorkerStatus = *p.WorkerStatus
	}
	if p.WorkerContext != nil {
		t.WorkerContext = *p.WorkerContext
	}
	if p.Logs != nil {
		t.Logs = *p.Logs
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}

// Ptr returns a pointer to v, for building patches without temporaries.
func Ptr[T any](v T) *T { return &v }

// ClearWorker releases the worker binding, leaving the given sub-state behind.
func (p *TaskPatch) ClearWorker(status WorkerStatus) {
	p.AssignedWorker = Ptr("")
	p.WorkerStatus = Ptr(status)
}
