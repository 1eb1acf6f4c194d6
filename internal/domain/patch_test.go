package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskPatch_Apply_NilFieldsUntouched(t *testing.T) {
	task := &Task{
		Title:          "keep",
		AssignedWorker: "W1",
		WorkerStatus:   WorkerRunning,
	}

	patch := TaskPatch{WorkerContext: Ptr("ctx")}
	patch.Apply(task)

	assert.Equal(t, "W1", task.AssignedWorker)
	assert.Equal(t, WorkerRunning, task.WorkerStatus)
	assert.Equal(t, "ctx", task.WorkerContext)
}

func TestTaskPatch_Apply_ZeroPointerClears(t *testing.T) {
	task := &Task{AssignedWorker: "W1", WorkerContext: "old"}

	patch := TaskPatch{
		AssignedWorker: Ptr(""),
		WorkerContext:  Ptr(""),
	}
	patch.Apply(task)

	assert.Equal(t, "", task.AssignedWorker)
	assert.Equal(t, "", task.WorkerContext)
}

func TestTaskPatch_ClearWorker(t *testing.T) {
	patch := TaskPatch{}
	patch.ClearWorker(WorkerClosed)

	task := &Task{AssignedWorker: "W1", WorkerStatus: WorkerRunning}
	patch.Apply(task)

	assert.Equal(t, "", task.AssignedWorker)
	assert.Equal(t, WorkerClosed, task.WorkerStatus)
}

func TestTaskPatch_IsEmpty(t *testing.T) {
	empty := TaskPatch{}
	assert.True(t, empty.IsEmpty())

	now := time.Now()
	assert.False(t, (&TaskPatch{Started: &now}).IsEmpty())
	assert.False(t, (&TaskPatch{Status: Ptr(StatusDone)}).IsEmpty())
}

func TestMergeInstructions(t *testing.T) {
	assert.Contains(t, MergeInstructions("squash"), "Squash")
	assert.Contains(t, MergeInstructions("rebase"), "Rebase")
	assert.Contains(t, MergeInstructions("merge"), "merge commit")
	assert.Equal(t, "", MergeInstructions(""))
	assert.Equal(t, "", MergeInstructions("octopus"))
}
