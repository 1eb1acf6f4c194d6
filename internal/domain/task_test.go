package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusBacklog.IsValid())
	assert.True(t, StatusInProgress.IsValid())
	assert.True(t, StatusDone.IsValid())
	assert.False(t, Status("review").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestWorkerStatus_Active(t *testing.T) {
	assert.True(t, WorkerStarting.Active())
	assert.True(t, WorkerRunning.Active())
	assert.True(t, WorkerReviewing.Active())
	assert.False(t, WorkerNone.Active())
	assert.False(t, WorkerClosed.Active())
}

func TestBuildWorkerPrompt_TitleAndDescription(t *testing.T) {
	task := &Task{
		Title:       "Fix login",
		Description: "Users cannot sign in with SSO.",
	}

	prompt := BuildWorkerPrompt(task)

	assert.Contains(t, prompt, "# Task: Fix login")
	assert.Contains(t, prompt, "Users cannot sign in with SSO.")
	assert.NotContains(t, prompt, "Context from the previous session")
}

func TestBuildWorkerPrompt_IncludesSavedContext(t *testing.T) {
	task := &Task{
		Title:         "Fix login",
		WorkerContext: "[assistant]: I was halfway through the token refactor.",
	}

	prompt := BuildWorkerPrompt(task)

	assert.Contains(t, prompt, "## Context from the previous session")
	assert.Contains(t, prompt, "token refactor")
}
