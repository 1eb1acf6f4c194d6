package watch

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snishimura/agentdeck/internal/domain"
)

func TestModel_View_ShowsConnectingBeforeSnapshot(t *testing.T) {
	m := New("ws://127.0.0.1:8844/ws")

	view := m.View()

	assert.Contains(t, view, "connecting")
	assert.Contains(t, view, "ws://127.0.0.1:8844/ws")
}

func TestModel_Update_TaskSnapshotRendersColumns(t *testing.T) {
	m := New("ws://x/ws")
	m.connected = true

	updated, _ := m.Update(MsgTasks{Tasks: []*domain.Task{
		{ID: "T1", Title: "Fix login", Status: domain.StatusInProgress, WorkerStatus: domain.WorkerRunning},
		{ID: "T2", Title: "Write docs", Status: domain.StatusBacklog},
	}})
	m = updated.(*Model)

	view := m.View()
	assert.Contains(t, view, "Backlog")
	assert.Contains(t, view, "In Progress")
	assert.Contains(t, view, "Done")
	assert.Contains(t, view, "Fix login")
	assert.Contains(t, view, "running")
	assert.Contains(t, view, "Write docs")
}

func TestModel_Update_WorkerSnapshotRendersFleet(t *testing.T) {
	m := New("ws://x/ws")
	m.connected = true

	updated, _ := m.Update(MsgWorkers{Workers: []domain.Worker{
		{ID: "W1", Name: "worker-one", Status: domain.WorkerStateIdle, IsIdle: true, TaskTitle: "Fix login"},
	}})
	m = updated.(*Model)

	view := m.View()
	assert.Contains(t, view, "worker-one")
	assert.Contains(t, view, "idle")
	assert.Contains(t, view, "Fix login")
}

func TestModel_Update_ConnErrorShown(t *testing.T) {
	m := New("ws://x/ws")

	updated, _ := m.Update(MsgConnError{Err: errors.New("connection refused")})
	m = updated.(*Model)

	assert.Contains(t, m.View(), "connection refused")
}

func TestModel_Update_QuitKey(t *testing.T) {
	m := New("ws://x/ws")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
