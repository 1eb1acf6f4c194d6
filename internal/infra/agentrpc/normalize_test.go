package agentrpc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snishimura/agentdeck/internal/domain"
)

func TestNormalizeWorker_CanonicalFields(t *testing.T) {
	w := NormalizeWorker(map[string]any{
		"id":            "W1",
		"name":          "worker-one",
		"task_id":       "T1",
		"worktree_path": "/wt/W1",
		"project_path":  "/repo/app",
		"status":        "busy",
		"is_idle":       false,
	})

	assert.Equal(t, "W1", w.ID)
	assert.Equal(t, "worker-one", w.Name)
	assert.Equal(t, "T1", w.TaskID)
	assert.Equal(t, "/wt/W1", w.WorktreePath)
	assert.Equal(t, "/repo/app", w.ProjectPath)
	assert.Equal(t, domain.WorkerStateBusy, w.Status)
	assert.False(t, w.IsIdle)
}

func TestNormalizeWorker_LegacyAliases(t *testing.T) {
	w := NormalizeWorker(map[string]any{
		"workerId":    "W1",
		"workerName":  "worker-one",
		"currentTask": "T1",
		"path":        "/wt/W1",
		"repo":        "/repo/app",
		"state":       "idle",
		"idle":        true,
	})

	assert.Equal(t, "W1", w.ID)
	assert.Equal(t, "worker-one", w.Name)
	assert.Equal(t, "T1", w.TaskID)
	assert.Equal(t, "/wt/W1", w.WorktreePath)
	assert.Equal(t, domain.WorkerStateIdle, w.Status)
	assert.True(t, w.IsIdle)
}

func TestNormalizeWorker_IDFallsBackToName(t *testing.T) {
	w := NormalizeWorker(map[string]any{"name": "worker-one"})

	assert.Equal(t, "worker-one", w.ID)
}

func TestNormalizeWorker_NumericIDStringified(t *testing.T) {
	w := NormalizeWorker(map[string]any{"id": float64(42)})

	assert.Equal(t, "42", w.ID)
}

func TestNormalizeWorker_StringIdleFlag(t *testing.T) {
	assert.True(t, NormalizeWorker(map[string]any{"id": "W1", "is_idle": "true"}).IsIdle)
	assert.True(t, NormalizeWorker(map[string]any{"id": "W1", "is_idle": "1"}).IsIdle)
	assert.False(t, NormalizeWorker(map[string]any{"id": "W1", "is_idle": "no"}).IsIdle)
}

func TestNormalizeLog_StripsSessionMarkers(t *testing.T) {
	log, ok := NormalizeLog(map[string]any{
		"role":    "assistant",
		"content": "[[session:start]] Working on it now",
	})

	require.True(t, ok)
	assert.Equal(t, "Working on it now", log.Content)
}

func TestNormalizeLog_DropsMarkerOnlyEntries(t *testing.T) {
	_, ok := NormalizeLog(map[string]any{"content": "[[session:end]]"})
	assert.False(t, ok)

	_, ok = NormalizeLog(map[string]any{"content": "   "})
	assert.False(t, ok)
}

func TestNormalizeLog_ContentAliasesAndDefaultRole(t *testing.T) {
	log, ok := NormalizeLog(map[string]any{"text": "hello"})

	require.True(t, ok)
	assert.Equal(t, "hello", log.Content)
	assert.Equal(t, "assistant", log.Role)

	log, ok = NormalizeLog(map[string]any{"message": "hi", "type": "user"})
	require.True(t, ok)
	assert.Equal(t, "user", log.Role)
}

func TestNormalizeLog_TimeFormats(t *testing.T) {
	ref := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	log, ok := NormalizeLog(map[string]any{"content": "x", "time": ref.Format(time.RFC3339)})
	require.True(t, ok)
	assert.True(t, log.Time.Equal(ref))

	log, ok = NormalizeLog(map[string]any{"content": "x", "ts": float64(ref.Unix())})
	require.True(t, ok)
	assert.True(t, log.Time.Equal(ref))

	log, ok = NormalizeLog(map[string]any{"content": "x", "timestamp": float64(ref.UnixMilli())})
	require.True(t, ok)
	assert.True(t, log.Time.Equal(ref))
}

func TestNormalizeLog_NonStringContentStringified(t *testing.T) {
	log, ok := NormalizeLog(map[string]any{"content": float64(7)})

	require.True(t, ok)
	assert.Equal(t, "7", log.Content)
}
