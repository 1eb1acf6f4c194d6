package agentrpc

import (
	"fmt"
	"strings"
	"time"

	"github.com/snishimura/agentdeck/internal/domain"
)

// sessionMarkers are internal framing strings the service leaks into log
// content. They carry no information for viewers and are stripped; an entry
// that becomes empty after stripping is dropped entirely.
var sessionMarkers = []string{
	"[[session:start]]",
	"[[session:resume]]",
	"[[session:end]]",
}

// NormalizeWorker maps a raw worker payload onto the domain shape. The
// service has shipped several generations of field names; aliases are
// checked in priority order, newest first.
func NormalizeWorker(raw map[string]any) domain.Worker {
	w := domain.Worker{
		ID:           stringField(raw, "id", "worker_id", "workerId"),
		Name:         stringField(raw, "name", "worker_name", "workerName"),
		TaskID:       stringField(raw, "task_id", "taskId", "current_task", "currentTask"),
		WorktreePath: stringField(raw, "worktree_path", "worktreePath", "path"),
		ProjectPath:  stringField(raw, "project_path", "projectPath", "repo"),
		Status:       domain.WorkerState(stringField(raw, "status", "state")),
		IsIdle:       boolField(raw, "is_idle", "isIdle", "idle"),
	}
	if w.ID == "" {
		w.ID = w.Name
	}
	return w
}

// NormalizeLog maps a raw log payload onto the domain shape. Returns false
// when the entry should be dropped.
func NormalizeLog(raw map[string]any) (domain.WorkerLog, bool) {
	content := stringField(raw, "content", "text", "message")
	for _, marker := range sessionMarkers {
		content = strings.ReplaceAll(content, marker, "")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.WorkerLog{}, false
	}

	role := stringField(raw, "role", "type")
	if role == "" {
		role = "assistant"
	}

	return domain.WorkerLog{
		Time:    timeField(raw, "time", "timestamp", "ts"),
		Role:    role,
		Content: content,
	}, true
}

// stringField returns the first present alias, stringified. Numeric ids and
// non-string content show up in historical payloads; both are tolerated.
func stringField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

// boolField returns the first present alias as a bool. String forms of truth
// ("true", "1") are accepted.
func boolField(raw map[string]any, keys ...string) bool {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch b := v.(type) {
		case bool:
			return b
		case string:
			return b == "true" || b == "1"
		}
	}
	return false
}

// timeField parses the first present alias as either an RFC 3339 string or a
// Unix timestamp in seconds or milliseconds.
func timeField(raw map[string]any, keys ...string) time.Time {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if parsed, err := time.Parse(time.RFC3339, t); err == nil {
				return parsed
			}
		case float64:
			// Millisecond timestamps are unambiguously larger.
			if t > 1e12 {
				return time.UnixMilli(int64(t))
			}
			return time.Unix(int64(t), 0)
		}
	}
	return time.Time{}
}
