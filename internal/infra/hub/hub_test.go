package hub

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snishimura/agentdeck/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dial(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHub_SendsInitialSnapshotsOnConnect(t *testing.T) {
	h := New(testLogger(), func() ([]*domain.Task, error) {
		return []*domain.Task{{ID: "T1", Title: "Fix login"}}, nil
	})

	conn := dial(t, h)

	first := readMessage(t, conn)
	assert.Equal(t, "tasks", first.Type)
	payload, err := json.Marshal(first.Payload)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "Fix login")

	second := readMessage(t, conn)
	assert.Equal(t, "workers", second.Type)
}

func TestHub_BroadcastTasksReachesViewer(t *testing.T) {
	h := New(testLogger(), func() ([]*domain.Task, error) { return nil, nil })
	conn := dial(t, h)

	// Drain the two connect-time snapshots.
	readMessage(t, conn)
	readMessage(t, conn)

	h.BroadcastTasks([]*domain.Task{{ID: "T2", Title: "New card"}})

	msg := readMessage(t, conn)
	assert.Equal(t, "tasks", msg.Type)
	payload, err := json.Marshal(msg.Payload)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "New card")
}

func TestHub_LateViewerGetsLastWorkerSnapshot(t *testing.T) {
	h := New(testLogger(), func() ([]*domain.Task, error) { return nil, nil })

	h.BroadcastWorkers([]domain.Worker{{ID: "W1", Status: domain.WorkerStateBusy}})

	conn := dial(t, h)
	readMessage(t, conn) // tasks snapshot
	msg := readMessage(t, conn)
	assert.Equal(t, "workers", msg.Type)
	payload, err := json.Marshal(msg.Payload)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "W1")
}
