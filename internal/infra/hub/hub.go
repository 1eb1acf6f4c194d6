// Package hub fans out board snapshots to connected viewers over WebSocket.
// Viewers receive full-state snapshots, not deltas; delivery is
// fire-and-forget and a viewer that cannot keep up is dropped.
package hub

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/snishimura/agentdeck/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 64 * 1024
	sendBufferSize = 16
)

// Ensure Hub implements domain.Broadcaster.
var _ domain.Broadcaster = (*Hub)(nil)

// message is the wire shape pushed to viewers.
type message struct {
	TS      time.Time `json:"ts"`
	Type    string    `json:"type"` // "tasks" or "workers"
	Payload any       `json:"payload"`
}

// Hub tracks connected viewers and broadcasts snapshots to them.
// Fields are ordered to minimize memory padding.
type Hub struct {
	clients     map[*client]struct{}
	tasksFn     func() ([]*domain.Task, error)
	logger      *slog.Logger
	lastWorkers []byte
	upgrader    websocket.Upgrader
	mu          sync.Mutex
}

// New creates a Hub. tasksFn supplies the task snapshot sent to a viewer on
// connect; the worker snapshot on connect is the last one broadcast.
func New(logger *slog.Logger, tasksFn func() ([]*domain.Task, error)) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		tasksFn: tasksFn,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// client is one connected viewer.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// ServeHTTP upgrades the request and registers the viewer. Both snapshots
// are sent once before any poll-triggered broadcast reaches the viewer.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}

	if tasks, err := h.tasksFn(); err == nil {
		if payload, ok := encode("tasks", tasks); ok {
			c.send <- payload
		}
	}
	h.mu.Lock()
	if h.lastWorkers != nil {
		c.send <- h.lastWorkers
	} else if payload, ok := encode("workers", []domain.Worker{}); ok {
		c.send <- payload
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
}

// BroadcastTasks pushes a full task-list snapshot to all viewers.
func (h *Hub) BroadcastTasks(tasks []*domain.Task) {
	if payload, ok := encode("tasks", tasks); ok {
		h.broadcast(payload, false)
	}
}

// BroadcastWorkers pushes a full enriched-worker-list snapshot to all viewers.
func (h *Hub) BroadcastWorkers(workers []domain.Worker) {
	if payload, ok := encode("workers", workers); ok {
		h.broadcast(payload, true)
	}
}

func encode(msgType string, payload any) ([]byte, bool) {
	data, err := json.Marshal(message{TS: time.Now().UTC(), Type: msgType, Payload: payload})
	if err != nil {
		return nil, false
	}
	return data, true
}

// broadcast delivers a payload to every viewer. A viewer whose buffer is
// full is dropped rather than retried.
func (h *Hub) broadcast(payload []byte, workers bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if workers {
		h.lastWorkers = payload
	}
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// drop unregisters a viewer and closes its connection.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}

// writePump pushes queued payloads and keep-alive pings to the viewer.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection so pongs and close frames are processed.
// Viewers are read-only; inbound text is ignored.
func (h *Hub) readPump(c *client) {
	defer h.drop(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
