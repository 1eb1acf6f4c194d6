package watch

import (
	"encoding/json"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/snishimura/agentdeck/internal/domain"
)

const dialTimeout = 10 * time.Second

// Conn wraps the WebSocket connection to the board.
type Conn struct {
	ws *websocket.Conn
}

// wireMessage mirrors the push-channel envelope.
type wireMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Connect dials the board's push channel.
func Connect(url string) tea.Cmd {
	return func() tea.Msg {
		dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
		ws, _, err := dialer.Dial(url, nil)
		if err != nil {
			return MsgConnError{Err: fmt.Errorf("connect to %s: %w", url, err)}
		}
		return MsgConnected{Conn: &Conn{ws: ws}}
	}
}

// Read waits for the next snapshot. The server pushes full snapshots only,
// so every message fully replaces the previous view state.
func (c *Conn) Read() tea.Cmd {
	return func() tea.Msg {
		for {
			_, data, err := c.ws.ReadMessage()
			if err != nil {
				return MsgConnError{Err: fmt.Errorf("read snapshot: %w", err)}
			}

			var msg wireMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				return MsgConnError{Err: fmt.Errorf("decode snapshot: %w", err)}
			}

			switch msg.Type {
			case "tasks":
				var tasks []*domain.Task
				if err := json.Unmarshal(msg.Payload, &tasks); err != nil {
					return MsgConnError{Err: fmt.Errorf("decode task snapshot: %w", err)}
				}
				return MsgTasks{Tasks: tasks}
			case "workers":
				var workers []domain.Worker
				if err := json.Unmarshal(msg.Payload, &workers); err != nil {
					return MsgConnError{Err: fmt.Errorf("decode worker snapshot: %w", err)}
				}
				return MsgWorkers{Workers: workers}
			}
			// Unknown message types are skipped; keep reading.
		}
	}
}

// Close tears down the connection.
func (c *Conn) Close() {
	_ = c.ws.Close()
}
