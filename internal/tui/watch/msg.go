package watch

import "github.com/snishimura/agentdeck/internal/domain"

// Msg is the interface for all watch TUI messages.
// All message types implement this sealed interface.
//
//sumtype:decl
type Msg interface {
	sealed()
}

// MsgConnected is sent when the WebSocket connection is established.
type MsgConnected struct {
	Conn *Conn
}

func (MsgConnected) sealed() {}

// MsgTasks is sent when a task snapshot arrives.
type MsgTasks struct {
	Tasks []*domain.Task
}

func (MsgTasks) sealed() {}

// MsgWorkers is sent when a worker snapshot arrives.
type MsgWorkers struct {
	Workers []domain.Worker
}

func (MsgWorkers) sealed() {}

// MsgConnError is sent when connecting or reading fails.
type MsgConnError struct {
	Err error
}

func (MsgConnError) sealed() {}
