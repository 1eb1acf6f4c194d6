// Package agentrpc provides the client for the external agent-management
// service. The wire protocol is newline-delimited JSON-RPC over TCP; the
// service's loosely-typed payloads are normalized here so the rest of the
// system only ever sees domain shapes.
package agentrpc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/snishimura/agentdeck/internal/domain"
)

const defaultCallTimeout = 30 * time.Second

// Ensure Client implements domain.AgentClient.
var _ domain.AgentClient = (*Client)(nil)

// Client is a lazily-connecting, reconnecting agent service client. A single
// connection is shared by all callers; replies are matched to callers by
// request id, so a slow call never blocks the others. The mutex guards only
// connection state and the in-flight table, not the round trip. A transport
// failure drops the connection and fails every in-flight call, so the next
// call dials fresh instead of reusing a possibly broken socket.
// Fields are ordered to minimize memory padding.
type Client struct {
	conn    net.Conn
	pending map[int64]chan callResult
	addr    string
	nextID  int64
	timeout time.Duration
	mu      sync.Mutex
}

// New creates a new Client for the given address. No connection is made
// until the first call.
func New(addr string) *Client {
	return &Client{
		addr:    addr,
		timeout: defaultCallTimeout,
		pending: make(map[int64]chan callResult),
	}
}

// request is the wire format of an outgoing call.
type request struct {
	Params any    `json:"params,omitempty"`
	Method string `json:"method"`
	ID     int64  `json:"id"`
}

// response is the wire format of an incoming reply.
type response struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error,omitempty"`
	ID     int64           `json:"id"`
}

// callResult carries a reply, or the transport error that ended the wait,
// from the read loop back to the caller.
type callResult struct {
	resp response
	err  error
}

// Spawn starts a new worker for a task.
func (c *Client) Spawn(ctx context.Context, req domain.SpawnRequest) (domain.SpawnResult, error) {
	raw, err := c.call(ctx, "spawn", req)
	if err != nil {
		return domain.SpawnResult{}, err
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.SpawnResult{}, fmt.Errorf("decode spawn result: %w", err)
	}
	if ok, present := payload["success"].(bool); present && !ok {
		reason := stringField(payload, "error", "message")
		if reason == "" {
			reason = "service rejected the spawn"
		}
		return domain.SpawnResult{}, errors.New(reason)
	}
	workerID := stringField(payload, "worker_id", "workerId", "id")
	if workerID == "" {
		return domain.SpawnResult{}, errors.New("spawn result carries no worker id")
	}
	return domain.SpawnResult{WorkerID: workerID}, nil
}

// List returns all workers known to the service.
func (c *Client) List(ctx context.Context) ([]domain.Worker, error) {
	raw, err := c.call(ctx, "list", nil)
	if err != nil {
		return nil, err
	}

	items, err := unwrapArray(raw, "workers")
	if err != nil {
		return nil, fmt.Errorf("decode worker list: %w", err)
	}
	workers := make([]domain.Worker, 0, len(items))
	for _, item := range items {
		workers = append(workers, NormalizeWorker(item))
	}
	return workers, nil
}

// Close tears down a worker.
func (c *Client) Close(ctx context.Context, workerID string) error {
	raw, err := c.call(ctx, "close", map[string]string{"worker_id": workerID})
	if err != nil {
		return err
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		// A bare acknowledgement is fine.
		return nil
	}
	if ok, present := payload["success"].(bool); present && !ok {
		reason := stringField(payload, "error", "message")
		if reason == "" {
			reason = "service rejected the close"
		}
		return errors.New(reason)
	}
	return nil
}

// ReadLogs returns the worker's transcript so far.
func (c *Client) ReadLogs(ctx context.Context, workerID string) ([]domain.WorkerLog, error) {
	raw, err := c.call(ctx, "read_logs", map[string]string{"worker_id": workerID})
	if err != nil {
		return nil, err
	}

	items, err := unwrapArray(raw, "logs")
	if err != nil {
		return nil, fmt.Errorf("decode log list: %w", err)
	}
	logs := make([]domain.WorkerLog, 0, len(items))
	for _, item := range items {
		if entry, ok := NormalizeLog(item); ok {
			logs = append(logs, entry)
		}
	}
	return logs, nil
}

// call performs one request/response round trip, connecting lazily. The lock
// is held only while connecting, registering the call, and writing the
// request; waiting for the reply happens outside it.
func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	c.mu.Lock()
	if err := c.ensureConn(ctx); err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", domain.ErrNotConnected, err)
	}

	c.nextID++
	id := c.nextID
	payload, err := json.Marshal(request{ID: id, Method: method, Params: params})
	if err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("marshal %s request: %w", method, err)
	}
	payload = append(payload, '\n')

	ch := make(chan callResult, 1)
	c.pending[id] = ch

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = c.conn.SetWriteDeadline(deadline)

	if _, err := c.conn.Write(payload); err != nil {
		delete(c.pending, id)
		c.resetLocked(err)
		c.mu.Unlock()
		return nil, fmt.Errorf("send %s: %w", method, err)
	}
	c.mu.Unlock()

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("read %s response: %w", method, res.err)
		}
		if res.resp.Error != "" {
			return nil, fmt.Errorf("%s: %s", method, res.resp.Error)
		}
		return res.resp.Result, nil
	case <-ctx.Done():
		c.forget(id)
		return nil, fmt.Errorf("%s: %w", method, ctx.Err())
	case <-timer.C:
		c.forget(id)
		return nil, fmt.Errorf("%s: timed out waiting for reply", method)
	}
}

// ensureConn dials if no connection is established and starts the read loop
// for the new connection. Callers hold c.mu.
func (c *Client) ensureConn(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return err
	}
	c.conn = conn
	go c.readLoop(conn)
	return nil
}

// readLoop reads replies from one connection and dispatches them to the
// waiting callers. Replies with no waiter (a caller that gave up, or a line
// that does not parse) are dropped. A read error ends the loop and fails
// every in-flight call.
func (c *Client) readLoop(conn net.Conn) {
	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			c.mu.Lock()
			if c.conn == conn {
				c.resetLocked(err)
			}
			c.mu.Unlock()
			_ = conn.Close()
			return
		}

		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.mu.Unlock()
		if ok {
			ch <- callResult{resp: resp}
		}
	}
}

// forget removes one in-flight call, for a caller that stopped waiting.
func (c *Client) forget(id int64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// resetLocked drops the connection and fails every in-flight call, so the
// next call dials fresh. Callers hold c.mu.
func (c *Client) resetLocked(err error) {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	for id, ch := range c.pending {
		ch <- callResult{err: err}
		delete(c.pending, id)
	}
}

// unwrapArray decodes a result that is either a bare JSON array or an object
// wrapping the array under the given key.
func unwrapArray(raw json.RawMessage, key string) ([]map[string]any, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var items []map[string]any
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, err
	}
	inner, ok := wrapper[key]
	if !ok {
		return nil, nil
	}
	if err := json.Unmarshal(inner, &items); err != nil {
		return nil, err
	}
	return items, nil
}
