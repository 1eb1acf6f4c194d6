package agentrpc

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snishimura/agentdeck/internal/domain"
)

// startFakeService runs a line-delimited JSON-RPC server that answers every
// request, delaying the methods named in delays. Each request is answered on
// its own goroutine so replies can arrive out of order.
func startFakeService(t *testing.T, delays map[string]time.Duration) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveFakeConn(conn, delays)
		}
	}()
	return ln.Addr().String()
}

func serveFakeConn(conn net.Conn, delays map[string]time.Duration) {
	defer func() { _ = conn.Close() }()
	var writeMu sync.Mutex
	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}
		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			continue
		}
		go func() {
			if d := delays[req.Method]; d > 0 {
				time.Sleep(d)
			}
			result := json.RawMessage(`{"workers": []}`)
			if req.Method == "spawn" {
				result = json.RawMessage(`{"worker_id": "W1"}`)
			}
			payload, _ := json.Marshal(response{ID: req.ID, Result: result})
			writeMu.Lock()
			_, _ = conn.Write(append(payload, '\n'))
			writeMu.Unlock()
		}()
	}
}

func TestClient_List_NotBlockedBySlowSpawn(t *testing.T) {
	addr := startFakeService(t, map[string]time.Duration{"spawn": 750 * time.Millisecond})
	c := New(addr)

	spawnDone := make(chan error, 1)
	go func() {
		_, err := c.Spawn(context.Background(), domain.SpawnRequest{TaskID: "T1", Prompt: "p"})
		spawnDone <- err
	}()

	// Give the spawn time to get on the wire before racing it.
	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	workers, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, workers)
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	require.NoError(t, <-spawnDone)
}

func TestClient_Call_RedialsAfterConnectionLoss(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	// First connection is dropped without a reply; later ones are served.
	go func() {
		first := true
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			if first {
				first = false
				go func(c net.Conn) {
					r := bufio.NewReader(c)
					_, _ = r.ReadBytes('\n')
					_ = c.Close()
				}(conn)
				continue
			}
			go serveFakeConn(conn, nil)
		}
	}()

	c := New(ln.Addr().String())

	_, err = c.List(context.Background())
	assert.Error(t, err)

	workers, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, workers)
}

func TestClient_Call_ContextCancelStopsWaiting(t *testing.T) {
	addr := startFakeService(t, map[string]time.Duration{"list": time.Minute})
	c := New(addr)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := c.List(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
