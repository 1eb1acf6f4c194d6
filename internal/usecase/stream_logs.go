package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/snishimura/agentdeck/internal/domain"
	"github.com/snishimura/agentdeck/internal/syncstate"
	"github.com/snishimura/agentdeck/internal/usecase/shared"
)

// DefaultStreamInterval is the log poll cadence.
const DefaultStreamInterval = 3 * time.Second

// StreamLogs incrementally persists worker transcripts to their bound tasks
// and broadcasts a task snapshot when anything changed. Only workers whose
// status makes logs worth fetching are polled.
type StreamLogs struct {
	tasks    domain.TaskRepository
	agents   domain.AgentClient
	hub      domain.Broadcaster
	state    *syncstate.State
	logger   *slog.Logger
	interval time.Duration
}

// NewStreamLogs creates a new StreamLogs use case.
func NewStreamLogs(
	tasks domain.TaskRepository,
	agents domain.AgentClient,
	hub domain.Broadcaster,
	state *syncstate.State,
	logger *slog.Logger,
	interval time.Duration,
) *StreamLogs {
	if interval <= 0 {
		interval = DefaultStreamInterval
	}
	return &StreamLogs{
		tasks:    tasks,
		agents:   agents,
		hub:      hub,
		state:    state,
		logger:   logger,
		interval: interval,
	}
}

// Run polls until the context is canceled. Each tick completes before the
// next is scheduled.
func (uc *StreamLogs) Run(ctx context.Context) error {
	ticker := time.NewTicker(uc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.Canceled {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			uc.Tick(ctx)
		}
	}
}

// Tick performs one streaming pass. Per-worker failures skip that worker
// only; all per-worker updates batch into a single broadcast.
func (uc *StreamLogs) Tick(ctx context.Context) {
	workers, err := uc.agents.List(ctx)
	if err != nil {
		uc.logger.Warn("list workers failed, skipping tick", "error", err)
		return
	}

	updated := false
	for _, w := range workers {
		if !w.Status.Pollable() {
			continue
		}
		logs, err := uc.agents.ReadLogs(ctx, w.ID)
		if err != nil {
			uc.logger.Debug("read logs failed", "worker", w.ID, "error", err)
			continue
		}
		if len(logs) <= uc.state.LogCount(w.ID) {
			continue
		}

		task, err := shared.FindTaskForWorker(uc.tasks, w)
		if err != nil {
			uc.logger.Warn("task lookup for log stream failed", "worker", w.ID, "error", err)
			continue
		}
		if task == nil {
			continue
		}

		task.Logs = logs
		if err := uc.tasks.Save(task); err != nil {
			uc.logger.Error("save streamed logs failed", "task", task.ID, "error", err)
			continue
		}
		uc.state.SetLogCount(w.ID, len(logs))
		updated = true
	}

	if updated {
		tasks, err := uc.tasks.List()
		if err != nil {
			uc.logger.Warn("list tasks for broadcast failed", "error", err)
			return
		}
		uc.hub.BroadcastTasks(tasks)
	}
}
