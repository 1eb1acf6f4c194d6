package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/snishimura/agentdeck/internal/domain"
	"github.com/snishimura/agentdeck/internal/syncstate"
	"github.com/snishimura/agentdeck/internal/usecase/shared"
)

// DefaultMonitorInterval is the worker poll cadence.
const DefaultMonitorInterval = 2 * time.Second

// MonitorWorkers polls the agent service, detects idle transitions, drives
// the reviewing sub-state, triggers the external review notification, and
// broadcasts worker snapshots to viewers.
type MonitorWorkers struct {
	tasks    domain.TaskRepository
	agents   domain.AgentClient
	notifier domain.Notifier
	hub      domain.Broadcaster
	state    *syncstate.State
	logger   *slog.Logger
	interval time.Duration
}

// NewMonitorWorkers creates a new MonitorWorkers use case.
func NewMonitorWorkers(
	tasks domain.TaskRepository,
	agents domain.AgentClient,
	notifier domain.Notifier,
	hub domain.Broadcaster,
	state *syncstate.State,
	logger *slog.Logger,
	interval time.Duration,
) *MonitorWorkers {
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}
	return &MonitorWorkers{
		tasks:    tasks,
		agents:   agents,
		notifier: notifier,
		hub:      hub,
		state:    state,
		logger:   logger,
		interval: interval,
	}
}

// Run polls until the context is canceled. Each tick completes before the
// next is scheduled, so ticks never overlap with themselves.
func (uc *MonitorWorkers) Run(ctx context.Context) error {
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

// Tick performs one monitor pass. Remote unavailability is never fatal: on a
// failed list the tick is skipped entirely.
func (uc *MonitorWorkers) Tick(ctx context.Context) {
	workers, err := uc.agents.List(ctx)
	if err != nil {
		uc.logger.Warn("list workers failed, skipping tick", "error", err)
		return
	}

	for i := range workers {
		w := &workers[i]
		if w.IsIdle {
			// The idle flag is authoritative over the reported status.
			w.Status = domain.WorkerStateIdle
			if !uc.state.Notified(w.ID) {
				if uc.state.PreviousStatus(w.ID) != domain.WorkerStateIdle {
					uc.logger.Info("worker went idle", "worker", w.ID)
				}
				uc.handleIdleEdge(ctx, w)
			}
		} else {
			// A fresh idle period later must trigger a fresh notification.
			uc.state.SetNotified(w.ID, false)
		}
		uc.state.RecordStatus(w.ID, w.Name, w.Status)
	}

	uc.broadcastWorkers(workers)
}

// handleIdleEdge reacts to an idle worker that has not been handed off yet:
// persist its logs together with the reviewing sub-state, broadcast so
// viewers see "reviewing" before the slower notification step, then notify.
// The notified flag is set only on confirmed success, so a failed
// notification runs this again on the next tick while the worker stays idle.
func (uc *MonitorWorkers) handleIdleEdge(ctx context.Context, w *domain.Worker) {
	task, err := shared.FindTaskForWorker(uc.tasks, *w)
	if err != nil {
		uc.logger.Warn("task lookup for idle worker failed", "worker", w.ID, "error", err)
		return
	}
	if task == nil || task.Status != domain.StatusInProgress {
		return
	}

	logs, err := uc.agents.ReadLogs(ctx, w.ID)
	if err != nil {
		// Reviewing is still set, just without fresh logs.
		uc.logger.Warn("read logs for idle worker failed", "worker", w.ID, "error", err)
	} else if len(logs) > 0 {
		task.Logs = logs
	}
	task.WorkerStatus = domain.WorkerReviewing
	if err := uc.tasks.Save(task); err != nil {
		uc.logger.Error("save reviewing task failed", "task", task.ID, "error", err)
		return
	}

	uc.broadcastTasks()

	req := domain.ReviewRequest{
		TaskID:       task.ID,
		TaskTitle:    task.Title,
		Description:  task.Description,
		WorkerID:     w.ID,
		WorkerName:   w.Name,
		WorktreePath: w.WorktreePath,
		TargetBranch: task.TargetBranch,
		Instructions: domain.MergeInstructions(task.MergeStrategy),
		SessionKey:   task.ProjectID,
	}
	if err := uc.notifier.NotifyReview(ctx, req); err != nil {
		uc.logger.Warn("review notification failed, will retry", "task", task.ID, "worker", w.ID, "error", err)
		return
	}
	uc.state.SetNotified(w.ID, true)
}

// broadcastTasks pushes a full task snapshot to viewers.
func (uc *MonitorWorkers) broadcastTasks() {
	tasks, err := uc.tasks.List()
	if err != nil {
		uc.logger.Warn("list tasks for broadcast failed", "error", err)
		return
	}
	uc.hub.BroadcastTasks(tasks)
}

// broadcastWorkers enriches the worker list with task titles and pushes it
// when the serialized snapshot differs from the last broadcast. String
// equality is an optimization, not a correctness requirement; the enriched
// list is small.
func (uc *MonitorWorkers) broadcastWorkers(workers []domain.Worker) {
	tasks, err := uc.tasks.List()
	if err != nil {
		uc.logger.Warn("list tasks for enrichment failed", "error", err)
		return
	}

	byWorker := make(map[string]*domain.Task)
	byID := make(map[string]*domain.Task)
	for _, t := range tasks {
		if t.AssignedWorker != "" {
			byWorker[t.AssignedWorker] = t
		}
		byID[t.ID] = t
	}
	for i := range workers {
		w := &workers[i]
		switch {
		case byWorker[w.ID] != nil:
			w.TaskTitle = byWorker[w.ID].Title
		case w.Name != "" && byWorker[w.Name] != nil:
			w.TaskTitle = byWorker[w.Name].Title
		case w.TaskID != "" && byID[w.TaskID] != nil:
			w.TaskTitle = byID[w.TaskID].Title
		}
	}

	snapshot, err := json.Marshal(workers)
	if err != nil {
		uc.logger.Warn("marshal worker snapshot failed", "error", err)
		return
	}
	if string(snapshot) == uc.state.WorkerSnapshot() {
		return
	}
	uc.hub.BroadcastWorkers(workers)
	uc.state.SetWorkerSnapshot(string(snapshot))
}
