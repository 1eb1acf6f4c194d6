package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snishimura/agentdeck/internal/domain"
	"github.com/snishimura/agentdeck/internal/syncstate"
	"github.com/snishimura/agentdeck/internal/testutil"
)

func newMonitorFixture(t *testing.T) (*MonitorWorkers, *testutil.MockTaskRepository, *testutil.MockAgentClient, *testutil.MockNotifier, *testutil.MockBroadcaster, *syncstate.State) {
	t.Helper()
	tasks := testutil.NewMockTaskRepository()
	agents := testutil.NewMockAgentClient()
	notifier := testutil.NewMockNotifier()
	hub := testutil.NewMockBroadcaster()
	state := syncstate.New()
	uc := NewMonitorWorkers(tasks, agents, notifier, hub, state, testLogger(), 0)
	return uc, tasks, agents, notifier, hub, state
}

func TestMonitorWorkers_Tick_IdleWorkerEntersReviewing(t *testing.T) {
	uc, tasks, agents, notifier, hub, state := newMonitorFixture(t)

	require.NoError(t, tasks.Save(&domain.Task{
		ID: "T1", Title: "Fix login", ProjectID: "P1",
		AssignedWorker: "W1", WorkerStatus: domain.WorkerRunning,
		TargetBranch: "main", MergeStrategy: "squash",
		Status: domain.StatusInProgress,
	}))
	agents.Workers = []domain.Worker{
		{ID: "W1", Name: "worker-one", WorktreePath: "/wt/W1", Status: domain.WorkerStateBusy, IsIdle: true},
	}
	agents.Logs = []domain.WorkerLog{{Role: "assistant", Content: "finished the change"}}

	uc.Tick(context.Background())

	// Logs and the reviewing sub-state were persisted together.
	saved := tasks.Tasks["T1"]
	assert.Equal(t, domain.WorkerReviewing, saved.WorkerStatus)
	assert.Equal(t, agents.Logs, saved.Logs)

	// Notification carried the task and worker coordinates.
	require.Len(t, notifier.Requests, 1)
	req := notifier.Requests[0]
	assert.Equal(t, "T1", req.TaskID)
	assert.Equal(t, "Fix login", req.TaskTitle)
	assert.Equal(t, "W1", req.WorkerID)
	assert.Equal(t, "worker-one", req.WorkerName)
	assert.Equal(t, "/wt/W1", req.WorktreePath)
	assert.Equal(t, "main", req.TargetBranch)
	assert.Contains(t, req.Instructions, "Squash")
	assert.Equal(t, "P1", req.SessionKey)

	assert.True(t, state.Notified("W1"))
	// Task broadcast before the notification, worker broadcast at end of tick.
	assert.NotEmpty(t, hub.TaskBroadcasts)
	require.Len(t, hub.WorkerBroadcasts, 1)
	assert.Equal(t, domain.WorkerStateIdle, hub.WorkerBroadcasts[0][0].Status)
	assert.Equal(t, "Fix login", hub.WorkerBroadcasts[0][0].TaskTitle)
}

func TestMonitorWorkers_Tick_FailedNotificationRetries(t *testing.T) {
	uc, tasks, agents, notifier, _, state := newMonitorFixture(t)

	require.NoError(t, tasks.Save(&domain.Task{
		ID: "T1", Title: "t", AssignedWorker: "W1", Status: domain.StatusInProgress,
	}))
	agents.Workers = []domain.Worker{{ID: "W1", Status: domain.WorkerStateIdle, IsIdle: true}}
	notifier.NotifyErr = errors.New("reviewer unreachable")

	uc.Tick(context.Background())
	uc.Tick(context.Background())

	// Retried on the second tick because the first never succeeded.
	assert.Len(t, notifier.Requests, 2)
	assert.False(t, state.Notified("W1"))

	// Recovery: the third tick succeeds and stops the retries.
	notifier.NotifyErr = nil
	uc.Tick(context.Background())
	uc.Tick(context.Background())
	assert.Len(t, notifier.Requests, 3)
	assert.True(t, state.Notified("W1"))
}

func TestMonitorWorkers_Tick_NotifiedFlagResetsWhenBusyAgain(t *testing.T) {
	uc, tasks, agents, notifier, _, state := newMonitorFixture(t)

	require.NoError(t, tasks.Save(&domain.Task{
		ID: "T1", Title: "t", AssignedWorker: "W1", Status: domain.StatusInProgress,
	}))
	agents.Workers = []domain.Worker{{ID: "W1", Status: domain.WorkerStateIdle, IsIdle: true}}

	uc.Tick(context.Background())
	require.Len(t, notifier.Requests, 1)
	require.True(t, state.Notified("W1"))

	// The worker picks work back up, then goes idle again: fresh notification.
	agents.Workers = []domain.Worker{{ID: "W1", Status: domain.WorkerStateBusy}}
	uc.Tick(context.Background())
	assert.False(t, state.Notified("W1"))

	agents.Workers = []domain.Worker{{ID: "W1", Status: domain.WorkerStateIdle, IsIdle: true}}
	uc.Tick(context.Background())
	assert.Len(t, notifier.Requests, 2)
}

func TestMonitorWorkers_Tick_IgnoresWorkersWithoutInProgressTask(t *testing.T) {
	uc, tasks, agents, notifier, _, _ := newMonitorFixture(t)

	// Bound task is already done; the idle worker is not review-worthy.
	require.NoError(t, tasks.Save(&domain.Task{
		ID: "T1", Title: "t", AssignedWorker: "W1", Status: domain.StatusDone,
	}))
	agents.Workers = []domain.Worker{
		{ID: "W1", Status: domain.WorkerStateIdle, IsIdle: true},
		{ID: "W9", Status: domain.WorkerStateIdle, IsIdle: true}, // no task at all
	}

	uc.Tick(context.Background())

	assert.Empty(t, notifier.Requests)
}

func TestMonitorWorkers_Tick_SkipsWhenListFails(t *testing.T) {
	uc, _, agents, notifier, hub, _ := newMonitorFixture(t)
	agents.ListErr = errors.New("connection refused")

	uc.Tick(context.Background())

	assert.Empty(t, notifier.Requests)
	assert.Empty(t, hub.WorkerBroadcasts)
}

func TestMonitorWorkers_Tick_UnchangedWorkerSnapshotNotRebroadcast(t *testing.T) {
	uc, _, agents, _, hub, _ := newMonitorFixture(t)
	agents.Workers = []domain.Worker{{ID: "W1", Status: domain.WorkerStateBusy}}

	uc.Tick(context.Background())
	uc.Tick(context.Background())

	assert.Len(t, hub.WorkerBroadcasts, 1)

	agents.Workers = []domain.Worker{{ID: "W1", Status: domain.WorkerStateActive}}
	uc.Tick(context.Background())
	assert.Len(t, hub.WorkerBroadcasts, 2)
}

func TestMonitorWorkers_Tick_ReadLogsFailureStillSetsReviewing(t *testing.T) {
	uc, tasks, agents, notifier, _, _ := newMonitorFixture(t)

	require.NoError(t, tasks.Save(&domain.Task{
		ID: "T1", Title: "t", AssignedWorker: "W1", Status: domain.StatusInProgress,
	}))
	agents.Workers = []domain.Worker{{ID: "W1", Status: domain.WorkerStateIdle, IsIdle: true}}
	agents.ReadLogsErr = errors.New("timeout")

	uc.Tick(context.Background())

	assert.Equal(t, domain.WorkerReviewing, tasks.Tasks["T1"].WorkerStatus)
	assert.Len(t, notifier.Requests, 1)
}
