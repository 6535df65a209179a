package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookstore/internal/tasks"
)

type recordingQueue struct {
	mu    sync.Mutex
	tasks []backlite.Task
}

func (q *recordingQueue) Enqueue(ctx context.Context, task backlite.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return nil
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 3 * * *"))
	assert.NoError(t, ValidateCronSchedule("*/15 * * * *"))
	assert.Error(t, ValidateCronSchedule("every day"))
	assert.Error(t, ValidateCronSchedule("0 0 3 * * *"), "seconds field is not accepted")
}

func TestAuditCleanupScheduler_RunNow(t *testing.T) {
	queue := &recordingQueue{}
	s := NewAuditCleanupScheduler(queue, "0 3 * * *", 14)

	require.NoError(t, s.RunNow(context.Background()))

	require.Len(t, queue.tasks, 1)
	assert.Equal(t, tasks.CleanupAuditEventsTask{RetentionDays: 14}, queue.tasks[0])
}

func TestAuditCleanupScheduler_StartStop(t *testing.T) {
	s := NewAuditCleanupScheduler(&recordingQueue{}, "0 3 * * *", 30)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())

	next := s.NextRunTime()
	require.NotNil(t, next)
	assert.Equal(t, 3, next.Hour())
	assert.True(t, next.After(time.Now()))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRunTime())
}

func TestAuditCleanupScheduler_StopsOnContextCancel(t *testing.T) {
	s := NewAuditCleanupScheduler(&recordingQueue{}, "0 3 * * *", 30)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
}

func TestAuditCleanupScheduler_InvalidSchedule(t *testing.T) {
	s := NewAuditCleanupScheduler(&recordingQueue{}, "not a schedule", 30)

	err := s.Start(context.Background())

	assert.Error(t, err)
	assert.False(t, s.IsRunning())
}

func TestAuditCleanupScheduler_EmptyScheduleDisables(t *testing.T) {
	s := NewAuditCleanupScheduler(&recordingQueue{}, "", 30)

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}
