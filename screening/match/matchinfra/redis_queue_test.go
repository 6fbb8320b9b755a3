package matchinfra

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/match"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T) (match.JobQueue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisQueue(client, "matching_jobs"), mr
}

func TestEnqueueDequeueRoundTrip(t *testing.T) {
	queue, _ := newTestQueue(t)
	ctx := context.Background()

	job := &match.MatchingJob{
		ID:         "run-1",
		JobID:      kernel.JobID("j1"),
		EnqueuedAt: time.Now().UTC(),
	}
	require.NoError(t, queue.Enqueue(ctx, job))

	size, err := queue.GetQueueSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), size)

	data, err := queue.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, data)

	var got match.MatchingJob
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, kernel.JobID("j1"), got.JobID)
	assert.True(t, got.CandidateID.IsEmpty())
}

func TestDequeuePreservesFIFOOrder(t *testing.T) {
	queue, _ := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, queue.Enqueue(ctx, &match.MatchingJob{ID: "run-1", JobID: "j1"}))
	require.NoError(t, queue.Enqueue(ctx, &match.MatchingJob{ID: "run-2", JobID: "j2"}))

	first, err := queue.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	second, err := queue.Dequeue(ctx, time.Second)
	require.NoError(t, err)

	var got match.MatchingJob
	require.NoError(t, json.Unmarshal(first, &got))
	assert.Equal(t, "run-1", got.ID)
	require.NoError(t, json.Unmarshal(second, &got))
	assert.Equal(t, "run-2", got.ID)
}

func TestMoveDelayedToReady(t *testing.T) {
	queue, _ := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, queue.EnqueueDelayed(ctx, &match.MatchingJob{ID: "run-1", JobID: "j1"}, -time.Minute))
	require.NoError(t, queue.EnqueueDelayed(ctx, &match.MatchingJob{ID: "run-2", JobID: "j2"}, time.Hour))

	moved, err := queue.MoveDelayedToReady(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	size, err := queue.GetQueueSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), size)

	data, err := queue.Dequeue(ctx, time.Second)
	require.NoError(t, err)

	var got match.MatchingJob
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "run-1", got.ID)
}

func TestPing(t *testing.T) {
	queue, _ := newTestQueue(t)

	assert.NoError(t, queue.Ping(context.Background()))
}
