package syncer

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_hub/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тест требует живой Redis: TEST_REDIS_ADDR=localhost:6379
func newTestRedisQueue(t *testing.T) *RedisQueue {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	q := NewRedisQueue(client, "test-"+uuid.NewString())
	t.Cleanup(func() {
		client.Del(context.Background(), q.actionsKey, q.orderKey, q.seqKey)
	})
	return q
}

func TestRedisQueue_PreservesOrderAndState(t *testing.T) {
	q := newTestRedisQueue(t)
	ctx := context.Background()

	first := &Action{QueuedID: uuid.New(), Kind: KindCreateIncident, IdempotencyKey: "a", Report: report("A"), State: StateQueued}
	second := &Action{QueuedID: uuid.New(), Kind: KindUpdateStatus, TargetKey: "a", Status: "resolved", State: StateQueued}
	require.NoError(t, q.Add(ctx, first))
	require.NoError(t, q.Add(ctx, second))
	assert.Less(t, first.Seq, second.Seq)

	first.State = StateSubmitting
	first.Attempts = 1
	require.NoError(t, q.Save(ctx, first))

	actions, err := q.List(ctx)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, first.QueuedID, actions[0].QueuedID)
	assert.Equal(t, StateSubmitting, actions[0].State)
	assert.Equal(t, "A", actions[0].Report.Location)

	got, err := q.Get(ctx, second.QueuedID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.TargetKey)

	_, err = q.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.ErrorIs(t, q.Save(ctx, &Action{QueuedID: uuid.New()}), e.ErrNotFound)
}
