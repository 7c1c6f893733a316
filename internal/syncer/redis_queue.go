package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_hub/pkg/e"
)

// RedisQueue хранит очередь клиента в Redis:
// HASH queuedId -> JSON, ZSET по seq для порядка и счетчик seq
type RedisQueue struct {
	client     *redis.Client
	actionsKey string
	orderKey   string
	seqKey     string
}

func NewRedisQueue(client *redis.Client, clientID string) *RedisQueue {
	prefix := "sync:" + clientID
	return &RedisQueue{
		client:     client,
		actionsKey: prefix + ":actions",
		orderKey:   prefix + ":order",
		seqKey:     prefix + ":seq",
	}
}

func (q *RedisQueue) Add(ctx context.Context, action *Action) error {
	seq, err := q.client.Incr(ctx, q.seqKey).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate queue sequence: %w", err)
	}
	action.Seq = seq

	payload, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("failed to marshal queued action: %w", err)
	}

	// запись и порядок сохраняются вместе в MULTI/EXEC
	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, q.actionsKey, action.QueuedID.String(), payload)
		pipe.ZAdd(ctx, q.orderKey, redis.Z{Score: float64(seq), Member: action.QueuedID.String()})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue action in Redis: %w", err)
	}
	return nil
}

func (q *RedisQueue) Save(ctx context.Context, action *Action) error {
	exists, err := q.client.HExists(ctx, q.actionsKey, action.QueuedID.String()).Result()
	if err != nil {
		return fmt.Errorf("failed to check queued action: %w", err)
	}
	if !exists {
		return fmt.Errorf("syncer: action %s: %w", action.QueuedID, e.ErrNotFound)
	}

	payload, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("failed to marshal queued action: %w", err)
	}
	if err := q.client.HSet(ctx, q.actionsKey, action.QueuedID.String(), payload).Err(); err != nil {
		return fmt.Errorf("failed to save queued action: %w", err)
	}
	return nil
}

func (q *RedisQueue) Get(ctx context.Context, queuedID uuid.UUID) (*Action, error) {
	val, err := q.client.HGet(ctx, q.actionsKey, queuedID.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("syncer: action %s: %w", queuedID, e.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get queued action: %w", err)
	}

	action := &Action{}
	if err := json.Unmarshal(val, action); err != nil {
		return nil, fmt.Errorf("failed to unmarshal queued action: %w", err)
	}
	return action, nil
}

func (q *RedisQueue) List(ctx context.Context) ([]*Action, error) {
	ids, err := q.client.ZRange(ctx, q.orderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read queue order: %w", err)
	}
	if len(ids) == 0 {
		return []*Action{}, nil
	}

	values, err := q.client.HMGet(ctx, q.actionsKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read queued actions: %w", err)
	}

	out := make([]*Action, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// порядок есть, записи нет: пропускаем
			continue
		}
		action := &Action{}
		if err := json.Unmarshal([]byte(raw), action); err != nil {
			return nil, fmt.Errorf("failed to unmarshal queued action %s: %w", ids[i], err)
		}
		out = append(out, action)
	}
	return out, nil
}
