package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	webhookQueueKey = "webhook_events"
	popTimeout      = time.Second
)

// ErrQueueEmpty - за время ожидания в очереди ничего не появилось
var ErrQueueEmpty = errors.New("webhook queue is empty")

// WebhookEvent - тело вебхука об изменении в хранилище
type WebhookEvent struct {
	Seq         int64                 `json:"seq"`
	Kind        models.EventKind      `json:"kind"`
	AggregateID uuid.UUID             `json:"aggregateId"`
	Incident    *models.Incident      `json:"incident,omitempty"`
	Area        *models.SecurityArea  `json:"area,omitempty"`
	Status      models.IncidentStatus `json:"status,omitempty"`
	PrevStatus  models.IncidentStatus `json:"prevStatus,omitempty"`
	OccurredAt  time.Time             `json:"occurredAt"`
}

func FromEvent(event *models.Event) WebhookEvent {
	return WebhookEvent{
		Seq:         event.Seq,
		Kind:        event.Kind,
		AggregateID: event.AggregateID,
		Incident:    event.Incident,
		Area:        event.Area,
		Status:      event.Status,
		PrevStatus:  event.PrevStatus,
		OccurredAt:  event.OccurredAt,
	}
}

// Queue - очередь сериализованных событий между издателем и воркером
type Queue interface {
	Push(ctx context.Context, payload []byte) error
	// Pop ждет событие не дольше popTimeout; ErrQueueEmpty, если его нет
	Pop(ctx context.Context) ([]byte, error)
}

// RedisQueue - очередь на списке Redis: LPUSH на запись, BRPOP на чтение
type RedisQueue struct {
	redisClient *redis.Client
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{redisClient: client}
}

func (q *RedisQueue) Push(ctx context.Context, payload []byte) error {
	// Используем LPUSH для добавления события в левую часть списка (очереди)
	if err := q.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}

func (q *RedisQueue) Pop(ctx context.Context) ([]byte, error) {
	result, err := q.redisClient.BRPop(ctx, popTimeout, webhookQueueKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrQueueEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pop webhook event from Redis: %w", err)
	}
	// result[0] - ключ, result[1] - значение
	return []byte(result[1]), nil
}

// MemoryQueue - очередь в памяти процесса для запуска без Redis
type MemoryQueue struct {
	ch chan []byte
}

func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{ch: make(chan []byte, size)}
}

func (q *MemoryQueue) Push(ctx context.Context, payload []byte) error {
	select {
	case q.ch <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.New("webhook memory queue is full")
	}
}

func (q *MemoryQueue) Pop(ctx context.Context) ([]byte, error) {
	timer := time.NewTimer(popTimeout)
	defer timer.Stop()
	select {
	case payload := <-q.ch:
		return payload, nil
	case <-timer.C:
		return nil, ErrQueueEmpty
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Publisher кладет события хранилища в очередь вебхуков (реализует store.Notifier)
type Publisher struct {
	queue  Queue
	logger *logrus.Logger
}

func NewPublisher(queue Queue, logger *logrus.Logger) *Publisher {
	return &Publisher{queue: queue, logger: logger}
}

// Publish публикует событие вебхука в очередь
func (p *Publisher) Publish(ctx context.Context, event WebhookEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}
	return p.queue.Push(ctx, payload)
}

func (p *Publisher) Notify(ctx context.Context, event *models.Event) {
	if err := p.Publish(ctx, FromEvent(event)); err != nil {
		p.logger.WithFields(logrus.Fields{
			"service": "webhook",
			"method":  "Notify",
			"seq":     event.Seq,
			"kind":    event.Kind,
		}).WithError(err).Error("Failed to enqueue webhook event")
	}
}
