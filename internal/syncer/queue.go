package syncer

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shenikar/incident_hub/pkg/e"
)

// QueueStore - долговременное хранилище очереди офлайн-действий
type QueueStore interface {
	// Add сохраняет новое действие и назначает ему Seq
	Add(ctx context.Context, action *Action) error
	Save(ctx context.Context, action *Action) error
	Get(ctx context.Context, queuedID uuid.UUID) (*Action, error)
	// List возвращает все действия по возрастанию Seq
	List(ctx context.Context) ([]*Action, error)
}

type MemoryQueue struct {
	mu      sync.Mutex
	seq     int64
	actions map[uuid.UUID]*Action
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{actions: make(map[uuid.UUID]*Action)}
}

func (q *MemoryQueue) Add(_ context.Context, action *Action) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	action.Seq = q.seq
	q.actions[action.QueuedID] = action.Clone()
	return nil
}

func (q *MemoryQueue) Save(_ context.Context, action *Action) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.actions[action.QueuedID]; !ok {
		return fmt.Errorf("syncer: action %s: %w", action.QueuedID, e.ErrNotFound)
	}
	q.actions[action.QueuedID] = action.Clone()
	return nil
}

func (q *MemoryQueue) Get(_ context.Context, queuedID uuid.UUID) (*Action, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	action, ok := q.actions[queuedID]
	if !ok {
		return nil, fmt.Errorf("syncer: action %s: %w", queuedID, e.ErrNotFound)
	}
	return action.Clone(), nil
}

func (q *MemoryQueue) List(_ context.Context) ([]*Action, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]*Action, 0, len(q.actions))
	for _, action := range q.actions {
		out = append(out, action.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}
