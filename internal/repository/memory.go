package repository

import (
	"context"
	"sync"

	"github.com/shenikar/incident_hub/internal/models"
)

// MemoryJournal хранит события в памяти процесса; используется без DATABASE_URL и в тестах
type MemoryJournal struct {
	mu     sync.Mutex
	events []models.Event
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

func (j *MemoryJournal) Append(ctx context.Context, event *models.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	event.Seq = int64(len(j.events) + 1)
	j.events = append(j.events, copyEvent(event))
	return nil
}

func (j *MemoryJournal) Load(ctx context.Context, fn func(event *models.Event) error) error {
	j.mu.Lock()
	snapshot := make([]models.Event, len(j.events))
	copy(snapshot, j.events)
	j.mu.Unlock()

	for i := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}
		event := copyEvent(&snapshot[i])
		if err := fn(&event); err != nil {
			return err
		}
	}
	return nil
}

// Len возвращает количество записанных событий
func (j *MemoryJournal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.events)
}

func copyEvent(event *models.Event) models.Event {
	c := *event
	c.Incident = event.Incident.Clone()
	c.Area = event.Area.Clone()
	return c
}
