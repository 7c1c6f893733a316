package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/incident_hub/internal/aggregation"
	"github.com/shenikar/incident_hub/internal/ingest"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/shenikar/incident_hub/internal/repository"
	"github.com/shenikar/incident_hub/internal/spatial"
	hubvalidator "github.com/shenikar/incident_hub/pkg/validator"
	"github.com/sirupsen/logrus"
)

// Notifier получает события после фиксации изменения (вебхуки, websocket)
type Notifier interface {
	Notify(ctx context.Context, event *models.Event)
}

type Options struct {
	CellLevel      int
	RetentionHours int
	Now            func() time.Time
}

// Store - единственный владелец записей об инцидентах и зон безопасности.
// Все изменения идут под эксклюзивной блокировкой и атомарно обновляют
// записи, пространственный индекс и счетчики; чтения идут параллельно.
type Store struct {
	mu sync.RWMutex

	journal  repository.EventJournal
	pipeline *ingest.Pipeline
	index    *spatial.Index
	engine   *aggregation.Engine
	outbox   *outbox
	areas    map[uuid.UUID]*models.SecurityArea

	validate  *validator.Validate
	notifiers []Notifier
	now       func() time.Time
	logger    *logrus.Logger
}

func New(journal repository.EventJournal, logger *logrus.Logger, opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Store{
		journal:  journal,
		index:    spatial.NewIndex(opts.CellLevel),
		outbox:   &outbox{},
		areas:    make(map[uuid.UUID]*models.SecurityArea),
		validate: hubvalidator.New(),
		now:      now,
		logger:   logger,
	}
	s.pipeline = ingest.NewPipeline(journal, logger, now)
	s.engine = aggregation.NewEngine(s.index, s.pipeline.Lookup, now, opts.RetentionHours)
	s.pipeline.AddSink(s.index)
	s.pipeline.AddSink(s.engine)
	s.pipeline.AddSink(s.outbox)
	return s
}

// AddNotifier подключает получателя событий; вызывать до начала работы
func (s *Store) AddNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifiers = append(s.notifiers, n)
}

// Restore восстанавливает состояние из журнала и перестраивает индексы
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	err := s.journal.Load(ctx, func(event *models.Event) error {
		count++
		switch event.Kind {
		case models.EventIncidentCreated, models.EventStatusChanged:
			s.pipeline.Restore(event)
		case models.EventAreaCreated, models.EventAreaUpdated:
			if event.Area != nil {
				s.areas[event.Area.ID] = event.Area.Clone()
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: could not load journal: %w", err)
	}
	if err := s.rebuildLocked(ctx); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"service":   "store",
		"method":    "Restore",
		"events":    count,
		"incidents": s.pipeline.Len(),
		"areas":     len(s.areas),
	}).Info("State restored from journal")
	return nil
}

// Submit принимает заявку; created=false для повторного ключа
func (s *Store) Submit(ctx context.Context, raw models.RawReport, idempotencyKey string) (*models.Incident, bool, error) {
	s.mu.Lock()
	incident, created, err := s.pipeline.Submit(ctx, raw, idempotencyKey)
	events := s.outbox.drain()
	s.mu.Unlock()

	s.dispatch(ctx, events)
	return incident, created, err
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Incident, error) {
	s.mu.Lock()
	incident, err := s.pipeline.UpdateStatus(ctx, id, status)
	events := s.outbox.drain()
	s.mu.Unlock()

	s.dispatch(ctx, events)
	return incident, err
}

// Rebuild пересчитывает пространственный индекс и счетчики из записей
func (s *Store) Rebuild(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuildLocked(ctx)
}

func (s *Store) rebuildLocked(ctx context.Context) error {
	started := time.Now()
	records := s.pipeline.All()
	if err := s.index.Rebuild(ctx, s.areaList(), records); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := s.engine.Rebuild(ctx, records); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"service":  "store",
		"method":   "Rebuild",
		"records":  len(records),
		"duration": time.Since(started).String(),
	}).Debug("Derived indexes rebuilt")
	return nil
}

func (s *Store) areaList() []*models.SecurityArea {
	out := make([]*models.SecurityArea, 0, len(s.areas))
	for _, area := range s.areas {
		out = append(out, area)
	}
	return out
}

// Len возвращает количество записей об инцидентах
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pipeline.Len()
}

func (s *Store) dispatch(ctx context.Context, events []*models.Event) {
	if len(events) == 0 {
		return
	}
	s.mu.RLock()
	notifiers := s.notifiers
	s.mu.RUnlock()

	// получатели не должны зависеть от отмены запроса клиента
	ctx = context.WithoutCancel(ctx)
	for _, event := range events {
		for _, n := range notifiers {
			n.Notify(ctx, event)
		}
	}
}

// outbox собирает события внутри критической секции для рассылки после нее
type outbox struct {
	events []*models.Event
}

func (o *outbox) Apply(event *models.Event) {
	o.events = append(o.events, event)
}

func (o *outbox) drain() []*models.Event {
	events := o.events
	o.events = nil
	return events
}
