package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/incident_hub/internal/metrics"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/shenikar/incident_hub/internal/repository"
	"github.com/shenikar/incident_hub/pkg/e"
	hubvalidator "github.com/shenikar/incident_hub/pkg/validator"
	"github.com/sirupsen/logrus"
)

const maxIdempotencyKeyLen = 128

// Journal - долговременный журнал событий. Append должен быть атомарным:
// либо событие записано, либо возвращена ошибка.
type Journal interface {
	Append(ctx context.Context, event *models.Event) error
}

// Sink получает события синхронно, в той же критической секции, что и запись.
type Sink interface {
	Apply(event *models.Event)
}

// Pipeline превращает непроверенные заявки в канонические записи.
// Pipeline не потокобезопасен: все вызовы сериализует владелец (store).
type Pipeline struct {
	validate *validator.Validate
	journal  Journal
	sinks    []Sink
	now      func() time.Time
	logger   *logrus.Logger

	records        map[uuid.UUID]*models.Incident
	byKey          map[string]*models.Incident
	order          []*models.Incident
	lastReportedAt time.Time
}

func NewPipeline(journal Journal, logger *logrus.Logger, now func() time.Time, sinks ...Sink) *Pipeline {
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		validate: hubvalidator.New(),
		journal:  journal,
		sinks:    sinks,
		now:      now,
		logger:   logger,
		records:  make(map[uuid.UUID]*models.Incident),
		byKey:    make(map[string]*models.Incident),
	}
}

// AddSink подключает получателя событий после создания
func (p *Pipeline) AddSink(sink Sink) {
	p.sinks = append(p.sinks, sink)
}

// Normalize обрезает пробелы и приводит перечисления к нижнему регистру.
// Координаты не корректируются.
func Normalize(raw models.RawReport) models.RawReport {
	raw.Type = strings.ToLower(strings.TrimSpace(raw.Type))
	raw.Location = strings.TrimSpace(raw.Location)
	raw.Severity = strings.ToLower(strings.TrimSpace(raw.Severity))
	raw.Status = strings.ToLower(strings.TrimSpace(raw.Status))
	raw.Description = strings.TrimSpace(raw.Description)
	raw.PhotoRef = strings.TrimSpace(raw.PhotoRef)
	return raw
}

// Validate проверяет нормализованную заявку и возвращает все нарушения сразу.
func (p *Pipeline) Validate(raw models.RawReport, key string) error {
	verr := &e.ValidationError{}
	if err := hubvalidator.Collect(p.validate.Struct(raw)); err != nil {
		fieldErrs, ok := err.(*e.ValidationError)
		if !ok {
			return fmt.Errorf("ingest: validate report: %w", err)
		}
		verr = fieldErrs
	}
	switch {
	case key == "":
		verr.Add("idempotencyKey", "is required")
	case len(key) > maxIdempotencyKeyLen:
		verr.Add("idempotencyKey", fmt.Sprintf("must be at most %d characters", maxIdempotencyKeyLen))
	}
	return verr.OrNil()
}

// Submit принимает заявку. created=false означает, что ключ уже встречался
// и возвращена исходная запись без изменений.
func (p *Pipeline) Submit(ctx context.Context, raw models.RawReport, idempotencyKey string) (*models.Incident, bool, error) {
	key := strings.TrimSpace(idempotencyKey)
	log := p.logger.WithFields(logrus.Fields{
		"service":         "ingest",
		"method":          "Submit",
		"idempotency_key": key,
	})

	// Повтор с тем же ключом возвращает исходную запись, даже если тело отличается
	if existing, ok := p.byKey[key]; ok && key != "" {
		log.WithFields(logrus.Fields{"incident_id": existing.ID, "duplicate": true}).Info("Duplicate submission suppressed")
		metrics.IncidentsIngested.WithLabelValues("duplicate").Inc()
		return existing.Clone(), false, nil
	}

	raw = Normalize(raw)
	if err := p.Validate(raw, key); err != nil {
		log.WithError(err).Warn("Incident report rejected")
		metrics.IncidentsIngested.WithLabelValues("invalid").Inc()
		return nil, false, err
	}

	incident := p.build(raw, key)
	event := &models.Event{
		Kind:           models.EventIncidentCreated,
		AggregateID:    incident.ID,
		IdempotencyKey: key,
		Incident:       incident.Clone(),
		OccurredAt:     incident.ReportedAt,
	}
	if err := p.persist(ctx, event); err != nil {
		log.WithError(err).Error("Failed to append incident to journal")
		metrics.IncidentsIngested.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("ingest: could not persist incident: %w", err)
	}

	p.insert(incident)
	p.emit(event)

	log.WithFields(logrus.Fields{"incident_id": incident.ID, "type": incident.Type}).Info("Incident created successfully")
	metrics.IncidentsIngested.WithLabelValues("created").Inc()
	return incident.Clone(), true, nil
}

func (p *Pipeline) build(raw models.RawReport, key string) *models.Incident {
	reportedAt := p.now().UTC()
	// reportedAt не убывает в порядке вставки
	if reportedAt.Before(p.lastReportedAt) {
		reportedAt = p.lastReportedAt
	}

	incident := &models.Incident{
		ID:             uuid.New(),
		IdempotencyKey: key,
		Type:           models.IncidentType(raw.Type),
		Location:       raw.Location,
		Latitude:       *raw.Latitude,
		Longitude:      *raw.Longitude,
		Severity:       models.Severity(raw.Severity),
		Status:         models.IncidentStatus(raw.Status),
		Description:    raw.Description,
		ReportedAt:     reportedAt,
		IsAnonymous:    true,
		PhotoRef:       raw.PhotoRef,
	}
	if incident.Severity == "" {
		incident.Severity = models.SeverityMedium
	}
	if incident.Status == "" {
		incident.Status = models.StatusActive
	}
	if raw.IsAnonymous != nil {
		incident.IsAnonymous = *raw.IsAnonymous
	}
	return incident
}

// UpdateStatus переводит запись между active и resolved.
// Повторный перевод в тот же статус ничего не пишет и не возвращает ошибку.
func (p *Pipeline) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Incident, error) {
	log := p.logger.WithFields(logrus.Fields{
		"service":     "ingest",
		"method":      "UpdateStatus",
		"incident_id": id,
		"status":      status,
	})

	incident, ok := p.records[id]
	if !ok {
		return nil, fmt.Errorf("ingest: incident %s: %w", id, e.ErrNotFound)
	}

	next := models.IncidentStatus(strings.ToLower(strings.TrimSpace(status)))
	if !next.Valid() {
		log.Warn("Rejected unknown status")
		return nil, fmt.Errorf("ingest: status %q: %w", status, e.ErrInvalidTransition)
	}
	if incident.Status == next {
		return incident.Clone(), nil
	}

	event := &models.Event{
		Kind:        models.EventStatusChanged,
		AggregateID: id,
		Status:      next,
		PrevStatus:  incident.Status,
		OccurredAt:  p.now().UTC(),
	}
	if err := p.persist(ctx, event); err != nil {
		log.WithError(err).Error("Failed to append status change to journal")
		return nil, fmt.Errorf("ingest: could not persist status change: %w", err)
	}

	incident.Status = next
	p.emit(event)

	log.Info("Incident status updated")
	metrics.StatusTransitions.WithLabelValues(string(next)).Inc()
	return incident.Clone(), nil
}

func (p *Pipeline) persist(ctx context.Context, event *models.Event) error {
	writeCtx, cancel := repository.WriteContext(ctx)
	defer cancel()
	return p.journal.Append(writeCtx, event)
}

// Restore применяет событие из журнала без повторной записи и без рассылки.
// Производные индексы восстанавливаются отдельно.
func (p *Pipeline) Restore(event *models.Event) {
	switch event.Kind {
	case models.EventIncidentCreated:
		if event.Incident == nil {
			return
		}
		if _, ok := p.byKey[event.IdempotencyKey]; ok && event.IdempotencyKey != "" {
			return
		}
		incident := event.Incident.Clone()
		if incident.ReportedAt.Before(p.lastReportedAt) {
			incident.ReportedAt = p.lastReportedAt
		}
		p.insert(incident)
	case models.EventStatusChanged:
		if incident, ok := p.records[event.AggregateID]; ok && event.Status.Valid() {
			incident.Status = event.Status
		}
	}
}

func (p *Pipeline) insert(incident *models.Incident) {
	p.records[incident.ID] = incident
	if incident.IdempotencyKey != "" {
		p.byKey[incident.IdempotencyKey] = incident
	}
	p.order = append(p.order, incident)
	p.lastReportedAt = incident.ReportedAt
}

func (p *Pipeline) emit(event *models.Event) {
	for _, sink := range p.sinks {
		sink.Apply(event)
	}
}

// Get возвращает копию записи
func (p *Pipeline) Get(id uuid.UUID) (*models.Incident, bool) {
	incident, ok := p.records[id]
	if !ok {
		return nil, false
	}
	return incident.Clone(), true
}

// Lookup возвращает внутренний указатель; вызывающий не должен менять запись.
func (p *Pipeline) Lookup(id uuid.UUID) (*models.Incident, bool) {
	incident, ok := p.records[id]
	return incident, ok
}

// All возвращает записи в порядке вставки (внутренние указатели, только для чтения).
func (p *Pipeline) All() []*models.Incident {
	return p.order
}

func (p *Pipeline) Len() int {
	return len(p.order)
}
