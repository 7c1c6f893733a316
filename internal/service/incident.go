package service

//go:generate mockgen -source=incident.go -destination=mocks/incident_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/shenikar/incident_hub/internal/store"
	"github.com/shenikar/incident_hub/pkg/e"
	"github.com/sirupsen/logrus"
)

// IncidentStore определяет контракт хранилища инцидентов и зон (реализуется store.Store)
type IncidentStore interface {
	Submit(ctx context.Context, raw models.RawReport, idempotencyKey string) (*models.Incident, bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Incident, error)
	Get(id uuid.UUID) (*models.Incident, error)
	List(filter store.ListFilter) ([]*models.Incident, error)
	Nearby(lat, lng, radiusMeters float64) ([]store.NearbyIncident, error)
	Within(minLat, minLng, maxLat, maxLng float64) ([]*models.Incident, error)
	StatsForWindow(hoursBack int) (*store.Stats, error)
	Areas() []*models.SecurityArea
	CreateArea(ctx context.Context, input models.AreaInput) (*models.SecurityArea, error)
	UpdateArea(ctx context.Context, id uuid.UUID, patch models.AreaPatch) (*models.SecurityArea, error)
	NearestArea(lat, lng float64) (*models.SecurityArea, error)
}

// IncidentService определяет контракт бизнес-логики для HTTP слоя
type IncidentService interface {
	SubmitIncident(ctx context.Context, raw models.RawReport, idempotencyKey string) (*models.Incident, bool, error)
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context, filter store.ListFilter) ([]*models.Incident, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Incident, error)
	Nearby(ctx context.Context, lat, lng, radiusMeters float64) ([]store.NearbyIncident, error)
	Within(ctx context.Context, minLat, minLng, maxLat, maxLng float64) ([]*models.Incident, error)
	GetStats(ctx context.Context, hoursBack int) (*store.Stats, error)
	ListAreas(ctx context.Context) ([]*models.SecurityArea, error)
	CreateArea(ctx context.Context, input models.AreaInput) (*models.SecurityArea, error)
	UpdateArea(ctx context.Context, id uuid.UUID, patch models.AreaPatch) (*models.SecurityArea, error)
	NearestArea(ctx context.Context, lat, lng float64) (*models.SecurityArea, error)
}

type incidentService struct {
	store  IncidentStore
	logger *logrus.Logger
}

func NewIncidentService(store IncidentStore, logger *logrus.Logger) IncidentService {
	return &incidentService{
		store:  store,
		logger: logger,
	}
}

// logFailure пишет ожидаемые ошибки клиента на уровне Warn, остальные на Error
func logFailure(log *logrus.Entry, err error, message string) {
	if e.IsPermanent(err) {
		log.WithError(err).Warn(message)
		return
	}
	log.WithError(err).Error(message)
}

// SubmitIncident принимает заявку; created=false для повтора с известным ключом
func (s *incidentService) SubmitIncident(ctx context.Context, raw models.RawReport, idempotencyKey string) (*models.Incident, bool, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":         "incident",
		"method":          "SubmitIncident",
		"idempotency_key": idempotencyKey,
	})

	incident, created, err := s.store.Submit(ctx, raw, idempotencyKey)
	if err != nil {
		logFailure(log, err, "Failed to submit incident")
		return nil, false, fmt.Errorf("service: could not submit incident: %w", err)
	}
	return incident, created, nil
}

// GetIncident получает инцидент по ID
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	incident, err := s.store.Get(id)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":     "incident",
			"method":      "GetIncident",
			"incident_id": id,
		}).WithError(err).Warn("Failed to get incident")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}
	return incident, nil
}

// ListIncidents возвращает инциденты по комбинируемым фильтрам
func (s *incidentService) ListIncidents(ctx context.Context, filter store.ListFilter) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
		"type":    filter.Type,
		"area":    filter.Area,
		"limit":   filter.Limit,
	})

	incidents, err := s.store.List(filter)
	if err != nil {
		logFailure(log, err, "Failed to list incidents")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Debug("Incidents listed successfully")
	return incidents, nil
}

// UpdateStatus переводит инцидент между active и resolved
func (s *incidentService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Incident, error) {
	incident, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		logFailure(s.logger.WithFields(logrus.Fields{
			"service":     "incident",
			"method":      "UpdateStatus",
			"incident_id": id,
			"status":      status,
		}), err, "Failed to update incident status")
		return nil, fmt.Errorf("service: could not update status: %w", err)
	}
	return incident, nil
}

func (s *incidentService) Nearby(ctx context.Context, lat, lng, radiusMeters float64) ([]store.NearbyIncident, error) {
	items, err := s.store.Nearby(lat, lng, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("service: nearby query failed: %w", err)
	}
	return items, nil
}

func (s *incidentService) Within(ctx context.Context, minLat, minLng, maxLat, maxLng float64) ([]*models.Incident, error) {
	items, err := s.store.Within(minLat, minLng, maxLat, maxLng)
	if err != nil {
		return nil, fmt.Errorf("service: viewport query failed: %w", err)
	}
	return items, nil
}

// GetStats возвращает сводку за последние hoursBack часов
func (s *incidentService) GetStats(ctx context.Context, hoursBack int) (*store.Stats, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "GetStats",
		"hours":   hoursBack,
	})

	stats, err := s.store.StatsForWindow(hoursBack)
	if err != nil {
		logFailure(log, err, "Failed to compute stats")
		return nil, fmt.Errorf("service: could not compute stats: %w", err)
	}

	log.WithField("total", stats.Total).Debug("Stats computed")
	return stats, nil
}

func (s *incidentService) ListAreas(ctx context.Context) ([]*models.SecurityArea, error) {
	return s.store.Areas(), nil
}

// CreateArea регистрирует новую зону безопасности
func (s *incidentService) CreateArea(ctx context.Context, input models.AreaInput) (*models.SecurityArea, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "CreateArea",
		"name":    input.Name,
	})
	log.Info("Attempting to create a security area")

	area, err := s.store.CreateArea(ctx, input)
	if err != nil {
		logFailure(log, err, "Failed to create security area")
		return nil, fmt.Errorf("service: could not create area: %w", err)
	}

	log.WithField("area_id", area.ID).Info("Security area created successfully")
	return area, nil
}

// UpdateArea частично обновляет зону
func (s *incidentService) UpdateArea(ctx context.Context, id uuid.UUID, patch models.AreaPatch) (*models.SecurityArea, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "UpdateArea",
		"area_id": id,
	})

	area, err := s.store.UpdateArea(ctx, id, patch)
	if err != nil {
		logFailure(log, err, "Failed to update security area")
		return nil, fmt.Errorf("service: could not update area: %w", err)
	}

	log.Info("Security area updated successfully")
	return area, nil
}

// NearestArea ищет зону, в которую попадает точка
func (s *incidentService) NearestArea(ctx context.Context, lat, lng float64) (*models.SecurityArea, error) {
	area, err := s.store.NearestArea(lat, lng)
	if err != nil {
		if !errors.Is(err, e.ErrNotFound) {
			s.logger.WithFields(logrus.Fields{
				"service": "incident",
				"method":  "NearestArea",
			}).WithError(err).Warn("Nearest area lookup failed")
		}
		return nil, fmt.Errorf("service: nearest area: %w", err)
	}
	return area, nil
}
