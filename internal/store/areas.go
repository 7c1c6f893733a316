package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/shenikar/incident_hub/internal/repository"
	"github.com/shenikar/incident_hub/pkg/e"
	hubvalidator "github.com/shenikar/incident_hub/pkg/validator"
	"github.com/sirupsen/logrus"
)

// Areas возвращает зоны по имени с производным incidentCount
func (s *Store) Areas() []*models.SecurityArea {
	s.mu.RLock()
	defer s.mu.RUnlock()

	areas := s.index.Areas()
	for _, area := range areas {
		area.IncidentCount = s.engine.AreaIncidentCount(area.ID)
	}
	return areas
}

func (s *Store) Area(id uuid.UUID) (*models.SecurityArea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	area, ok := s.index.Area(id)
	if !ok {
		return nil, fmt.Errorf("store: area %s: %w", id, e.ErrNotFound)
	}
	area.IncidentCount = s.engine.AreaIncidentCount(id)
	return area, nil
}

// NearestArea возвращает ErrNotFound, если точка не попадает ни в одну зону
func (s *Store) NearestArea(lat, lng float64) (*models.SecurityArea, error) {
	if err := validatePoint(lat, lng).OrNil(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	area, ok := s.index.NearestArea(lat, lng)
	if !ok {
		return nil, fmt.Errorf("store: no area contains (%g, %g): %w", lat, lng, e.ErrNotFound)
	}
	area.IncidentCount = s.engine.AreaIncidentCount(area.ID)
	return area, nil
}

func (s *Store) CreateArea(ctx context.Context, input models.AreaInput) (*models.SecurityArea, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.RiskLevel = strings.ToLower(strings.TrimSpace(input.RiskLevel))
	if err := hubvalidator.Collect(s.validate.Struct(input)); err != nil {
		return nil, err
	}

	area := &models.SecurityArea{
		ID:           uuid.New(),
		Name:         input.Name,
		Description:  input.Description,
		RiskLevel:    models.RiskLevel(input.RiskLevel),
		Latitude:     *input.Latitude,
		Longitude:    *input.Longitude,
		RadiusMeters: models.DefaultAreaRadiusMeters,
		LastUpdated:  s.now().UTC(),
	}
	if input.RadiusMeters != nil {
		area.RadiusMeters = *input.RadiusMeters
	}

	s.mu.Lock()
	event, err := s.saveArea(ctx, models.EventAreaCreated, area, true)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, []*models.Event{event})
	return s.Area(area.ID)
}

// UpdateArea применяет частичное обновление; любое изменение обновляет lastUpdated
func (s *Store) UpdateArea(ctx context.Context, id uuid.UUID, patch models.AreaPatch) (*models.SecurityArea, error) {
	if patch.RiskLevel != nil {
		level := strings.ToLower(strings.TrimSpace(*patch.RiskLevel))
		patch.RiskLevel = &level
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	if err := hubvalidator.Collect(s.validate.Struct(patch)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	current, ok := s.areas[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("store: area %s: %w", id, e.ErrNotFound)
	}

	area := current.Clone()
	if patch.Name != nil {
		area.Name = *patch.Name
	}
	if patch.Description != nil {
		area.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.RiskLevel != nil {
		area.RiskLevel = models.RiskLevel(*patch.RiskLevel)
	}
	if patch.Latitude != nil {
		area.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		area.Longitude = *patch.Longitude
	}
	if patch.RadiusMeters != nil {
		area.RadiusMeters = *patch.RadiusMeters
	}
	area.LastUpdated = s.now().UTC()
	if !area.LastUpdated.After(current.LastUpdated) {
		area.LastUpdated = current.LastUpdated.Add(1)
	}

	event, err := s.saveArea(ctx, models.EventAreaUpdated, area, patch.MovesGeometry())
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, []*models.Event{event})
	return s.Area(id)
}

// saveArea пишет событие зоны в журнал и применяет его; вызывается под s.mu
func (s *Store) saveArea(ctx context.Context, kind models.EventKind, area *models.SecurityArea, reassign bool) (*models.Event, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "store",
		"method":  "saveArea",
		"kind":    kind,
		"area_id": area.ID,
	})

	event := &models.Event{
		Kind:        kind,
		AggregateID: area.ID,
		Area:        area.Clone(),
		OccurredAt:  area.LastUpdated,
	}
	writeCtx, cancel := repository.WriteContext(ctx)
	defer cancel()
	if err := s.journal.Append(writeCtx, event); err != nil {
		log.WithError(err).Error("Failed to append area to journal")
		return nil, fmt.Errorf("store: could not persist area: %w", err)
	}

	s.areas[area.ID] = area
	if !reassign {
		s.index.UpsertArea(area)
		log.Info("Security area updated")
		return event, nil
	}

	// событие уже в журнале, перестроение не должно прерываться отменой запроса
	if err := s.rebuildLocked(context.WithoutCancel(ctx)); err != nil {
		return nil, err
	}
	log.WithField("name", area.Name).Info("Security area saved, assignments rebuilt")
	return event, nil
}
