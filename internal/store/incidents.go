package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shenikar/incident_hub/internal/aggregation"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/shenikar/incident_hub/internal/spatial"
	"github.com/shenikar/incident_hub/pkg/e"
)

// ListFilter - комбинируемые фильтры списка инцидентов; пустые поля не применяются
type ListFilter struct {
	Hours *int
	Type  string
	Area  string
	Limit int
}

// NearbyIncident - инцидент с расстоянием от центра запроса
type NearbyIncident struct {
	*models.Incident
	DistanceMeters float64 `json:"distanceMeters"`
}

// Stats - сводка окна и обзор зон
type Stats struct {
	aggregation.Stats
	SafeZones     int `json:"safeZones"`
	HighRiskAreas int `json:"highRiskAreas"`
}

func (s *Store) Get(id uuid.UUID) (*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	incident, ok := s.pipeline.Get(id)
	if !ok {
		return nil, fmt.Errorf("store: incident %s: %w", id, e.ErrNotFound)
	}
	return incident, nil
}

// List возвращает инциденты по убыванию reportedAt.
// Area - id зоны (поиск по её кругу) или подстрока метки места без учета регистра.
func (s *Store) List(filter ListFilter) ([]*models.Incident, error) {
	verr := &e.ValidationError{}
	if filter.Hours != nil && *filter.Hours <= 0 {
		verr.Add("hours", "must be a positive integer")
	}
	incidentType := models.IncidentType(strings.ToLower(strings.TrimSpace(filter.Type)))
	if incidentType != "" && !incidentType.Valid() {
		verr.Add("type", "unknown incident type")
	}
	if filter.Limit < 0 {
		verr.Add("limit", "must not be negative")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var inArea map[uuid.UUID]struct{}
	label := strings.ToLower(strings.TrimSpace(filter.Area))
	if areaID, err := uuid.Parse(label); err == nil {
		area, ok := s.areas[areaID]
		if !ok {
			return nil, fmt.Errorf("store: area %s: %w", areaID, e.ErrNotFound)
		}
		ids := s.index.QueryRadius(area.Latitude, area.Longitude, area.RadiusMeters)
		inArea = make(map[uuid.UUID]struct{}, len(ids))
		for _, id := range ids {
			inArea[id] = struct{}{}
		}
		label = ""
	}

	out := make([]*models.Incident, 0)
	for _, incident := range s.pipeline.All() {
		if filter.Hours != nil && incident.ReportedAt.Before(s.engine.WindowStart(*filter.Hours)) {
			continue
		}
		if incidentType != "" && incident.Type != incidentType {
			continue
		}
		if inArea != nil {
			if _, ok := inArea[incident.ID]; !ok {
				continue
			}
		}
		if label != "" && !strings.Contains(strings.ToLower(incident.Location), label) {
			continue
		}
		out = append(out, incident.Clone())
	}

	aggregation.SortRecent(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Nearby возвращает инциденты в радиусе по возрастанию расстояния, затем id
func (s *Store) Nearby(lat, lng, radiusMeters float64) ([]NearbyIncident, error) {
	verr := validatePoint(lat, lng)
	if radiusMeters < 0 {
		verr.Add("radius", "must not be negative")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.index.QueryRadius(lat, lng, radiusMeters)
	out := make([]NearbyIncident, 0, len(ids))
	for _, id := range ids {
		incident, ok := s.pipeline.Get(id)
		if !ok {
			continue
		}
		out = append(out, NearbyIncident{
			Incident:       incident,
			DistanceMeters: spatial.Haversine(lat, lng, incident.Latitude, incident.Longitude),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceMeters != out[j].DistanceMeters {
			return out[i].DistanceMeters < out[j].DistanceMeters
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// QueryRadius возвращает id инцидентов в радиусе, отсортированные по id
func (s *Store) QueryRadius(lat, lng, radiusMeters float64) ([]uuid.UUID, error) {
	verr := validatePoint(lat, lng)
	if radiusMeters < 0 {
		verr.Add("radius", "must not be negative")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.QueryRadius(lat, lng, radiusMeters), nil
}

// Within возвращает инциденты внутри прямоугольника; minLng > maxLng - через антимеридиан
func (s *Store) Within(minLat, minLng, maxLat, maxLng float64) ([]*models.Incident, error) {
	verr := &e.ValidationError{}
	if minLat < -90 || minLat > 90 {
		verr.Add("minLat", "must be within [-90, 90]")
	}
	if maxLat < -90 || maxLat > 90 {
		verr.Add("maxLat", "must be within [-90, 90]")
	}
	if minLng < -180 || minLng > 180 {
		verr.Add("minLng", "must be within [-180, 180]")
	}
	if maxLng < -180 || maxLng > 180 {
		verr.Add("maxLng", "must be within [-180, 180]")
	}
	if minLat > maxLat {
		verr.Add("minLat", "must not exceed maxLat")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.index.QueryBoundingBox(minLat, minLng, maxLat, maxLng)
	out := make([]*models.Incident, 0, len(ids))
	for _, id := range ids {
		if incident, ok := s.pipeline.Get(id); ok {
			out = append(out, incident)
		}
	}
	aggregation.SortRecent(out)
	return out, nil
}

func (s *Store) StatsForWindow(hoursBack int) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	window, err := s.engine.StatsForWindow(hoursBack)
	if err != nil {
		return nil, err
	}
	stats := &Stats{Stats: *window}
	for _, area := range s.areas {
		switch area.RiskLevel {
		case models.RiskSafe, models.RiskLow:
			stats.SafeZones++
		case models.RiskHigh, models.RiskCritical:
			stats.HighRiskAreas++
		}
	}
	return stats, nil
}

// RecentIncidents - записи того же окна, что и StatsForWindow
func (s *Store) RecentIncidents(hoursBack int) ([]*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.RecentIncidents(hoursBack)
}

func validatePoint(lat, lng float64) *e.ValidationError {
	verr := &e.ValidationError{}
	if lat < -90 || lat > 90 {
		verr.Add("lat", "must be within [-90, 90]")
	}
	if lng < -180 || lng > 180 {
		verr.Add("lng", "must be within [-180, 180]")
	}
	return verr
}
