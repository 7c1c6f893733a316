package v1

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/shenikar/incident_hub/internal/store"
)

// ModelToStatsResponse разворачивает сводку хранилища в плоский ответ
func ModelToStatsResponse(stats *store.Stats) *StatsResponse {
	return &StatsResponse{
		WindowHours:   stats.WindowHours,
		Total:         stats.Total,
		Active:        stats.Active,
		Resolved:      stats.Resolved,
		ByType:        stats.ByType,
		BySeverity:    stats.BySeverity,
		ByArea:        stats.ByArea,
		TypeShare:     stats.TypeShare,
		SeverityShare: stats.SeverityShare,
		SafeZones:     stats.SafeZones,
		HighRiskAreas: stats.HighRiskAreas,
	}
}

// ModelToFeature преобразует инцидент в точку GeoJSON (координаты lng, lat)
func ModelToFeature(incident *models.Incident) *geojson.Feature {
	feature := geojson.NewPointFeature([]float64{incident.Longitude, incident.Latitude})
	feature.ID = incident.ID.String()
	feature.SetProperty("type", string(incident.Type))
	feature.SetProperty("location", incident.Location)
	feature.SetProperty("severity", string(incident.Severity))
	feature.SetProperty("status", string(incident.Status))
	feature.SetProperty("reportedAt", incident.ReportedAt)
	if incident.Description != "" {
		feature.SetProperty("description", incident.Description)
	}
	return feature
}

// ModelsToFeatureCollection собирает коллекцию для карты
func ModelsToFeatureCollection(incidents []*models.Incident) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, incident := range incidents {
		fc.AddFeature(ModelToFeature(incident))
	}
	return fc
}

func coalesce[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
