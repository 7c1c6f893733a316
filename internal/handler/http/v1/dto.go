package v1

import (
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/shenikar/incident_hub/pkg/e"
)

// CreateIncidentRequest DTO для приема заявки об инциденте.
// Ключ идемпотентности можно передать в теле или в заголовке Idempotency-Key.
// @Description DTO для приема заявки об инциденте
type CreateIncidentRequest struct {
	models.RawReport
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

// UpdateStatusRequest DTO для смены статуса
// @Description DTO для смены статуса инцидента
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListIncidentsQuery параметры фильтрации списка
type ListIncidentsQuery struct {
	Hours *int   `form:"hours"`
	Type  string `form:"type"`
	Area  string `form:"area"`
	Limit int    `form:"limit"`
}

// NearbyQuery параметры поиска в радиусе
type NearbyQuery struct {
	Latitude  *float64 `form:"lat" json:"lat" validate:"required,lat"`
	Longitude *float64 `form:"lng" json:"lng" validate:"required,lng"`
	Radius    *float64 `form:"radius" json:"radius" validate:"required,gte=0"`
}

// ViewportQuery параметры прямоугольной области
type ViewportQuery struct {
	MinLat *float64 `form:"minLat" json:"minLat" validate:"required,lat"`
	MinLng *float64 `form:"minLng" json:"minLng" validate:"required,lng"`
	MaxLat *float64 `form:"maxLat" json:"maxLat" validate:"required,lat"`
	MaxLng *float64 `form:"maxLng" json:"maxLng" validate:"required,lng"`
}

// PointQuery параметры точки для поиска зоны
type PointQuery struct {
	Latitude  *float64 `form:"lat" json:"lat" validate:"required,lat"`
	Longitude *float64 `form:"lng" json:"lng" validate:"required,lng"`
}

// StatsQuery окно статистики в часах
type StatsQuery struct {
	Hours *int `form:"hours"`
}

// StatsResponse DTO для ответа со статистикой
// @Description Сводка по инцидентам за окно
type StatsResponse struct {
	WindowHours   int                `json:"windowHours"`
	Total         int                `json:"total"`
	Active        int                `json:"active"`
	Resolved      int                `json:"resolved"`
	ByType        map[string]int     `json:"byType"`
	BySeverity    map[string]int     `json:"bySeverity"`
	ByArea        map[string]int     `json:"byArea"`
	TypeShare     map[string]float64 `json:"typeShare"`
	SeverityShare map[string]float64 `json:"severityShare"`
	SafeZones     int                `json:"safeZones"`
	HighRiskAreas int                `json:"highRiskAreas"`
}

// ErrorResponse единый формат ошибки API
// @Description Ошибка API; fields заполняется для ошибок валидации
type ErrorResponse struct {
	Error  string         `json:"error"`
	Fields []e.FieldError `json:"fields,omitempty"`
}
