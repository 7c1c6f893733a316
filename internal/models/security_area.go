package models

import (
	"time"

	"github.com/google/uuid"
)

type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

var RiskLevels = []RiskLevel{RiskSafe, RiskLow, RiskMedium, RiskHigh, RiskCritical}

func (r RiskLevel) Valid() bool {
	for _, known := range RiskLevels {
		if r == known {
			return true
		}
	}
	return false
}

// DefaultAreaRadiusMeters используется, если радиус не задан при создании
const DefaultAreaRadiusMeters = 1000

// SecurityArea - зона безопасности с центром и радиусом
type SecurityArea struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	RiskLevel     RiskLevel `json:"riskLevel"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	RadiusMeters  float64   `json:"radiusMeters"`
	IncidentCount int       `json:"incidentCount"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

func (a *SecurityArea) Clone() *SecurityArea {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// AreaInput - данные для создания зоны
type AreaInput struct {
	Name         string   `json:"name" validate:"required,max=255"`
	Description  string   `json:"description,omitempty" validate:"max=2000"`
	RiskLevel    string   `json:"riskLevel" validate:"required,risk_level"`
	Latitude     *float64 `json:"latitude" validate:"required,lat"`
	Longitude    *float64 `json:"longitude" validate:"required,lng"`
	RadiusMeters *float64 `json:"radiusMeters,omitempty" validate:"omitempty,gt=0"`
}

// AreaPatch - частичное обновление зоны, nil означает "не менять"
type AreaPatch struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	RiskLevel    *string  `json:"riskLevel,omitempty" validate:"omitempty,risk_level"`
	Latitude     *float64 `json:"latitude,omitempty" validate:"omitempty,lat"`
	Longitude    *float64 `json:"longitude,omitempty" validate:"omitempty,lng"`
	RadiusMeters *float64 `json:"radiusMeters,omitempty" validate:"omitempty,gt=0"`
}

// MovesGeometry сообщает, меняет ли патч центр или радиус зоны
func (p AreaPatch) MovesGeometry() bool {
	return p.Latitude != nil || p.Longitude != nil || p.RadiusMeters != nil
}
