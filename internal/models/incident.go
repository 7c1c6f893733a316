package models

import (
	"time"

	"github.com/google/uuid"
)

type IncidentType string

const (
	TypeTheft              IncidentType = "theft"
	TypeRoadAccident       IncidentType = "road_accident"
	TypeGangActivity       IncidentType = "gang_activity"
	TypeTerrorism          IncidentType = "terrorism"
	TypeBanditry           IncidentType = "banditry"
	TypeCattleRustling     IncidentType = "cattle_rustling"
	TypeKalareGangs        IncidentType = "kalare_gangs"
	TypeKidnapping         IncidentType = "kidnapping"
	TypeArmedRobbery       IncidentType = "armed_robbery"
	TypeSuspiciousActivity IncidentType = "suspicious_activity"
	TypeTrafficIncident    IncidentType = "traffic_incident"
	TypePublicDisturbance  IncidentType = "public_disturbance"
	TypeCommunityAlert     IncidentType = "community_alert"
	TypeOther              IncidentType = "other"
)

// IncidentTypes - закрытый список категорий инцидентов
var IncidentTypes = []IncidentType{
	TypeTheft,
	TypeRoadAccident,
	TypeGangActivity,
	TypeTerrorism,
	TypeBanditry,
	TypeCattleRustling,
	TypeKalareGangs,
	TypeKidnapping,
	TypeArmedRobbery,
	TypeSuspiciousActivity,
	TypeTrafficIncident,
	TypePublicDisturbance,
	TypeCommunityAlert,
	TypeOther,
}

func (t IncidentType) Valid() bool {
	for _, known := range IncidentTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities упорядочены по возрастанию
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

func (s Severity) Valid() bool {
	return s.Rank() >= 0
}

// Rank возвращает порядковый номер уровня, -1 для неизвестного
func (s Severity) Rank() int {
	for i, known := range Severities {
		if s == known {
			return i
		}
	}
	return -1
}

type IncidentStatus string

const (
	StatusActive   IncidentStatus = "active"
	StatusResolved IncidentStatus = "resolved"
)

func (s IncidentStatus) Valid() bool {
	return s == StatusActive || s == StatusResolved
}

// Incident - каноническая запись об инциденте после приема
type Incident struct {
	ID             uuid.UUID      `json:"id"`
	IdempotencyKey string         `json:"clientIdempotencyKey"`
	Type           IncidentType   `json:"type"`
	Location       string         `json:"location"`
	Latitude       float64        `json:"latitude"`
	Longitude      float64        `json:"longitude"`
	Severity       Severity       `json:"severity"`
	Status         IncidentStatus `json:"status"`
	Description    string         `json:"description,omitempty"`
	ReportedAt     time.Time      `json:"reportedAt"`
	IsAnonymous    bool           `json:"isAnonymous"`
	PhotoRef       string         `json:"photoRef,omitempty"`
}

// Clone возвращает независимую копию записи
func (i *Incident) Clone() *Incident {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// RawReport - непроверенная заявка от клиента (онлайн или из офлайн-очереди)
type RawReport struct {
	Type        string   `json:"type" validate:"required,incident_type"`
	Location    string   `json:"location" validate:"required,max=255"`
	Latitude    *float64 `json:"latitude" validate:"required,lat"`
	Longitude   *float64 `json:"longitude" validate:"required,lng"`
	Severity    string   `json:"severity,omitempty" validate:"omitempty,severity"`
	Status      string   `json:"status,omitempty" validate:"omitempty,incident_status"`
	Description string   `json:"description,omitempty" validate:"max=2000"`
	IsAnonymous *bool    `json:"isAnonymous,omitempty"`
	PhotoRef    string   `json:"photoRef,omitempty" validate:"max=512"`
}
