package models

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventIncidentCreated EventKind = "incident_created"
	EventStatusChanged   EventKind = "status_changed"
	EventAreaCreated     EventKind = "area_created"
	EventAreaUpdated     EventKind = "area_updated"
)

// Event - запись журнала изменений; журнал только дописывается
type Event struct {
	Seq            int64          `json:"seq"`
	Kind           EventKind      `json:"kind"`
	AggregateID    uuid.UUID      `json:"aggregateId"`
	IdempotencyKey string         `json:"idempotencyKey,omitempty"`
	Incident       *Incident      `json:"incident,omitempty"`
	Status         IncidentStatus `json:"status,omitempty"`
	PrevStatus     IncidentStatus `json:"prevStatus,omitempty"`
	Area           *SecurityArea  `json:"area,omitempty"`
	OccurredAt     time.Time      `json:"occurredAt"`
}
