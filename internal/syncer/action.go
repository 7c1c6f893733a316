package syncer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_hub/internal/models"
)

type ActionKind string

const (
	KindCreateIncident ActionKind = "create_incident"
	KindUpdateStatus   ActionKind = "update_status"
)

type ActionState string

const (
	StateQueued       ActionState = "queued"
	StateSubmitting   ActionState = "submitting"
	StateAcknowledged ActionState = "acknowledged"
	StateFailed       ActionState = "failed"
	StateDeadLettered ActionState = "dead_lettered"
)

// Action - отложенная запись офлайн-клиента.
// IdempotencyKey назначается один раз и не меняется между повторами.
type Action struct {
	QueuedID       uuid.UUID         `json:"queuedId"`
	Seq            int64             `json:"seq"`
	Kind           ActionKind        `json:"kind"`
	IdempotencyKey string            `json:"idempotencyKey"`
	Report         *models.RawReport `json:"report,omitempty"`
	TargetID       *uuid.UUID        `json:"targetId,omitempty"`
	TargetKey      string            `json:"targetKey,omitempty"`
	Status         string            `json:"status,omitempty"`
	State          ActionState       `json:"state"`
	Attempts       int               `json:"attempts"`
	NextAttemptAt  time.Time         `json:"nextAttemptAt"`
	LastError      string            `json:"lastError,omitempty"`
	ResultID       *uuid.UUID        `json:"resultId,omitempty"`
	EnqueuedAt     time.Time         `json:"enqueuedAt"`
}

// Settled - действие больше не участвует в воспроизведении
func (a *Action) Settled() bool {
	return a.State == StateAcknowledged || a.State == StateDeadLettered
}

func (a *Action) Clone() *Action {
	c := *a
	if a.Report != nil {
		report := *a.Report
		c.Report = &report
	}
	if a.TargetID != nil {
		id := *a.TargetID
		c.TargetID = &id
	}
	if a.ResultID != nil {
		id := *a.ResultID
		c.ResultID = &id
	}
	return &c
}

// ReplayResult - итоги одного прохода по очереди: счетчики и queuedId действий
type ReplayResult struct {
	Acknowledged int `json:"acknowledged"`
	Failed       int `json:"failed"`
	Deferred     int `json:"deferred"`
	DeadLettered int `json:"deadLettered"`

	AcknowledgedIDs []uuid.UUID `json:"acknowledgedIds,omitempty"`
	FailedIDs       []uuid.UUID `json:"failedIds,omitempty"`
	DeferredIDs     []uuid.UUID `json:"deferredIds,omitempty"`
	DeadLetteredIDs []uuid.UUID `json:"deadLetteredIds,omitempty"`
}

func (r *ReplayResult) acknowledged(a *Action) {
	r.Acknowledged++
	r.AcknowledgedIDs = append(r.AcknowledgedIDs, a.QueuedID)
}

func (r *ReplayResult) failed(a *Action) {
	r.Failed++
	r.FailedIDs = append(r.FailedIDs, a.QueuedID)
}

func (r *ReplayResult) deferred(a *Action) {
	r.Deferred++
	r.DeferredIDs = append(r.DeferredIDs, a.QueuedID)
}

func (r *ReplayResult) deadLettered(a *Action) {
	r.DeadLettered++
	r.DeadLetteredIDs = append(r.DeadLetteredIDs, a.QueuedID)
}
