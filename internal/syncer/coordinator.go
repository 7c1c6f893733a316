package syncer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_hub/internal/metrics"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/shenikar/incident_hub/pkg/e"
	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = 2 * time.Second
)

// Submitter - цель воспроизведения: store в процессе или HTTP API сервиса
type Submitter interface {
	Submit(ctx context.Context, raw models.RawReport, idempotencyKey string) (*models.Incident, bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Incident, error)
}

type Options struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Now         func() time.Time
}

// Coordinator воспроизводит офлайн-очередь строго в порядке постановки.
// Одновременно выполняется не больше одного Replay.
type Coordinator struct {
	mu     sync.Mutex
	queue  QueueStore
	target Submitter
	logger *logrus.Logger

	maxAttempts int
	baseDelay   time.Duration
	now         func() time.Time
}

func NewCoordinator(queue QueueStore, target Submitter, logger *logrus.Logger, opts Options) *Coordinator {
	c := &Coordinator{
		queue:       queue,
		target:      target,
		logger:      logger,
		maxAttempts: opts.MaxAttempts,
		baseDelay:   opts.BaseDelay,
		now:         opts.Now,
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = DefaultMaxAttempts
	}
	if c.baseDelay <= 0 {
		c.baseDelay = DefaultBaseDelay
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Backoff - задержка перед следующей попыткой: base * 2^(attempts-1)
func (c *Coordinator) Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	return c.baseDelay << (attempts - 1)
}

// Enqueue ставит действие в очередь и возвращает его queuedId.
// Ключ идемпотентности создается здесь, если клиент его не передал.
func (c *Coordinator) Enqueue(ctx context.Context, action Action) (uuid.UUID, error) {
	action.IdempotencyKey = strings.TrimSpace(action.IdempotencyKey)
	action.TargetKey = strings.TrimSpace(action.TargetKey)

	verr := &e.ValidationError{}
	switch action.Kind {
	case KindCreateIncident:
		if action.Report == nil {
			verr.Add("report", "is required")
		}
	case KindUpdateStatus:
		if action.TargetID == nil && action.TargetKey == "" {
			verr.Add("targetId", "targetId or targetKey is required")
		}
		if !models.IncidentStatus(strings.ToLower(strings.TrimSpace(action.Status))).Valid() {
			verr.Add("status", "must be one of active, resolved")
		}
	default:
		verr.Add("kind", "must be one of create_incident, update_status")
	}
	if err := verr.OrNil(); err != nil {
		return uuid.Nil, err
	}

	now := c.now()
	if action.IdempotencyKey == "" {
		action.IdempotencyKey = uuid.NewString()
	}
	action.QueuedID = uuid.New()
	action.State = StateQueued
	action.Attempts = 0
	action.LastError = ""
	action.ResultID = nil
	action.NextAttemptAt = now
	action.EnqueuedAt = now

	if err := c.queue.Add(ctx, &action); err != nil {
		return uuid.Nil, fmt.Errorf("syncer: enqueue: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"service":         "syncer",
		"method":          "Enqueue",
		"queued_id":       action.QueuedID,
		"kind":            action.Kind,
		"idempotency_key": action.IdempotencyKey,
		"seq":             action.Seq,
	}).Info("Action queued")
	return action.QueuedID, nil
}

// Replay проходит очередь по возрастанию seq. Обновление статуса, чье создание
// по targetKey еще не подтверждено, откладывается без расхода попытки.
func (c *Coordinator) Replay(ctx context.Context) (ReplayResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var result ReplayResult
	actions, err := c.queue.List(ctx)
	if err != nil {
		return result, fmt.Errorf("syncer: list queue: %w", err)
	}

	// состояние создающих действий по ключу идемпотентности
	creates := make(map[string]*Action)
	for _, action := range actions {
		if action.Kind == KindCreateIncident {
			creates[action.IdempotencyKey] = action
		}
	}

	// инциденты, чье более раннее действие в этом проходе не подтверждено;
	// последующие действия над ними ждут, чтобы не обогнать его
	blocked := make(map[string]struct{})
	block := func(action *Action) {
		for _, target := range targetsOf(action) {
			blocked[target] = struct{}{}
		}
	}
	isBlocked := func(action *Action) bool {
		for _, target := range targetsOf(action) {
			if _, ok := blocked[target]; ok {
				return true
			}
		}
		return false
	}

	for _, action := range actions {
		if action.Settled() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("syncer: replay interrupted: %w", err)
		}

		log := c.logger.WithFields(logrus.Fields{
			"service":         "syncer",
			"method":          "Replay",
			"queued_id":       action.QueuedID,
			"kind":            action.Kind,
			"idempotency_key": action.IdempotencyKey,
		})

		if action.Kind == KindUpdateStatus && action.TargetID == nil {
			prerequisite, ok := creates[action.TargetKey]
			switch {
			case !ok:
				if err := c.deadLetter(ctx, action, "unknown prerequisite "+action.TargetKey); err != nil {
					return result, err
				}
				result.deadLettered(action)
				log.Warn("Status update references an unknown creation, dead-lettered")
				continue
			case prerequisite.State == StateDeadLettered:
				if err := c.deadLetter(ctx, action, "prerequisite dead-lettered: "+prerequisite.LastError); err != nil {
					return result, err
				}
				result.deadLettered(action)
				log.Warn("Prerequisite creation dead-lettered, dependent dead-lettered too")
				continue
			case prerequisite.State != StateAcknowledged || prerequisite.ResultID == nil:
				result.deferred(action)
				block(action)
				metrics.SyncActions.WithLabelValues("deferred").Inc()
				log.Debug("Status update deferred until creation is acknowledged")
				continue
			}
			id := *prerequisite.ResultID
			action.TargetID = &id
		}

		if isBlocked(action) {
			result.deferred(action)
			block(action)
			metrics.SyncActions.WithLabelValues("deferred").Inc()
			log.Debug("Action deferred behind an unacknowledged action for the same incident")
			continue
		}

		// submitting после сбоя повторяется сразу с тем же ключом
		if action.State == StateFailed && c.now().Before(action.NextAttemptAt) {
			result.deferred(action)
			block(action)
			metrics.SyncActions.WithLabelValues("deferred").Inc()
			continue
		}

		outcome, err := c.attempt(ctx, action, log)
		if err != nil {
			return result, err
		}
		switch outcome {
		case StateAcknowledged:
			result.acknowledged(action)
		case StateDeadLettered:
			result.deadLettered(action)
		default:
			result.failed(action)
			block(action)
		}
	}

	c.logger.WithFields(logrus.Fields{
		"service":       "syncer",
		"method":        "Replay",
		"acknowledged":  result.Acknowledged,
		"failed":        result.Failed,
		"deferred":      result.Deferred,
		"dead_lettered": result.DeadLettered,
	}).Info("Replay pass finished")
	return result, nil
}

// attempt отправляет одно действие; состояние submitting сохраняется до вызова,
// чтобы после сбоя процесса действие повторилось с тем же ключом
func (c *Coordinator) attempt(ctx context.Context, action *Action, log *logrus.Entry) (ActionState, error) {
	action.State = StateSubmitting
	action.Attempts++
	if err := c.queue.Save(ctx, action); err != nil {
		return "", fmt.Errorf("syncer: save action: %w", err)
	}

	var (
		incident *models.Incident
		err      error
	)
	switch action.Kind {
	case KindCreateIncident:
		incident, _, err = c.target.Submit(ctx, *action.Report, action.IdempotencyKey)
	case KindUpdateStatus:
		incident, err = c.target.UpdateStatus(ctx, *action.TargetID, action.Status)
	}

	// результат сохраняем даже при отмене ctx запроса
	saveCtx := context.WithoutCancel(ctx)
	switch {
	case err == nil:
		action.State = StateAcknowledged
		action.LastError = ""
		if incident != nil {
			id := incident.ID
			action.ResultID = &id
		}
		log.WithField("result_id", action.ResultID).Info("Action acknowledged")
	case e.IsPermanent(err):
		action.State = StateDeadLettered
		action.LastError = err.Error()
		log.WithError(err).Warn("Action rejected permanently, dead-lettered")
	case action.Attempts >= c.maxAttempts:
		action.State = StateDeadLettered
		action.LastError = fmt.Sprintf("giving up after %d attempts: %v", action.Attempts, err)
		log.WithError(err).Error("Action exhausted retries, dead-lettered")
	default:
		action.State = StateFailed
		action.LastError = err.Error()
		delay := c.Backoff(action.Attempts)
		action.NextAttemptAt = c.now().Add(delay)
		log.WithError(err).Warnf("Action failed, retrying in %v", delay)
	}

	if saveErr := c.queue.Save(saveCtx, action); saveErr != nil {
		return "", fmt.Errorf("syncer: save action: %w", saveErr)
	}
	metrics.SyncActions.WithLabelValues(string(action.State)).Inc()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return action.State, fmt.Errorf("syncer: replay interrupted: %w", ctx.Err())
	}
	return action.State, nil
}

// targetsOf возвращает ключи инцидента, которого касается действие:
// ключ идемпотентности создания и id на сервере, если он известен
func targetsOf(action *Action) []string {
	var targets []string
	switch action.Kind {
	case KindCreateIncident:
		targets = append(targets, "key:"+action.IdempotencyKey)
		if action.ResultID != nil {
			targets = append(targets, "id:"+action.ResultID.String())
		}
	case KindUpdateStatus:
		if action.TargetKey != "" {
			targets = append(targets, "key:"+action.TargetKey)
		}
		if action.TargetID != nil {
			targets = append(targets, "id:"+action.TargetID.String())
		}
	}
	return targets
}

func (c *Coordinator) deadLetter(ctx context.Context, action *Action, reason string) error {
	action.State = StateDeadLettered
	action.LastError = reason
	if err := c.queue.Save(ctx, action); err != nil {
		return fmt.Errorf("syncer: save action: %w", err)
	}
	metrics.SyncActions.WithLabelValues(string(StateDeadLettered)).Inc()
	return nil
}

// DeadLetters возвращает действия, требующие ручного разбора
func (c *Coordinator) DeadLetters(ctx context.Context) ([]*Action, error) {
	return c.filter(ctx, func(a *Action) bool { return a.State == StateDeadLettered })
}

// Pending возвращает действия, еще не подтвержденные и не отброшенные
func (c *Coordinator) Pending(ctx context.Context) ([]*Action, error) {
	return c.filter(ctx, func(a *Action) bool { return !a.Settled() })
}

func (c *Coordinator) filter(ctx context.Context, keep func(*Action) bool) ([]*Action, error) {
	actions, err := c.queue.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("syncer: list queue: %w", err)
	}
	out := make([]*Action, 0)
	for _, action := range actions {
		if keep(action) {
			out = append(out, action)
		}
	}
	return out, nil
}

// Requeue возвращает отброшенное действие в очередь с тем же ключом и обнуленными попытками
func (c *Coordinator) Requeue(ctx context.Context, queuedID uuid.UUID) (*Action, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	action, err := c.queue.Get(ctx, queuedID)
	if err != nil {
		return nil, err
	}
	if action.State != StateDeadLettered {
		return nil, fmt.Errorf("syncer: action %s is %s: %w", queuedID, action.State, e.ErrInvalidTransition)
	}

	action.State = StateQueued
	action.Attempts = 0
	action.LastError = ""
	action.NextAttemptAt = c.now()
	if err := c.queue.Save(ctx, action); err != nil {
		return nil, fmt.Errorf("syncer: save action: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"service":         "syncer",
		"method":          "Requeue",
		"queued_id":       queuedID,
		"idempotency_key": action.IdempotencyKey,
	}).Info("Dead-lettered action requeued")
	return action, nil
}

// Outcome возвращает id инцидента на сервере для подтвержденного действия.
// Для отброшенного действия ошибка оборачивает e.ErrDeadLettered с причиной,
// для еще не завершенного id равен nil.
func (c *Coordinator) Outcome(ctx context.Context, queuedID uuid.UUID) (*uuid.UUID, error) {
	action, err := c.queue.Get(ctx, queuedID)
	if err != nil {
		return nil, err
	}
	switch action.State {
	case StateAcknowledged:
		return action.ResultID, nil
	case StateDeadLettered:
		return nil, fmt.Errorf("syncer: action %s: %s: %w", queuedID, action.LastError, e.ErrDeadLettered)
	default:
		return nil, nil
	}
}
