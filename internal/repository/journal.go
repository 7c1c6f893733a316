package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/shenikar/incident_hub/pkg/e"
)

// EventJournal - журнал событий, из которого восстанавливается всё состояние
type EventJournal interface {
	Append(ctx context.Context, event *models.Event) error
	Load(ctx context.Context, fn func(event *models.Event) error) error
}

// AppendTimeout ограничивает одну запись в журнал
const AppendTimeout = 5 * time.Second

// WriteContext отвязывает запись от отмены запроса: начатое добавление
// доводится до конца, и событие из журнала всегда применяется к состоянию.
func WriteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), AppendTimeout)
}

type PostgresJournal struct {
	db *pgxpool.Pool
}

func NewPostgresJournal(db *pgxpool.Pool) *PostgresJournal {
	return &PostgresJournal{db: db}
}

// Append дописывает событие и проставляет ему порядковый номер
func (j *PostgresJournal) Append(ctx context.Context, event *models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	var idempotencyKey *string
	if event.IdempotencyKey != "" {
		idempotencyKey = &event.IdempotencyKey
	}

	query := `
		INSERT INTO incident_events (kind, aggregate_id, idempotency_key, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING seq;
	`
	err = j.db.QueryRow(ctx, query,
		string(event.Kind),
		event.AggregateID,
		idempotencyKey,
		payload,
		event.OccurredAt,
	).Scan(&event.Seq)
	if err != nil {
		return e.WrapPg("append event", err)
	}
	return nil
}

// Load читает журнал по возрастанию seq и передает каждое событие в fn
func (j *PostgresJournal) Load(ctx context.Context, fn func(event *models.Event) error) error {
	query := `
		SELECT seq, payload
		FROM incident_events
		ORDER BY seq ASC;
	`
	rows, err := j.db.Query(ctx, query)
	if err != nil {
		return e.WrapPg("load events", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			seq     int64
			payload []byte
		)
		if err := rows.Scan(&seq, &payload); err != nil {
			return fmt.Errorf("failed to scan event row: %w", err)
		}
		event := &models.Event{}
		if err := json.Unmarshal(payload, event); err != nil {
			return fmt.Errorf("failed to unmarshal event %d: %w", seq, err)
		}
		event.Seq = seq
		if err := fn(event); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error events iteration: %w", err)
	}
	return nil
}
