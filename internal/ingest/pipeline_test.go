package ingest

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/shenikar/incident_hub/internal/repository"
	"github.com/shenikar/incident_hub/pkg/e"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	events []*models.Event
}

func (c *captureSink) Apply(event *models.Event) {
	c.events = append(c.events, event)
}

type brokenJournal struct{}

func (brokenJournal) Append(context.Context, *models.Event) error {
	return errors.New("connection reset")
}

func newTestPipeline(t *testing.T, journal Journal, now func() time.Time) (*Pipeline, *captureSink) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	sink := &captureSink{}
	return NewPipeline(journal, logger, now, sink), sink
}

func f64(v float64) *float64 {
	return &v
}

func validReport() models.RawReport {
	return models.RawReport{
		Type:      "theft",
		Location:  "Market",
		Latitude:  f64(10.29),
		Longitude: f64(11.17),
	}
}

func TestSubmit_CreatesWithDefaults(t *testing.T) {
	journal := repository.NewMemoryJournal()
	p, sink := newTestPipeline(t, journal, nil)

	raw := validReport()
	raw.Type = "  THEFT "
	raw.Location = " Market  "
	incident, created, err := p.Submit(context.Background(), raw, "abc")

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.IncidentType("theft"), incident.Type)
	assert.Equal(t, "Market", incident.Location)
	assert.Equal(t, models.SeverityMedium, incident.Severity)
	assert.Equal(t, models.StatusActive, incident.Status)
	assert.True(t, incident.IsAnonymous)
	assert.Equal(t, "abc", incident.IdempotencyKey)
	assert.Equal(t, 1, journal.Len())
	require.Len(t, sink.events, 1)
	assert.Equal(t, models.EventIncidentCreated, sink.events[0].Kind)
}

func TestSubmit_IdempotentOnKey(t *testing.T) {
	journal := repository.NewMemoryJournal()
	p, sink := newTestPipeline(t, journal, nil)
	ctx := context.Background()

	first, created, err := p.Submit(ctx, validReport(), "abc")
	require.NoError(t, err)
	require.True(t, created)

	// тело отличается, но ключ тот же: возвращается исходная запись
	changed := validReport()
	changed.Type = "kidnapping"
	changed.Latitude = f64(99)
	second, created, err := p.Submit(ctx, changed, "abc")

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, 1, journal.Len())
	assert.Len(t, sink.events, 1)
}

func TestSubmit_ReportsAllInvalidFields(t *testing.T) {
	p, sink := newTestPipeline(t, repository.NewMemoryJournal(), nil)

	raw := models.RawReport{
		Type:      "alien",
		Location:  "   ",
		Latitude:  f64(91),
		Longitude: f64(-181),
		Severity:  "extreme",
	}
	_, created, err := p.Submit(context.Background(), raw, "")

	require.Error(t, err)
	assert.False(t, created)
	assert.ErrorIs(t, err, e.ErrValidation)

	var verr *e.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"type", "location", "latitude", "longitude", "severity", "idempotencyKey"}, fields)
	assert.Equal(t, 0, p.Len())
	assert.Empty(t, sink.events)
}

func TestSubmit_MissingCoordinates(t *testing.T) {
	p, _ := newTestPipeline(t, repository.NewMemoryJournal(), nil)

	_, _, err := p.Submit(context.Background(), models.RawReport{Type: "theft", Location: "Market"}, "k")

	var verr *e.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestSubmit_BoundaryCoordinatesAccepted(t *testing.T) {
	p, _ := newTestPipeline(t, repository.NewMemoryJournal(), nil)

	raw := validReport()
	raw.Latitude = f64(-90)
	raw.Longitude = f64(180)
	incident, _, err := p.Submit(context.Background(), raw, "edge")

	require.NoError(t, err)
	assert.Equal(t, -90.0, incident.Latitude)
	assert.Equal(t, 180.0, incident.Longitude)
}

func TestSubmit_JournalFailure(t *testing.T) {
	p, sink := newTestPipeline(t, brokenJournal{}, nil)

	_, created, err := p.Submit(context.Background(), validReport(), "abc")

	require.Error(t, err)
	assert.False(t, created)
	assert.Equal(t, 0, p.Len())
	assert.Empty(t, sink.events)
}

func TestSubmit_CanceledRequestStillPersists(t *testing.T) {
	journal := repository.NewMemoryJournal()
	p, sink := newTestPipeline(t, journal, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	incident, created, err := p.Submit(ctx, validReport(), "abc")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, journal.Len())
	assert.Len(t, sink.events, 1)

	// повтор клиента после обрыва получает ту же запись
	again, created, err := p.Submit(context.Background(), validReport(), "abc")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, incident.ID, again.ID)

	updated, err := p.UpdateStatus(ctx, incident.ID, "resolved")
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, updated.Status)
	assert.Equal(t, 2, journal.Len())
}

func TestSubmit_ReportedAtNeverDecreases(t *testing.T) {
	clock := []time.Time{
		time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 1, 11, 0, 0, 0, time.UTC),
	}
	i := 0
	now := func() time.Time {
		ts := clock[i%len(clock)]
		i++
		return ts
	}
	p, _ := newTestPipeline(t, repository.NewMemoryJournal(), now)
	ctx := context.Background()

	first, _, err := p.Submit(ctx, validReport(), "a")
	require.NoError(t, err)
	second, _, err := p.Submit(ctx, validReport(), "b")
	require.NoError(t, err)

	assert.Equal(t, first.ReportedAt, second.ReportedAt)
}

func TestUpdateStatus(t *testing.T) {
	journal := repository.NewMemoryJournal()
	p, sink := newTestPipeline(t, journal, nil)
	ctx := context.Background()

	incident, _, err := p.Submit(ctx, validReport(), "abc")
	require.NoError(t, err)

	t.Run("resolve", func(t *testing.T) {
		updated, err := p.UpdateStatus(ctx, incident.ID, "resolved")
		require.NoError(t, err)
		assert.Equal(t, models.StatusResolved, updated.Status)
		assert.Equal(t, 2, journal.Len())
		assert.Equal(t, models.EventStatusChanged, sink.events[len(sink.events)-1].Kind)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		updated, err := p.UpdateStatus(ctx, incident.ID, "RESOLVED")
		require.NoError(t, err)
		assert.Equal(t, models.StatusResolved, updated.Status)
		assert.Equal(t, 2, journal.Len())
	})

	t.Run("reopen", func(t *testing.T) {
		updated, err := p.UpdateStatus(ctx, incident.ID, "active")
		require.NoError(t, err)
		assert.Equal(t, models.StatusActive, updated.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := p.UpdateStatus(ctx, incident.ID, "archived")
		assert.ErrorIs(t, err, e.ErrInvalidTransition)
		got, _ := p.Get(incident.ID)
		assert.Equal(t, models.StatusActive, got.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := p.UpdateStatus(ctx, uuid.New(), "resolved")
		assert.ErrorIs(t, err, e.ErrNotFound)
	})
}

func TestRestore_ReplaysJournal(t *testing.T) {
	journal := repository.NewMemoryJournal()
	p, _ := newTestPipeline(t, journal, nil)
	ctx := context.Background()

	incident, _, err := p.Submit(ctx, validReport(), "abc")
	require.NoError(t, err)
	_, err = p.UpdateStatus(ctx, incident.ID, "resolved")
	require.NoError(t, err)

	replayed, sink := newTestPipeline(t, journal, nil)
	require.NoError(t, journal.Load(ctx, func(event *models.Event) error {
		replayed.Restore(event)
		return nil
	}))

	got, ok := replayed.Get(incident.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusResolved, got.Status)
	assert.Empty(t, sink.events)

	_, created, err := replayed.Submit(ctx, validReport(), "abc")
	require.NoError(t, err)
	assert.False(t, created)
}
