package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
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

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []*models.Event
}

func (n *recordingNotifier) Notify(_ context.Context, event *models.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

type failingJournal struct {
	repository.MemoryJournal
}

func (j *failingJournal) Append(context.Context, *models.Event) error {
	return errors.New("disk full")
}

func newTestStore(t *testing.T, journal repository.EventJournal) (*Store, *testClock) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	clock := &testClock{now: time.Date(2026, 10, 1, 12, 30, 0, 0, time.UTC)}
	s := New(journal, logger, Options{Now: clock.Now})
	return s, clock
}

func ptr[T any](v T) *T {
	return &v
}

func report(incidentType, location string, lat, lng float64) models.RawReport {
	return models.RawReport{
		Type:      incidentType,
		Location:  location,
		Latitude:  ptr(lat),
		Longitude: ptr(lng),
	}
}

func TestStore_SubmitAndGet(t *testing.T) {
	s, _ := newTestStore(t, repository.NewMemoryJournal())
	ctx := context.Background()

	created, ok, err := s.Submit(ctx, report("theft", "Market", 10.2937, 11.1694), "k-1")
	require.NoError(t, err)
	require.True(t, ok)

	got, err := s.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, 1, s.Len())

	_, err = s.Get(uuid.New())
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestStore_RestoreFromJournal(t *testing.T) {
	journal := repository.NewMemoryJournal()
	s, _ := newTestStore(t, journal)
	ctx := context.Background()

	area, err := s.CreateArea(ctx, models.AreaInput{
		Name:         "Bolari",
		RiskLevel:    "medium",
		Latitude:     ptr(10.2937),
		Longitude:    ptr(11.1694),
		RadiusMeters: ptr(1500.0),
	})
	require.NoError(t, err)

	first, _, err := s.Submit(ctx, report("theft", "Bolari market", 10.2940, 11.1690), "k-1")
	require.NoError(t, err)
	_, _, err = s.Submit(ctx, report("kidnapping", "Far away", 9.0, 7.0), "k-2")
	require.NoError(t, err)
	_, err = s.UpdateStatus(ctx, first.ID, "resolved")
	require.NoError(t, err)

	before, err := s.StatsForWindow(24)
	require.NoError(t, err)

	restored, _ := newTestStore(t, journal)
	require.NoError(t, restored.Restore(ctx))

	after, err := restored.StatsForWindow(24)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	got, err := restored.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, got.Status)

	restoredArea, err := restored.Area(area.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, restoredArea.IncidentCount)

	// повтор ключа после рестарта не создает новую запись
	again, createdAgain, err := restored.Submit(ctx, report("other", "x", 0, 0), "k-1")
	require.NoError(t, err)
	assert.False(t, createdAgain)
	assert.Equal(t, first.ID, again.ID)
}

func TestStore_CreateAreaReassignsIncidents(t *testing.T) {
	s, _ := newTestStore(t, repository.NewMemoryJournal())
	ctx := context.Background()

	incident, _, err := s.Submit(ctx, report("theft", "Pantami", 10.2700, 11.1700), "k-1")
	require.NoError(t, err)

	stats, err := s.StatsForWindow(24)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"unassigned": 1}, stats.ByArea)

	area, err := s.CreateArea(ctx, models.AreaInput{
		Name:      "Pantami",
		RiskLevel: "low",
		Latitude:  ptr(10.2700),
		Longitude: ptr(11.1700),
	})
	require.NoError(t, err)
	assert.Equal(t, float64(models.DefaultAreaRadiusMeters), area.RadiusMeters)
	assert.Equal(t, 1, area.IncidentCount)

	stats, err = s.StatsForWindow(24)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{area.ID.String(): 1}, stats.ByArea)
	assert.Equal(t, 1, stats.SafeZones)

	nearest, err := s.NearestArea(incident.Latitude, incident.Longitude)
	require.NoError(t, err)
	assert.Equal(t, area.ID, nearest.ID)
}

func TestStore_UpdateArea(t *testing.T) {
	s, clock := newTestStore(t, repository.NewMemoryJournal())
	ctx := context.Background()

	area, err := s.CreateArea(ctx, models.AreaInput{
		Name:      "GRA",
		RiskLevel: "low",
		Latitude:  ptr(10.3),
		Longitude: ptr(11.2),
	})
	require.NoError(t, err)
	_, _, err = s.Submit(ctx, report("theft", "GRA", 10.3, 11.21), "k-1")
	require.NoError(t, err)

	// точка в ~1.1 км от центра: вне радиуса 1000 м
	got, err := s.Area(area.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.IncidentCount)

	clock.Advance(time.Minute)
	updated, err := s.UpdateArea(ctx, area.ID, models.AreaPatch{
		RiskLevel:    ptr("HIGH"),
		RadiusMeters: ptr(2000.0),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RiskHigh, updated.RiskLevel)
	assert.Equal(t, 1, updated.IncidentCount)
	assert.True(t, updated.LastUpdated.After(area.LastUpdated))

	// смена уровня без изменения геометрии тоже обновляет lastUpdated
	renamed, err := s.UpdateArea(ctx, area.ID, models.AreaPatch{Name: ptr("GRA North")})
	require.NoError(t, err)
	assert.True(t, renamed.LastUpdated.After(updated.LastUpdated))

	_, err = s.UpdateArea(ctx, uuid.New(), models.AreaPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, e.ErrNotFound)

	_, err = s.UpdateArea(ctx, area.ID, models.AreaPatch{RadiusMeters: ptr(-5.0)})
	var verr *e.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "radiusMeters", verr.Fields[0].Field)
}

func TestStore_CreateAreaValidation(t *testing.T) {
	s, _ := newTestStore(t, repository.NewMemoryJournal())

	_, err := s.CreateArea(context.Background(), models.AreaInput{RiskLevel: "unknown", Latitude: ptr(95.0)})
	var verr *e.ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"name", "riskLevel", "latitude", "longitude"}, fields)
	assert.Empty(t, s.Areas())
}

func TestStore_List(t *testing.T) {
	s, clock := newTestStore(t, repository.NewMemoryJournal())
	ctx := context.Background()

	old, _, err := s.Submit(ctx, report("theft", "Bolari Market", 10.2937, 11.1694), "k-old")
	require.NoError(t, err)
	clock.Advance(48 * time.Hour)
	fresh, _, err := s.Submit(ctx, report("theft", "Pantami", 10.2700, 11.1700), "k-fresh")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	accident, _, err := s.Submit(ctx, report("road_accident", "bolari junction", 10.2940, 11.1700), "k-acc")
	require.NoError(t, err)

	all, err := s.List(ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{accident.ID, fresh.ID, old.ID}, ids(all))

	recent, err := s.List(ListFilter{Hours: ptr(24)})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{accident.ID, fresh.ID}, ids(recent))

	byLabel, err := s.List(ListFilter{Area: "BOLARI"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{accident.ID, old.ID}, ids(byLabel))

	combined, err := s.List(ListFilter{Area: "bolari", Type: "theft"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{old.ID}, ids(combined))

	limited, err := s.List(ListFilter{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{accident.ID}, ids(limited))

	area, err := s.CreateArea(ctx, models.AreaInput{
		Name:      "Pantami",
		RiskLevel: "low",
		Latitude:  ptr(10.2700),
		Longitude: ptr(11.1700),
	})
	require.NoError(t, err)
	inArea, err := s.List(ListFilter{Area: area.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{fresh.ID}, ids(inArea))

	_, err = s.List(ListFilter{Type: "alien_invasion", Hours: ptr(0)})
	var verr *e.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)

	_, err = s.List(ListFilter{Area: uuid.NewString()})
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestStore_NearbyOrderedByDistance(t *testing.T) {
	s, _ := newTestStore(t, repository.NewMemoryJournal())
	ctx := context.Background()

	far, _, err := s.Submit(ctx, report("theft", "far", 10.30, 11.17), "k-far")
	require.NoError(t, err)
	near, _, err := s.Submit(ctx, report("theft", "near", 10.291, 11.17), "k-near")
	require.NoError(t, err)
	_, _, err = s.Submit(ctx, report("theft", "outside", 11.0, 11.17), "k-out")
	require.NoError(t, err)

	items, err := s.Nearby(10.29, 11.17, 5000)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, near.ID, items[0].ID)
	assert.Equal(t, far.ID, items[1].ID)
	assert.InDelta(t, 111.2, items[0].DistanceMeters, 1)

	_, err = s.Nearby(91, 0, -1)
	var verr *e.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestStore_Within(t *testing.T) {
	s, _ := newTestStore(t, repository.NewMemoryJournal())
	ctx := context.Background()

	inside, _, err := s.Submit(ctx, report("theft", "a", 10.29, 11.17), "k-1")
	require.NoError(t, err)
	_, _, err = s.Submit(ctx, report("theft", "b", 12.0, 11.17), "k-2")
	require.NoError(t, err)

	items, err := s.Within(10.0, 11.0, 10.5, 11.5)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{inside.ID}, ids(items))

	_, err = s.Within(11, 0, 10, 0)
	assert.ErrorIs(t, err, e.ErrValidation)
}

func TestStore_NotifiersReceiveEventsAfterCommit(t *testing.T) {
	s, _ := newTestStore(t, repository.NewMemoryJournal())
	notifier := &recordingNotifier{}
	s.AddNotifier(notifier)

	ctx, cancel := context.WithCancel(context.Background())
	incident, _, err := s.Submit(ctx, report("theft", "Market", 10.29, 11.17), "k-1")
	require.NoError(t, err)
	_, _, err = s.Submit(ctx, report("theft", "Market", 10.29, 11.17), "k-1")
	require.NoError(t, err)
	_, err = s.UpdateStatus(ctx, incident.ID, "resolved")
	require.NoError(t, err)
	cancel()

	require.Len(t, notifier.events, 2)
	assert.Equal(t, models.EventIncidentCreated, notifier.events[0].Kind)
	assert.Equal(t, models.EventStatusChanged, notifier.events[1].Kind)
	assert.Equal(t, models.StatusActive, notifier.events[1].PrevStatus)
}

func TestStore_JournalFailureLeavesStateUntouched(t *testing.T) {
	s, _ := newTestStore(t, &failingJournal{})
	notifier := &recordingNotifier{}
	s.AddNotifier(notifier)

	_, created, err := s.Submit(context.Background(), report("theft", "Market", 10.29, 11.17), "k-1")
	require.Error(t, err)
	assert.False(t, created)
	assert.Equal(t, 0, s.Len())

	ids, err := s.QueryRadius(10.29, 11.17, 100)
	require.NoError(t, err)
	assert.Empty(t, ids)

	stats, err := s.StatsForWindow(24)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Empty(t, notifier.events)
}

func TestStore_CanceledRequestKeepsJournalAndStateInStep(t *testing.T) {
	journal := repository.NewMemoryJournal()
	s, _ := newTestStore(t, journal)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	incident, created, err := s.Submit(ctx, report("theft", "Market", 10.2900, 11.1700), "k-1")
	require.NoError(t, err)
	require.True(t, created)
	area, err := s.CreateArea(ctx, models.AreaInput{
		Name:      "Market",
		RiskLevel: "medium",
		Latitude:  ptr(10.2900),
		Longitude: ptr(11.1700),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, area.IncidentCount)

	restored, _ := newTestStore(t, journal)
	require.NoError(t, restored.Restore(context.Background()))
	assert.Equal(t, 1, restored.Len())
	got, err := restored.Get(incident.ID)
	require.NoError(t, err)
	assert.Equal(t, incident.ID, got.ID)
	require.Len(t, restored.Areas(), 1)
	assert.Equal(t, area.ID, restored.Areas()[0].ID)
}

func TestStore_RebuildMatchesIncrementalState(t *testing.T) {
	s, clock := newTestStore(t, repository.NewMemoryJournal())
	ctx := context.Background()
	_, err := s.SeedAreas(ctx)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		lat := 10.26 + float64(i%10)*0.005
		lng := 11.16 + float64(i/10)*0.01
		incident, _, err := s.Submit(ctx, report("theft", "Gombe", lat, lng), fmt.Sprintf("k-%d", i))
		require.NoError(t, err)
		if i%3 == 0 {
			_, err = s.UpdateStatus(ctx, incident.ID, "resolved")
			require.NoError(t, err)
		}
		clock.Advance(17 * time.Minute)
	}

	before, err := s.StatsForWindow(24)
	require.NoError(t, err)
	areasBefore := s.Areas()

	require.NoError(t, s.Rebuild(ctx))

	after, err := s.StatsForWindow(24)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, areasBefore, s.Areas())

	recent, err := s.RecentIncidents(24)
	require.NoError(t, err)
	assert.Equal(t, after.Total, len(recent))
}

func TestStore_RebuildCanceledKeepsState(t *testing.T) {
	s, _ := newTestStore(t, repository.NewMemoryJournal())
	ctx := context.Background()
	_, _, err := s.Submit(ctx, report("theft", "Market", 10.29, 11.17), "k-1")
	require.NoError(t, err)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	err = s.Rebuild(canceled)
	require.ErrorIs(t, err, context.Canceled)

	stats, err := s.StatsForWindow(24)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
}

func TestStore_ConcurrentWritesAndReads(t *testing.T) {
	s, _ := newTestStore(t, repository.NewMemoryJournal())
	ctx := context.Background()

	const writers, perWriter = 8, 25
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				key := fmt.Sprintf("w%d-%d", w, i%20)
				_, _, err := s.Submit(ctx, report("theft", "Market", 10.29, 11.17), key)
				assert.NoError(t, err)
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				stats, err := s.StatsForWindow(24)
				assert.NoError(t, err)
				ids, err := s.QueryRadius(10.29, 11.17, 10)
				assert.NoError(t, err)
				// запись видна целиком или не видна совсем
				assert.Equal(t, stats.Total, stats.Active+stats.Resolved)
				assert.LessOrEqual(t, len(ids), writers*20)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, writers*20, s.Len())
	stats, err := s.StatsForWindow(24)
	require.NoError(t, err)
	recent, err := s.RecentIncidents(24)
	require.NoError(t, err)
	assert.Equal(t, writers*20, stats.Total)
	assert.Len(t, recent, stats.Total)
}

func TestStore_SeedAreasOnce(t *testing.T) {
	s, _ := newTestStore(t, repository.NewMemoryJournal())
	ctx := context.Background()

	n, err := s.SeedAreas(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	n, err = s.SeedAreas(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	areas := s.Areas()
	require.Len(t, areas, 10)
	assert.Equal(t, "Arawa", areas[0].Name)

	stats, err := s.StatsForWindow(24)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.SafeZones)
	assert.Equal(t, 0, stats.HighRiskAreas)
}

func ids(incidents []*models.Incident) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(incidents))
	for _, incident := range incidents {
		out = append(out, incident.ID)
	}
	return out
}
