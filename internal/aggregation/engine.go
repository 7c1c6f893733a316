package aggregation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_hub/internal/metrics"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/shenikar/incident_hub/pkg/e"
)

const (
	// UnassignedArea - ключ для инцидентов вне всех зон
	UnassignedArea = "unassigned"

	DefaultRetentionHours = 24 * 30

	rebuildCheckEvery = 1024
	secondsPerHour    = int64(time.Hour / time.Second)
)

// AreaLocator определяет зону для точки (реализуется spatial.Index)
type AreaLocator interface {
	NearestArea(lat, lng float64) (*models.SecurityArea, bool)
}

// RecordLookup возвращает запись по id (внутренний указатель владельца)
type RecordLookup func(id uuid.UUID) (*models.Incident, bool)

type bucketKey struct {
	Type     models.IncidentType
	Severity models.Severity
	AreaID   string
}

type counts struct {
	Active   int
	Resolved int
}

func (c *counts) add(status models.IncidentStatus, delta int) {
	if status == models.StatusResolved {
		c.Resolved += delta
		return
	}
	c.Active += delta
}

type assignment struct {
	hour   int64
	key    bucketKey
	status models.IncidentStatus
}

type timelineEntry struct {
	id         uuid.UUID
	reportedAt time.Time
}

type state struct {
	hours      map[int64]map[bucketKey]*counts
	assigned   map[uuid.UUID]*assignment
	areaTotals map[string]int
	timeline   []timelineEntry
	prunedTo   int64
}

func newState() *state {
	return &state{
		hours:      make(map[int64]map[bucketKey]*counts),
		assigned:   make(map[uuid.UUID]*assignment),
		areaTotals: make(map[string]int),
	}
}

// Stats - сводка за окно
type Stats struct {
	WindowHours   int                `json:"windowHours"`
	Total         int                `json:"total"`
	Active        int                `json:"active"`
	Resolved      int                `json:"resolved"`
	ByType        map[string]int     `json:"byType"`
	BySeverity    map[string]int     `json:"bySeverity"`
	ByArea        map[string]int     `json:"byArea"`
	TypeShare     map[string]float64 `json:"typeShare"`
	SeverityShare map[string]float64 `json:"severityShare"`
}

// Engine ведет почасовые счетчики по (тип, важность, зона).
// Engine не потокобезопасен, доступ сериализует store.
type Engine struct {
	areas     AreaLocator
	lookup    RecordLookup
	now       func() time.Time
	retention int
	st        *state
}

func NewEngine(areas AreaLocator, lookup RecordLookup, now func() time.Time, retentionHours int) *Engine {
	if now == nil {
		now = time.Now
	}
	if retentionHours <= 0 {
		retentionHours = DefaultRetentionHours
	}
	return &Engine{
		areas:     areas,
		lookup:    lookup,
		now:       now,
		retention: retentionHours,
		st:        newState(),
	}
}

func hourOf(t time.Time) int64 {
	sec := t.Unix()
	h := sec / secondsPerHour
	if sec%secondsPerHour < 0 {
		h--
	}
	return h
}

// Share возвращает долю count/total; при total == 0 доля равна 0
func Share(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

// Apply обновляет счетчики по событию журнала
func (en *Engine) Apply(event *models.Event) {
	switch event.Kind {
	case models.EventIncidentCreated:
		if event.Incident != nil {
			en.add(en.st, event.Incident)
			en.prune(en.st)
		}
	case models.EventStatusChanged:
		en.changeStatus(event.AggregateID, event.Status)
	}
}

func (en *Engine) add(st *state, incident *models.Incident) {
	areaID := UnassignedArea
	if en.areas != nil {
		if area, ok := en.areas.NearestArea(incident.Latitude, incident.Longitude); ok {
			areaID = area.ID.String()
		}
	}

	a := &assignment{
		hour:   hourOf(incident.ReportedAt),
		key:    bucketKey{Type: incident.Type, Severity: incident.Severity, AreaID: areaID},
		status: incident.Status,
	}
	bucket, ok := st.hours[a.hour]
	if !ok {
		bucket = make(map[bucketKey]*counts)
		st.hours[a.hour] = bucket
	}
	c, ok := bucket[a.key]
	if !ok {
		c = &counts{}
		bucket[a.key] = c
	}
	c.add(a.status, 1)

	st.assigned[incident.ID] = a
	st.areaTotals[areaID]++
	st.timeline = append(st.timeline, timelineEntry{id: incident.ID, reportedAt: incident.ReportedAt})
}

func (en *Engine) changeStatus(id uuid.UUID, status models.IncidentStatus) {
	a, ok := en.st.assigned[id]
	if !ok || a.status == status {
		return
	}
	if c, ok := en.st.hours[a.hour][a.key]; ok {
		c.add(a.status, -1)
		c.add(status, 1)
	}
	a.status = status
}

// prune удаляет часы старше срока хранения
func (en *Engine) prune(st *state) {
	cutoff := hourOf(en.now()) - int64(en.retention)
	if cutoff <= st.prunedTo {
		return
	}
	for hour := range st.hours {
		if hour < cutoff {
			delete(st.hours, hour)
		}
	}
	start := time.Unix(cutoff*secondsPerHour, 0)
	drop := sort.Search(len(st.timeline), func(i int) bool {
		return !st.timeline[i].reportedAt.Before(start)
	})
	for _, entry := range st.timeline[:drop] {
		delete(st.assigned, entry.id)
	}
	st.timeline = append([]timelineEntry(nil), st.timeline[drop:]...)
	st.prunedTo = cutoff
}

// WindowStart - начало окна: начало текущего часа минус hoursBack часов
func (en *Engine) WindowStart(hoursBack int) time.Time {
	return time.Unix((hourOf(en.now())-int64(hoursBack))*secondsPerHour, 0).UTC()
}

func (en *Engine) validateWindow(hoursBack int) error {
	if hoursBack <= 0 {
		return e.Invalid("hours", "must be a positive integer")
	}
	if hoursBack > en.retention {
		return e.Invalid("hours", fmt.Sprintf("must be at most %d", en.retention))
	}
	return nil
}

// StatsForWindow суммирует почасовые счетчики за окно без обхода записей
func (en *Engine) StatsForWindow(hoursBack int) (*Stats, error) {
	if err := en.validateWindow(hoursBack); err != nil {
		return nil, err
	}
	startHour := hourOf(en.now()) - int64(hoursBack)

	stats := &Stats{
		WindowHours:   hoursBack,
		ByType:        make(map[string]int),
		BySeverity:    make(map[string]int),
		ByArea:        make(map[string]int),
		TypeShare:     make(map[string]float64),
		SeverityShare: make(map[string]float64),
	}
	for hour, bucket := range en.st.hours {
		if hour < startHour {
			continue
		}
		for key, c := range bucket {
			n := c.Active + c.Resolved
			if n == 0 {
				continue
			}
			stats.Total += n
			stats.Active += c.Active
			stats.Resolved += c.Resolved
			stats.ByType[string(key.Type)] += n
			stats.BySeverity[string(key.Severity)] += n
			stats.ByArea[key.AreaID] += n
		}
	}
	for k, n := range stats.ByType {
		stats.TypeShare[k] = Share(n, stats.Total)
	}
	for k, n := range stats.BySeverity {
		stats.SeverityShare[k] = Share(n, stats.Total)
	}
	return stats, nil
}

// RecentIncidents возвращает записи того же окна, что и StatsForWindow,
// по убыванию reportedAt, при равенстве по возрастанию id
func (en *Engine) RecentIncidents(hoursBack int) ([]*models.Incident, error) {
	if err := en.validateWindow(hoursBack); err != nil {
		return nil, err
	}
	start := en.WindowStart(hoursBack)
	timeline := en.st.timeline
	from := sort.Search(len(timeline), func(i int) bool {
		return !timeline[i].reportedAt.Before(start)
	})

	out := make([]*models.Incident, 0, len(timeline)-from)
	for _, entry := range timeline[from:] {
		if incident, ok := en.lookup(entry.id); ok {
			out = append(out, incident.Clone())
		}
	}
	SortRecent(out)
	return out, nil
}

// SortRecent упорядочивает записи: reportedAt по убыванию, затем id по возрастанию
func SortRecent(incidents []*models.Incident) {
	sort.SliceStable(incidents, func(i, j int) bool {
		if !incidents[i].ReportedAt.Equal(incidents[j].ReportedAt) {
			return incidents[i].ReportedAt.After(incidents[j].ReportedAt)
		}
		return incidents[i].ID.String() < incidents[j].ID.String()
	})
}

// AreaIncidentCount - число инцидентов, отнесенных к зоне с последнего перестроения
func (en *Engine) AreaIncidentCount(areaID uuid.UUID) int {
	return en.st.areaTotals[areaID.String()]
}

// AreaOf возвращает зону, к которой отнесен инцидент
func (en *Engine) AreaOf(id uuid.UUID) (string, bool) {
	a, ok := en.st.assigned[id]
	if !ok {
		return "", false
	}
	return a.key.AreaID, true
}

// Rebuild пересчитывает счетчики с нуля. Новое состояние подменяет старое
// только при успешном завершении; отмена ctx оставляет прежнее состояние.
func (en *Engine) Rebuild(ctx context.Context, records []*models.Incident) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("aggregation: rebuild interrupted: %w", err)
	}
	st := newState()
	for i, incident := range records {
		if i > 0 && i%rebuildCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("aggregation: rebuild interrupted: %w", err)
			}
		}
		en.add(st, incident)
	}
	en.prune(st)
	en.st = st
	metrics.AggregationRebuilds.Inc()
	return nil
}
