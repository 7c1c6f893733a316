package spatial

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/google/uuid"
	"github.com/shenikar/incident_hub/internal/metrics"
	"github.com/shenikar/incident_hub/internal/models"
)

const (
	// DefaultCellLevel - уровень S2 ячеек, около 1.3 км² на ячейку
	DefaultCellLevel = 13
	minCellLevel     = 4
	maxCellLevel     = 20

	// при большем покрытии выгоднее обойти занятые ячейки
	maxCoveringCells  = 4096
	rebuildCheckEvery = 1024
	capSlack          = s1.Angle(1e-9)
)

var validLat = r1.Interval{Lo: -math.Pi / 2, Hi: math.Pi / 2}

type Point struct {
	Lat float64
	Lng float64
}

type entry struct {
	cell  s2.CellID
	point Point
}

// Index - сетка S2 ячеек над точками инцидентов и реестр зон безопасности.
// Index не потокобезопасен, доступ сериализует store.
type Index struct {
	level  int
	cells  map[s2.CellID]map[uuid.UUID]Point
	points map[uuid.UUID]entry
	areas  map[uuid.UUID]*models.SecurityArea
}

func NewIndex(level int) *Index {
	if level == 0 {
		level = DefaultCellLevel
	}
	if level < minCellLevel {
		level = minCellLevel
	}
	if level > maxCellLevel {
		level = maxCellLevel
	}
	return &Index{
		level:  level,
		cells:  make(map[s2.CellID]map[uuid.UUID]Point),
		points: make(map[uuid.UUID]entry),
		areas:  make(map[uuid.UUID]*models.SecurityArea),
	}
}

func (ix *Index) cellFor(lat, lng float64) s2.CellID {
	return s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng)).Parent(ix.level)
}

// Insert добавляет точку; повторная вставка того же id перемещает её
func (ix *Index) Insert(id uuid.UUID, lat, lng float64) {
	ix.Remove(id)
	cell := ix.cellFor(lat, lng)
	bucket, ok := ix.cells[cell]
	if !ok {
		bucket = make(map[uuid.UUID]Point)
		ix.cells[cell] = bucket
	}
	p := Point{Lat: lat, Lng: lng}
	bucket[id] = p
	ix.points[id] = entry{cell: cell, point: p}
}

func (ix *Index) Remove(id uuid.UUID) bool {
	e, ok := ix.points[id]
	if !ok {
		return false
	}
	delete(ix.points, id)
	if bucket, ok := ix.cells[e.cell]; ok {
		delete(bucket, id)
		if len(bucket) == 0 {
			delete(ix.cells, e.cell)
		}
	}
	return true
}

func (ix *Index) Len() int {
	return len(ix.points)
}

// Reset очищает точки и зоны перед перестроением
func (ix *Index) Reset() {
	ix.cells = make(map[s2.CellID]map[uuid.UUID]Point)
	ix.points = make(map[uuid.UUID]entry)
	ix.areas = make(map[uuid.UUID]*models.SecurityArea)
}

// Apply реагирует на события журнала: новые инциденты попадают в сетку
func (ix *Index) Apply(event *models.Event) {
	if event.Kind == models.EventIncidentCreated && event.Incident != nil {
		ix.Insert(event.Incident.ID, event.Incident.Latitude, event.Incident.Longitude)
	}
}

// QueryRadius возвращает id точек, чье расстояние по гаверсинусу от центра не больше radiusMeters.
// Результат отсортирован по id.
func (ix *Index) QueryRadius(lat, lng, radiusMeters float64) []uuid.UUID {
	defer observe("radius", time.Now())
	if radiusMeters < 0 || len(ix.points) == 0 {
		return []uuid.UUID{}
	}

	center := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lng))
	region := s2.CapFromCenterAngle(center, s1.Angle(radiusMeters/EarthRadiusMeters)+capSlack)

	ids := make([]uuid.UUID, 0)
	for _, cell := range ix.candidateCells(region, region.Area()) {
		for id, p := range ix.cells[cell] {
			if Haversine(lat, lng, p.Lat, p.Lng) <= radiusMeters {
				ids = append(ids, id)
			}
		}
	}
	sortIDs(ids)
	return ids
}

// QueryBoundingBox возвращает id точек внутри прямоугольника.
// minLng > maxLng означает прямоугольник через антимеридиан.
func (ix *Index) QueryBoundingBox(minLat, minLng, maxLat, maxLng float64) []uuid.UUID {
	defer observe("bbox", time.Now())
	if len(ix.points) == 0 || minLat > maxLat {
		return []uuid.UUID{}
	}

	lo := s2.LatLngFromDegrees(minLat, minLng)
	hi := s2.LatLngFromDegrees(maxLat, maxLng)
	// запас на погрешность на границах; широта не выходит за полюса,
	// долгота при охвате всего круга становится полным интервалом
	region := s2.Rect{
		Lat: r1.Interval{Lo: lo.Lat.Radians(), Hi: hi.Lat.Radians()}.
			Expanded(capSlack.Radians()).
			Intersection(validLat),
		Lng: s1.IntervalFromEndpoints(lo.Lng.Radians(), hi.Lng.Radians()).
			Expanded(capSlack.Radians()),
	}

	ids := make([]uuid.UUID, 0)
	for _, cell := range ix.candidateCells(region, region.Area()) {
		for id, p := range ix.cells[cell] {
			if p.Lat >= minLat && p.Lat <= maxLat && inLngRange(p.Lng, minLng, maxLng) {
				ids = append(ids, id)
			}
		}
	}
	sortIDs(ids)
	return ids
}

// candidateCells возвращает занятые ячейки, которые могут пересекаться с регионом
func (ix *Index) candidateCells(region s2.Region, area float64) []s2.CellID {
	estimate := area / s2.AvgAreaMetric.Value(ix.level)
	if estimate > maxCoveringCells || estimate > float64(len(ix.cells)) {
		occupied := make([]s2.CellID, 0, len(ix.cells))
		for cell := range ix.cells {
			occupied = append(occupied, cell)
		}
		return occupied
	}

	coverer := &s2.RegionCoverer{MinLevel: ix.level, MaxLevel: ix.level, MaxCells: maxCoveringCells}
	covering := coverer.Covering(region)

	seen := make(map[s2.CellID]struct{}, len(covering))
	out := make([]s2.CellID, 0, len(covering))
	add := func(cell s2.CellID) {
		if _, ok := ix.cells[cell]; !ok {
			return
		}
		if _, dup := seen[cell]; dup {
			return
		}
		seen[cell] = struct{}{}
		out = append(out, cell)
	}
	for _, cell := range covering {
		if cell.Level() >= ix.level {
			add(cell.Parent(ix.level))
			continue
		}
		end := cell.ChildEndAtLevel(ix.level)
		for child := cell.ChildBeginAtLevel(ix.level); child != end; child = child.Next() {
			add(child)
		}
	}
	return out
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
}

func observe(query string, started time.Time) {
	metrics.SpatialQueryDuration.WithLabelValues(query).Observe(time.Since(started).Seconds())
}

// Rebuild строит сетку и реестр зон заново и подменяет их только при успехе
func (ix *Index) Rebuild(ctx context.Context, areas []*models.SecurityArea, records []*models.Incident) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("spatial: rebuild interrupted: %w", err)
	}
	fresh := NewIndex(ix.level)
	for _, area := range areas {
		fresh.UpsertArea(area)
	}
	for i, incident := range records {
		if i > 0 && i%rebuildCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("spatial: rebuild interrupted: %w", err)
			}
		}
		fresh.Insert(incident.ID, incident.Latitude, incident.Longitude)
	}
	ix.cells, ix.points, ix.areas = fresh.cells, fresh.points, fresh.areas
	return nil
}
