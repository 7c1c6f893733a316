package spatial

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shenikar/incident_hub/internal/models"
)

// UpsertArea регистрирует или заменяет зону безопасности
func (ix *Index) UpsertArea(area *models.SecurityArea) {
	ix.areas[area.ID] = area.Clone()
}

func (ix *Index) Area(id uuid.UUID) (*models.SecurityArea, bool) {
	area, ok := ix.areas[id]
	if !ok {
		return nil, false
	}
	return area.Clone(), true
}

// Areas возвращает зоны, отсортированные по имени, затем по id
func (ix *Index) Areas() []*models.SecurityArea {
	out := make([]*models.SecurityArea, 0, len(ix.areas))
	for _, area := range ix.areas {
		out = append(out, area.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// NearestArea выбирает среди зон, в радиус которых попадает точка, ближайшую по центру.
// При равенстве выигрывает меньший радиус, затем меньший id.
func (ix *Index) NearestArea(lat, lng float64) (*models.SecurityArea, bool) {
	var (
		best     *models.SecurityArea
		bestDist float64
	)
	for _, area := range ix.areas {
		d := Haversine(area.Latitude, area.Longitude, lat, lng)
		if d > area.RadiusMeters {
			continue
		}
		if best == nil || closer(d, area, bestDist, best) {
			best, bestDist = area, d
		}
	}
	if best == nil {
		return nil, false
	}
	return best.Clone(), true
}

func closer(d float64, a *models.SecurityArea, bestDist float64, best *models.SecurityArea) bool {
	if d != bestDist {
		return d < bestDist
	}
	if a.RadiusMeters != best.RadiusMeters {
		return a.RadiusMeters < best.RadiusMeters
	}
	return a.ID.String() < best.ID.String()
}
