// Package boundary loads the grantee census-tract polygons, deduplicates
// them by region ID, aggregates per-region attributes, and exposes the
// eligible subset used as join targets.
package boundary

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/enough-md/resource-map/internal/model"
	"github.com/enough-md/resource-map/internal/source"
)

// Set holds the deduplicated boundary regions. Both slices are sorted by
// ascending region ID, which doubles as the deterministic tie-break order
// for the spatial join.
type Set struct {
	all      []model.Region
	eligible []model.Region
}

// All returns every deduplicated region, eligible or not. The full set is
// the containment mask: points outside it are dropped from all output.
func (s *Set) All() []model.Region { return s.all }

// Eligible returns the program-eligible regions (non-empty track type).
func (s *Set) Eligible() []model.Region { return s.eligible }

// EligibleIDs returns the set of eligible region IDs.
func (s *Set) EligibleIDs() map[string]bool {
	ids := make(map[string]bool, len(s.eligible))
	for _, r := range s.eligible {
		ids[r.ID] = true
	}
	return ids
}

// NewSet builds a Set from already-deduplicated regions. Regions are sorted
// by ID and the eligible subset is derived.
func NewSet(regions []model.Region) *Set {
	set := &Set{all: regions}
	sort.Slice(set.all, func(i, j int) bool { return set.all[i].ID < set.all[j].ID })
	for _, r := range set.all {
		if r.Eligible() {
			set.eligible = append(set.eligible, r)
		}
	}
	return set
}

// rawRow is one row of the raw boundary source before deduplication.
// The raw feed has one row per contributing organization, so region IDs
// repeat.
type rawRow struct {
	id    string
	org   string
	track string
	geom  geom.T
}

// Load reads the boundary source in the registry's declared format.
func Load(path string, src source.BoundarySource) (*Set, error) {
	var rows []rawRow
	var err error
	switch src.Format {
	case "", "geojson":
		rows, err = loadGeoJSON(path, src)
	case "shapefile":
		rows, err = loadShapefile(path, src)
	default:
		return nil, eris.Errorf("boundary: unknown format %q", src.Format)
	}
	if err != nil {
		return nil, err
	}
	return build(rows), nil
}

func loadGeoJSON(path string, src source.BoundarySource) ([]rawRow, error) {
	fc, err := source.ReadFeatureCollection(path)
	if err != nil {
		return nil, err
	}

	rows := make([]rawRow, 0, len(fc.Features))
	for _, f := range fc.Features {
		var g geom.T
		switch t := f.Geometry.(type) {
		case *geom.Polygon, *geom.MultiPolygon:
			g = t
		}
		rows = append(rows, rawRow{
			id:    strings.TrimSpace(stringProp(f.Properties, src.IDField)),
			org:   strings.TrimSpace(stringProp(f.Properties, src.OrgField)),
			track: strings.TrimSpace(stringProp(f.Properties, src.TrackField)),
			geom:  g,
		})
	}
	return rows, nil
}

func stringProp(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

// build deduplicates raw rows into regions: first-seen geometry per ID,
// "; "-joined distinct organization names in first-appearance order, and
// the first row's track type with a consistency warning on disagreement.
// IDs carrying only geometry or only attributes are counted and excluded.
func build(rows []rawRow) *Set {
	log := zap.L().With(zap.String("component", "boundary"))

	// First-seen geometry per region ID.
	geoms := make(map[string]geom.T)
	var order []string
	seen := make(map[string]bool)
	for _, row := range rows {
		if row.id == "" {
			continue
		}
		if !seen[row.id] {
			seen[row.id] = true
			order = append(order, row.id)
		}
		if _, ok := geoms[row.id]; !ok && row.geom != nil {
			geoms[row.id] = row.geom
		}
	}

	// Per-ID attribute aggregation.
	type agg struct {
		orgs  []string
		seen  map[string]bool
		track string
	}
	attrs := make(map[string]*agg, len(order))
	for _, row := range rows {
		if row.id == "" {
			continue
		}
		a := attrs[row.id]
		if a == nil {
			a = &agg{seen: make(map[string]bool), track: row.track}
			attrs[row.id] = a
		} else if row.track != a.track {
			log.Warn("inconsistent track type within region, keeping first",
				zap.String("region_id", row.id),
				zap.String("kept", a.track),
				zap.String("ignored", row.track),
			)
		}
		if row.org != "" && !a.seen[row.org] {
			a.seen[row.org] = true
			a.orgs = append(a.orgs, row.org)
		}
	}

	// Join geometry and attributes; count one-sided IDs instead of
	// silently discarding them.
	var unjoined int
	var regions []model.Region
	for _, id := range order {
		g, hasGeom := geoms[id]
		a := attrs[id]
		if !hasGeom || a == nil {
			unjoined++
			log.Warn("region excluded by geometry/attribute join",
				zap.String("region_id", id),
				zap.Bool("has_geometry", hasGeom),
			)
			continue
		}
		regions = append(regions, model.Region{
			ID:            id,
			Geom:          g,
			Organizations: strings.Join(a.orgs, "; "),
			TrackType:     a.track,
		})
	}

	set := NewSet(regions)

	log.Info("boundaries loaded",
		zap.Int("regions", len(set.all)),
		zap.Int("eligible", len(set.eligible)),
		zap.Int("unjoined", unjoined),
	)

	return set
}
