package model

import (
	"github.com/twpayne/go-geom"
)

// Region is one deduplicated grantee boundary region (a census tract).
// Geometry is the first-seen Polygon or MultiPolygon for the region ID;
// rows sharing an ID are assumed to carry congruent geometry.
type Region struct {
	ID            string // unique region key (GEOID20)
	Geom          geom.T // Polygon or MultiPolygon, WGS84
	Organizations string // "; "-joined distinct org names, first-appearance order
	TrackType     string // program track; empty means not eligible
}

// Eligible reports whether the region is program-eligible.
func (r *Region) Eligible() bool { return r.TrackType != "" }
