package spatial

import (
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/enough-md/resource-map/internal/boundary"
	"github.com/enough-md/resource-map/internal/model"
)

// Join filters points to those inside the boundary coverage and assigns
// each retained point its containing eligible region.
//
// Coverage means "within at least one boundary polygon, eligible or not",
// which is the same set as containment in the union of all boundary
// geometry.
// Points outside coverage are dropped from all downstream output.
//
// Eligible regions are scanned in ascending region-ID order, so when
// regions overlap the lowest ID wins deterministically. The grantee flag
// re-checks membership in the eligible ID set rather than trusting that
// the scan only visited eligible regions.
func Join(points []model.Point, set *boundary.Set) []model.JoinedPoint {
	eligibleIDs := set.EligibleIDs()

	joined := make([]model.JoinedPoint, 0, len(points))
	var outside int
	for _, p := range points {
		if !inCoverage(set.All(), p.Geom) {
			outside++
			continue
		}

		var regionID string
		for _, r := range set.Eligible() {
			if Contains(r.Geom, p.Geom) {
				regionID = r.ID
				break
			}
		}

		joined = append(joined, model.JoinedPoint{
			Point:    p,
			RegionID: regionID,
			Grantee:  regionID != "" && eligibleIDs[regionID],
		})
	}

	zap.L().Info("spatial join complete",
		zap.String("component", "spatial"),
		zap.Int("points_in", len(points)),
		zap.Int("outside_coverage", outside),
		zap.Int("joined", len(joined)),
	)

	return joined
}

func inCoverage(regions []model.Region, pt *geom.Point) bool {
	for i := range regions {
		if Contains(regions[i].Geom, pt) {
			return true
		}
	}
	return false
}
