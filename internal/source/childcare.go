package source

import (
	"strings"

	"github.com/enough-md/resource-map/internal/model"
)

// LoadChildcare reads the childcare provider feed. The human-readable
// tag_label is lower-cased with spaces replaced by underscores to form the
// subtag; the nullable quality rating is carried verbatim.
func LoadChildcare(path string) ([]model.Point, int, error) {
	fc, err := ReadFeatureCollection(path)
	if err != nil {
		return nil, 0, err
	}

	var points []model.Point
	var dropped int
	for _, f := range fc.Features {
		pt := pointGeom(f.Geometry)
		if pt == nil {
			dropped++
			continue
		}

		subtag := subtagFromLabel(strProp(f.Properties, "tag_label"))
		if subtag == "" {
			dropped++
			continue
		}

		points = append(points, model.Point{
			Name:     strProp(f.Properties, "name"),
			Category: model.CategoryChildcare,
			Subtag:   subtag,
			Quality:  floatProp(f.Properties, "quality"),
			Geom:     pt,
		})
	}

	return points, dropped, nil
}

// subtagFromLabel turns a human-readable label into subtag form:
// "Child Care Center" -> "child_care_center".
func subtagFromLabel(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
}
