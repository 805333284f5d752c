package source

import (
	"strings"

	"github.com/enough-md/resource-map/internal/model"
)

// LoadFoodBank reads a pre-merged food-bank partner feed (name + type).
// The feed's type label becomes the subtag and every row gets category
// "food_pantry". Both the Maryland Food Bank and Capital Area Food Bank
// feeds share this shape.
func LoadFoodBank(path string) ([]model.Point, int, error) {
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

		subtag := strings.TrimSpace(strProp(f.Properties, "type"))
		if subtag == "" {
			dropped++
			continue
		}

		points = append(points, model.Point{
			Name:     strProp(f.Properties, "name"),
			Category: model.CategoryFoodPantry,
			Subtag:   subtag,
			Geom:     pt,
		})
	}

	return points, dropped, nil
}
