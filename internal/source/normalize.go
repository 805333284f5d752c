package source

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/enough-md/resource-map/internal/model"
)

// Stat counts the outcome of loading one raw source.
type Stat struct {
	Loaded  int `json:"loaded"`
	Dropped int `json:"dropped"`
}

// Stats maps source name to its load outcome.
type Stats map[string]Stat

// loaderFunc reads one raw source file into canonical points.
type loaderFunc func(path string) ([]model.Point, int, error)

// Normalize loads every raw source and concatenates the canonical points in
// fixed order: POI, FDIC, NCUA, childcare, Maryland Food Bank, Capital Area
// Food Bank. A missing file or missing required column aborts with an error
// naming the source; per-row geometry failures are dropped and counted.
func Normalize(inputDir string, reg Registry) ([]model.Point, Stats, error) {
	log := zap.L().With(zap.String("component", "source"))

	sources := []struct {
		name string
		file string
		load loaderFunc
	}{
		{"poi", reg.POI, LoadPOI},
		{"fdic", reg.FDIC, LoadFDIC},
		{"ncua", reg.NCUA, LoadNCUA},
		{"childcare", reg.Childcare, LoadChildcare},
		{"maryland_food_bank", reg.MarylandFoodBank, LoadFoodBank},
		{"capital_area_food_bank", reg.CapitalAreaFoodBank, LoadFoodBank},
	}

	var all []model.Point
	stats := make(Stats, len(sources))
	for _, src := range sources {
		path := filepath.Join(inputDir, src.file)
		points, dropped, err := src.load(path)
		if err != nil {
			return nil, nil, err
		}

		if dropped > 0 {
			log.Warn("dropped rows without usable geometry or subtag",
				zap.String("source", src.name),
				zap.Int("dropped", dropped),
			)
		}
		log.Info("source normalized",
			zap.String("source", src.name),
			zap.Int("points", len(points)),
		)

		stats[src.name] = Stat{Loaded: len(points), Dropped: dropped}
		all = append(all, points...)
	}

	return all, stats, nil
}
