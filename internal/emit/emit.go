package emit

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/enough-md/resource-map/internal/model"
)

// Options configures an emit pass.
type Options struct {
	XLSX bool // also write the tabular extract as an XLSX workbook
}

// Result reports what an emit pass wrote.
type Result struct {
	Files         []string `json:"files"`
	GranteePoints int      `json:"grantee_points"`
}

// Write produces all output files in outDir: grantee_points.csv (eligible
// points only, header always present), one <category>.geojson per category
// present in the joined set (eligible and ineligible points alike; no file
// for an absent category), and grantees.geojson with the eligible regions.
func Write(outDir string, joined []model.JoinedPoint, eligible []model.Region, opts Options) (*Result, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "emit: create output dir %s", outDir)
	}
	log := zap.L().With(zap.String("component", "emit"))
	res := &Result{}

	// Tabular extract of grantee points.
	var grantee []model.JoinedPoint
	for _, jp := range joined {
		if jp.Grantee {
			grantee = append(grantee, jp)
		}
	}
	res.GranteePoints = len(grantee)

	csvPath := filepath.Join(outDir, "grantee_points.csv")
	if err := writeCSV(csvPath, grantee); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, csvPath)
	log.Info("wrote tabular extract", zap.String("path", csvPath), zap.Int("rows", len(grantee)))

	if opts.XLSX {
		xlsxPath := filepath.Join(outDir, "grantee_points.xlsx")
		if err := writeXLSX(xlsxPath, grantee); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, xlsxPath)
		log.Info("wrote workbook extract", zap.String("path", xlsxPath))
	}

	// One GeoJSON per category, in first-appearance order.
	for _, cat := range categoryOrder(joined) {
		path := filepath.Join(outDir, string(cat)+".geojson")
		n, err := writeCategory(path, cat, joined)
		if err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)
		log.Info("wrote category file", zap.String("path", path), zap.Int("features", n))
	}

	// Eligible boundary file.
	boundaryPath := filepath.Join(outDir, "grantees.geojson")
	if err := writeBoundaries(boundaryPath, eligible); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, boundaryPath)
	log.Info("wrote boundary file", zap.String("path", boundaryPath), zap.Int("features", len(eligible)))

	return res, nil
}

// categoryOrder returns the distinct categories in first-appearance order.
func categoryOrder(joined []model.JoinedPoint) []model.Category {
	var order []model.Category
	seen := make(map[model.Category]bool)
	for _, jp := range joined {
		if !seen[jp.Category] {
			seen[jp.Category] = true
			order = append(order, jp.Category)
		}
	}
	return order
}

// writeCategory writes every point of one category, eligible or not.
func writeCategory(path string, cat model.Category, joined []model.JoinedPoint) (int, error) {
	fc := &geojson.FeatureCollection{}
	for i := range joined {
		jp := &joined[i]
		if jp.Category != cat {
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   jp.Geom,
			Properties: pointProperties(jp),
		})
	}
	return len(fc.Features), writeJSON(path, fc)
}

// pointProperties builds the output property map for one joined point,
// preserving the property names the downstream web map expects.
func pointProperties(jp *model.JoinedPoint) map[string]interface{} {
	props := map[string]interface{}{
		"type":       string(jp.Category),
		"tag":        jp.Subtag,
		"type_label": Label(string(jp.Category)),
		"tag_label":  Label(jp.Subtag),
		"grantee":    jp.Grantee,
	}

	if jp.Name != "" {
		props["name"] = jp.Name
	} else {
		props["name"] = nil
	}

	if jp.Category == model.CategoryChildcare {
		if jp.Quality != nil {
			props["quality"] = *jp.Quality
		} else {
			props["quality"] = nil
		}
	}

	if jp.Flags != nil {
		for _, key := range model.FinancialFlagKeys {
			if v := jp.Flags[key]; v != nil {
				props[key] = *v
			} else {
				props[key] = nil
			}
		}
	}

	if jp.RegionID != "" {
		props["GEOID20"] = jp.RegionID
	} else {
		props["GEOID20"] = nil
	}

	return props
}

// writeBoundaries writes the eligible regions with their aggregated
// attributes.
func writeBoundaries(path string, eligible []model.Region) error {
	fc := &geojson.FeatureCollection{}
	for i := range eligible {
		r := &eligible[i]
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: r.Geom,
			Properties: map[string]interface{}{
				"GEOID20":           r.ID,
				"ORGANIZATION_NAME": r.Organizations,
				"GOC_TRACK_TYPE":    r.TrackType,
			},
		})
	}
	return writeJSON(path, fc)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return eris.Wrapf(err, "emit: marshal %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "emit: write %s", path)
	}
	return nil
}
