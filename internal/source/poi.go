package source

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/enough-md/resource-map/internal/model"
)

// poiColumns are the required headers of the community-resource CSV.
var poiColumns = []string{"name", "type", "tag", "lat", "lng"}

// LoadPOI reads the community-resource CSV (name,type,tag,lat,lng).
// Category and subtag are carried verbatim from the file; rows with
// unparseable coordinates or an empty tag are dropped and counted.
func LoadPOI(path string) ([]model.Point, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, eris.Wrapf(err, "source: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, eris.Wrapf(err, "source: read header of %s", path)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(col)] = i
	}
	for _, col := range poiColumns {
		if _, ok := idx[col]; !ok {
			return nil, 0, eris.Errorf("source: %s is missing required column %q", path, col)
		}
	}

	var points []model.Point
	var dropped int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, eris.Wrapf(err, "source: read row of %s", path)
		}

		get := func(col string) string {
			i := idx[col]
			if i >= len(record) {
				return ""
			}
			return record[i]
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(get("lat")), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(get("lng")), 64)
		if latErr != nil || lngErr != nil {
			dropped++
			continue
		}

		category := strings.TrimSpace(get("type"))
		subtag := strings.TrimSpace(get("tag"))
		if category == "" || subtag == "" {
			dropped++
			continue
		}

		points = append(points, model.Point{
			Name:     get("name"),
			Category: model.Category(category),
			Subtag:   subtag,
			Geom:     geom.NewPointFlat(geom.XY, []float64{lng, lat}).SetSRID(4326),
		})
	}

	return points, dropped, nil
}
