package boundary

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/enough-md/resource-map/internal/source"
)

// loadShapefile reads the boundary source from an Esri shapefile. The .prj
// is not parsed; coordinates are assumed to already be EPSG:4326.
func loadShapefile(path string, src source.BoundarySource) ([]rawRow, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	idIdx := fieldIndex(reader, src.IDField)
	orgIdx := fieldIndex(reader, src.OrgField)
	trackIdx := fieldIndex(reader, src.TrackField)
	if idIdx < 0 {
		return nil, eris.Errorf("boundary: shapefile %s is missing field %q", path, src.IDField)
	}

	var rows []rawRow
	for reader.Next() {
		_, shape := reader.Shape()

		row := rawRow{
			id: strings.TrimSpace(reader.Attribute(idIdx)),
		}
		if orgIdx >= 0 {
			row.org = strings.TrimSpace(reader.Attribute(orgIdx))
		}
		if trackIdx >= 0 {
			row.track = strings.TrimSpace(reader.Attribute(trackIdx))
		}
		if poly, ok := shape.(*shp.Polygon); ok {
			row.geom = polygonToMultiPolygon(poly)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// fieldIndex returns the index of a named field in the shapefile, or -1 if not found.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon.
func polygonToMultiPolygon(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			continue
		}
		if err := mp.Push(poly); err != nil {
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
