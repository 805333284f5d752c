package source

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// acceptedCRS are the legacy GeoJSON crs names treated as WGS84.
var acceptedCRS = map[string]bool{
	"urn:ogc:def:crs:OGC:1.3:CRS84": true,
	"urn:ogc:def:crs:EPSG::4326":    true,
	"EPSG:4326":                     true,
	"CRS84":                         true,
}

// ReadFeatureCollection loads a GeoJSON FeatureCollection from disk.
// Files declaring a legacy crs member other than WGS84 are rejected rather
// than silently joined in the wrong projection.
func ReadFeatureCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: read %s", path)
	}

	if err := checkCRS(data, path); err != nil {
		return nil, err
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "source: parse %s", path)
	}
	return &fc, nil
}

// checkCRS rejects a declared non-WGS84 coordinate reference system.
// RFC 7946 GeoJSON has no crs member and is WGS84 by definition.
func checkCRS(data []byte, path string) error {
	var probe struct {
		CRS *struct {
			Properties struct {
				Name string `json:"name"`
			} `json:"properties"`
		} `json:"crs"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return eris.Wrapf(err, "source: parse %s", path)
	}
	if probe.CRS == nil {
		return nil
	}
	name := strings.TrimSpace(probe.CRS.Properties.Name)
	if name == "" || acceptedCRS[name] {
		return nil
	}
	return eris.Errorf("source: %s declares unsupported CRS %q, reproject to WGS84 first", path, name)
}

// pointGeom extracts a point geometry from a feature, or nil if the feature
// has no geometry or a non-point geometry.
func pointGeom(g geom.T) *geom.Point {
	p, ok := g.(*geom.Point)
	if !ok || p == nil {
		return nil
	}
	return p
}

// strProp returns a string property, or "" when absent or not a string.
func strProp(props map[string]interface{}, key string) string {
	v, ok := props[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// boolProp returns a boolean property, or nil when absent or not a bool.
func boolProp(props map[string]interface{}, key string) *bool {
	v, ok := props[key]
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}

// floatProp returns a numeric property, or nil when absent or non-numeric.
func floatProp(props map[string]interface{}, key string) *float64 {
	v, ok := props[key]
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
