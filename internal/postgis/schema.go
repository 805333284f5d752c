// Package postgis exports pipeline results to a PostGIS database so they
// can be queried and styled outside the static site.
package postgis

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/enough-md/resource-map/internal/db"
)

// Schema is the schema all exported tables live in.
const Schema = "resource_map"

var schemaStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS resource_map`,
	`CREATE TABLE IF NOT EXISTS resource_map.points (
		id        BIGSERIAL PRIMARY KEY,
		name      TEXT,
		type      TEXT NOT NULL,
		tag       TEXT NOT NULL,
		quality   DOUBLE PRECISION,
		flags     JSONB,
		geoid20   TEXT,
		grantee   BOOLEAN NOT NULL,
		geom      geometry(Point, 4326) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS resource_map.grantees (
		geoid20           TEXT PRIMARY KEY,
		organization_name TEXT NOT NULL,
		goc_track_type    TEXT NOT NULL,
		geom              geometry(MultiPolygon, 4326) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_points_geom ON resource_map.points USING GIST (geom)`,
	`CREATE INDEX IF NOT EXISTS idx_points_type ON resource_map.points (type)`,
	`CREATE INDEX IF NOT EXISTS idx_grantees_geom ON resource_map.grantees USING GIST (geom)`,
}

// EnsureSchema creates the schema, tables, and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool db.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return eris.Wrap(err, "postgis: ensure schema")
		}
	}
	return nil
}
