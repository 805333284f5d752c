package postgis

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/enough-md/resource-map/internal/db"
	"github.com/enough-md/resource-map/internal/model"
)

var pointColumns = []string{"name", "type", "tag", "quality", "flags", "geoid20", "grantee", "geom"}

var granteeColumns = []string{"geoid20", "organization_name", "goc_track_type", "geom"}

// Load replaces the contents of both export tables with the given results.
// The two tables are loaded concurrently over the COPY protocol.
func Load(ctx context.Context, pool db.Pool, joined []model.JoinedPoint, eligible []model.Region) (int64, int64, error) {
	pointRows, err := encodePoints(joined)
	if err != nil {
		return 0, 0, err
	}
	granteeRows, err := encodeGrantees(eligible)
	if err != nil {
		return 0, 0, err
	}

	var nPoints, nGrantees int64
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if _, err := pool.Exec(gctx, `TRUNCATE resource_map.points`); err != nil {
			return eris.Wrap(err, "postgis: truncate points")
		}
		n, err := db.CopyFromSchema(gctx, pool, Schema, "points", pointColumns, pointRows)
		if err != nil {
			return err
		}
		nPoints = n
		return nil
	})
	g.Go(func() error {
		if _, err := pool.Exec(gctx, `TRUNCATE resource_map.grantees`); err != nil {
			return eris.Wrap(err, "postgis: truncate grantees")
		}
		n, err := db.CopyFromSchema(gctx, pool, Schema, "grantees", granteeColumns, granteeRows)
		if err != nil {
			return err
		}
		nGrantees = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	zap.L().Info("export loaded",
		zap.String("component", "postgis"),
		zap.Int64("points", nPoints),
		zap.Int64("grantees", nGrantees),
	)
	return nPoints, nGrantees, nil
}

func encodePoints(joined []model.JoinedPoint) ([][]any, error) {
	rows := make([][]any, 0, len(joined))
	for i := range joined {
		jp := &joined[i]

		geomBytes, err := ewkb.Marshal(jp.Geom.SetSRID(4326), ewkb.NDR)
		if err != nil {
			return nil, eris.Wrapf(err, "postgis: encode point %q", jp.Name)
		}

		var name any
		if jp.Name != "" {
			name = jp.Name
		}
		var quality any
		if jp.Quality != nil {
			quality = *jp.Quality
		}
		var flags any
		if jp.Flags != nil {
			data, err := json.Marshal(jp.Flags)
			if err != nil {
				return nil, eris.Wrapf(err, "postgis: encode flags of %q", jp.Name)
			}
			flags = string(data)
		}
		var regionID any
		if jp.RegionID != "" {
			regionID = jp.RegionID
		}

		rows = append(rows, []any{
			name,
			string(jp.Category),
			jp.Subtag,
			quality,
			flags,
			regionID,
			jp.Grantee,
			geomBytes,
		})
	}
	return rows, nil
}

func encodeGrantees(eligible []model.Region) ([][]any, error) {
	rows := make([][]any, 0, len(eligible))
	for i := range eligible {
		r := &eligible[i]

		mp, err := asMultiPolygon(r.Geom)
		if err != nil {
			return nil, eris.Wrapf(err, "postgis: region %s", r.ID)
		}
		geomBytes, err := ewkb.Marshal(mp.SetSRID(4326), ewkb.NDR)
		if err != nil {
			return nil, eris.Wrapf(err, "postgis: encode region %s", r.ID)
		}

		rows = append(rows, []any{
			r.ID,
			r.Organizations,
			r.TrackType,
			geomBytes,
		})
	}
	return rows, nil
}

// asMultiPolygon promotes a Polygon to a single-member MultiPolygon so the
// geometry column has one consistent type.
func asMultiPolygon(g geom.T) (*geom.MultiPolygon, error) {
	switch t := g.(type) {
	case *geom.MultiPolygon:
		return t, nil
	case *geom.Polygon:
		mp := geom.NewMultiPolygon(geom.XY)
		if err := mp.Push(t); err != nil {
			return nil, eris.Wrap(err, "promote polygon")
		}
		return mp, nil
	default:
		return nil, eris.Errorf("unsupported geometry type %T", g)
	}
}
