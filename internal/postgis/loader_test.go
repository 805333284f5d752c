package postgis

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/enough-md/resource-map/internal/model"
)

func testJoined() []model.JoinedPoint {
	tr := true
	return []model.JoinedPoint{
		{
			Point: model.Point{
				Name:     "Harbor CU",
				Category: model.CategoryFinancial,
				Subtag:   "credit_union",
				Flags:    model.FlagSet{"isMainOffice": &tr},
				Geom:     geom.NewPointFlat(geom.XY, []float64{-76.61, 39.29}),
			},
			RegionID: "100",
			Grantee:  true,
		},
	}
}

func testEligible() []model.Region {
	poly := geom.NewPolygon(geom.XY)
	_ = poly.Push(geom.NewLinearRingFlat(geom.XY, []float64{0, 0, 1, 0, 1, 1, 0, 1, 0, 0}))
	return []model.Region{
		{ID: "100", Geom: poly, Organizations: "Org A", TrackType: "Track 1"},
	}
}

func TestEnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer mock.Close()

	for _, stmt := range schemaStatements {
		mock.ExpectExec(stmt).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	}

	require.NoError(t, EnsureSchema(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer mock.Close()

	// The two tables load concurrently.
	mock.MatchExpectationsInOrder(false)
	mock.ExpectExec(`TRUNCATE resource_map.points`).WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))
	mock.ExpectExec(`TRUNCATE resource_map.grantees`).WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"resource_map", "points"}, pointColumns).WillReturnResult(1)
	mock.ExpectCopyFrom(pgx.Identifier{"resource_map", "grantees"}, granteeColumns).WillReturnResult(1)

	nPoints, nGrantees, err := Load(context.Background(), mock, testJoined(), testEligible())
	require.NoError(t, err)
	assert.Equal(t, int64(1), nPoints)
	assert.Equal(t, int64(1), nGrantees)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEncodePoints(t *testing.T) {
	rows, err := encodePoints(testJoined())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	require.Len(t, row, len(pointColumns))
	assert.Equal(t, "Harbor CU", row[0])
	assert.Equal(t, "financial", row[1])
	assert.Equal(t, "credit_union", row[2])
	assert.Nil(t, row[3], "quality")
	assert.JSONEq(t, `{"isMainOffice": true}`, row[4].(string))
	assert.Equal(t, "100", row[5])
	assert.Equal(t, true, row[6])
	assert.NotEmpty(t, row[7], "EWKB geometry bytes")
}

func TestEncodeGrantees_PromotesPolygon(t *testing.T) {
	rows, err := encodeGrantees(testEligible())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "100", row[0])
	assert.Equal(t, "Org A", row[1])
	assert.Equal(t, "Track 1", row[2])
	assert.NotEmpty(t, row[3])
}

func TestAsMultiPolygon_RejectsPoint(t *testing.T) {
	_, err := asMultiPolygon(geom.NewPointFlat(geom.XY, []float64{0, 0}))
	require.Error(t, err)
}
