package boundary

import (
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twpayne/go-geom"
)

func TestPolygonToMultiPolygon(t *testing.T) {
	// Two-part polygon: two unit squares.
	p := &shp.Polygon{
		NumParts:  2,
		NumPoints: 10,
		Parts:     []int32{0, 5},
		Points: []shp.Point{
			{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0},
			{X: 2, Y: 0}, {X: 2, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 0}, {X: 2, Y: 0},
		},
	}

	g := polygonToMultiPolygon(p)
	require.NotNil(t, g)

	mp, ok := g.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 2, mp.NumPolygons())
	assert.Equal(t, 4326, mp.SRID())

	first := mp.Polygon(0)
	require.Equal(t, 1, first.NumLinearRings())
	assert.Equal(t, []float64{0, 0, 0, 1, 1, 1, 1, 0, 0, 0}, first.LinearRing(0).FlatCoords())
}

func TestPolygonToMultiPolygon_Empty(t *testing.T) {
	assert.Nil(t, polygonToMultiPolygon(nil))
	assert.Nil(t, polygonToMultiPolygon(&shp.Polygon{}))
}
