package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enough-md/resource-map/internal/model"
)

const childcareFixture = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [-76.61, 39.29]},
			"properties": {"name": "Little Steps", "tag_label": "Child Care Center", "quality": 4}
		},
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [-76.62, 39.30]},
			"properties": {"name": "Family Home", "tag_label": "Family Child Care", "quality": null}
		},
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [-76.63, 39.31]},
			"properties": {"name": "No Label"}
		}
	]
}`

func TestLoadChildcare(t *testing.T) {
	path := writeFile(t, "childcare.geojson", childcareFixture)

	points, dropped, err := LoadChildcare(path)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped, "rows without a tag label are dropped")
	require.Len(t, points, 2)

	p := points[0]
	assert.Equal(t, "Little Steps", p.Name)
	assert.Equal(t, model.CategoryChildcare, p.Category)
	assert.Equal(t, "child_care_center", p.Subtag)
	require.NotNil(t, p.Quality)
	assert.InDelta(t, 4.0, *p.Quality, 1e-9)

	assert.Equal(t, "family_child_care", points[1].Subtag)
	assert.Nil(t, points[1].Quality)
}

func TestSubtagFromLabel(t *testing.T) {
	assert.Equal(t, "child_care_center", subtagFromLabel("Child Care Center"))
	assert.Equal(t, "head_start", subtagFromLabel("  Head Start "))
	assert.Equal(t, "", subtagFromLabel(""))
}
