package emit

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/enough-md/resource-map/internal/model"
)

func TestLabel(t *testing.T) {
	assert.Equal(t, "Food Pantry", Label("food_pantry"))
	assert.Equal(t, "Credit Union", Label("credit_union"))
	assert.Equal(t, "Bank", Label("bank"))
	assert.Equal(t, "", Label(""))
}

func joinedPoint(name string, cat model.Category, subtag, regionID string, grantee bool) model.JoinedPoint {
	return model.JoinedPoint{
		Point: model.Point{
			Name:     name,
			Category: cat,
			Subtag:   subtag,
			Geom:     geom.NewPointFlat(geom.XY, []float64{-76.61, 39.29}),
		},
		RegionID: regionID,
		Grantee:  grantee,
	}
}

func eligibleRegion(id string) model.Region {
	poly := geom.NewPolygon(geom.XY)
	_ = poly.Push(geom.NewLinearRingFlat(geom.XY, []float64{0, 0, 1, 0, 1, 1, 0, 1, 0, 0}))
	return model.Region{ID: id, Geom: poly, Organizations: "Org A; Org B", TrackType: "Track 1"}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()

	q := 3.0
	joined := []model.JoinedPoint{
		joinedPoint("Food Hub", model.CategoryCommunityResource, "food_access", "100", true),
		joinedPoint("Harbor CU", model.CategoryFinancial, "credit_union", "", false),
		{
			Point: model.Point{
				Name:     "Little Steps",
				Category: model.CategoryChildcare,
				Subtag:   "child_care_center",
				Quality:  &q,
				Geom:     geom.NewPointFlat(geom.XY, []float64{-76.62, 39.30}),
			},
			RegionID: "100",
			Grantee:  true,
		},
	}

	res, err := Write(dir, joined, []model.Region{eligibleRegion("100")}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.GranteePoints)

	// CSV, three category files, boundary file.
	assert.Len(t, res.Files, 5)
	for _, name := range []string{
		"grantee_points.csv",
		"community_resource.geojson",
		"financial.geojson",
		"childcare.geojson",
		"grantees.geojson",
	} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.NoFileExists(t, filepath.Join(dir, "food_pantry.geojson"), "absent category gets no file")
	assert.NoFileExists(t, filepath.Join(dir, "grantee_points.xlsx"))
}

func TestWrite_CSVRows(t *testing.T) {
	dir := t.TempDir()

	joined := []model.JoinedPoint{
		joinedPoint("Food Hub", model.CategoryCommunityResource, "food_access", "100", true),
		joinedPoint("Not Grantee", model.CategoryCommunityResource, "food_access", "", false),
	}

	_, err := Write(dir, joined, nil, Options{})
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "grantee_points.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2, "header plus the single grantee row")

	assert.Equal(t, csvHeader(), records[0])

	row := records[1]
	assert.Equal(t, "Food Hub", row[0])
	assert.Equal(t, "community_resource", row[1])
	assert.Equal(t, "food_access", row[2])
	assert.Equal(t, "Community Resource", row[3])
	assert.Equal(t, "Food Access", row[4])
	assert.Equal(t, "", row[5], "quality is empty outside childcare")
	assert.Equal(t, "100", row[len(row)-4])
	assert.Equal(t, "true", row[len(row)-3])
	assert.Equal(t, "-76.61", row[len(row)-2])
	assert.Equal(t, "39.29", row[len(row)-1])
}

func TestWrite_EmptyInput(t *testing.T) {
	dir := t.TempDir()

	res, err := Write(dir, nil, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.GranteePoints)

	// Header-only CSV.
	data, err := os.ReadFile(filepath.Join(dir, "grantee_points.csv"))
	require.NoError(t, err)
	f, err := os.Open(filepath.Join(dir, "grantee_points.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotEmpty(t, data)

	// Boundary file is still written, with zero features.
	bdata, err := os.ReadFile(filepath.Join(dir, "grantees.geojson"))
	require.NoError(t, err)
	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal(bdata, &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Empty(t, fc.Features)
}

func TestWrite_CategoryFeatureProperties(t *testing.T) {
	dir := t.TempDir()

	joined := []model.JoinedPoint{
		joinedPoint("", model.CategoryCommunityResource, "food_access", "100", true),
	}

	_, err := Write(dir, joined, nil, Options{})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "community_resource.geojson"))
	require.NoError(t, err)

	var fc struct {
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &fc))
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, "Point", f.Geometry.Type)
	assert.InDelta(t, -76.61, f.Geometry.Coordinates[0], 1e-9)

	props := f.Properties
	assert.Nil(t, props["name"], "empty name is emitted as null")
	assert.Equal(t, "community_resource", props["type"])
	assert.Equal(t, "Food Access", props["tag_label"])
	assert.Equal(t, true, props["grantee"])
	assert.Equal(t, "100", props["GEOID20"])
	assert.NotContains(t, props, "quality", "quality only appears on childcare")
	assert.NotContains(t, props, "isMdi", "flags only appear on financial")
}

func TestWrite_Deterministic(t *testing.T) {
	q := 3.0
	joined := []model.JoinedPoint{
		joinedPoint("Food Hub", model.CategoryCommunityResource, "food_access", "100", true),
		joinedPoint("Harbor CU", model.CategoryFinancial, "credit_union", "", false),
		{
			Point: model.Point{
				Name:     "Little Steps",
				Category: model.CategoryChildcare,
				Subtag:   "child_care_center",
				Quality:  &q,
				Geom:     geom.NewPointFlat(geom.XY, []float64{-76.62, 39.30}),
			},
			RegionID: "100",
			Grantee:  true,
		},
	}
	eligible := []model.Region{eligibleRegion("100")}

	dirA, dirB := t.TempDir(), t.TempDir()

	resA, err := Write(dirA, joined, eligible, Options{})
	require.NoError(t, err)
	resB, err := Write(dirB, joined, eligible, Options{})
	require.NoError(t, err)

	require.Len(t, resB.Files, len(resA.Files))
	for i, pathA := range resA.Files {
		name := filepath.Base(pathA)
		assert.Equal(t, name, filepath.Base(resB.Files[i]), "file order differs")

		a, err := os.ReadFile(pathA)
		require.NoError(t, err)
		b, err := os.ReadFile(resB.Files[i])
		require.NoError(t, err)
		assert.Equal(t, a, b, "%s differs between runs", name)
	}
}

func TestWrite_XLSX(t *testing.T) {
	dir := t.TempDir()

	joined := []model.JoinedPoint{
		joinedPoint("Food Hub", model.CategoryCommunityResource, "food_access", "100", true),
	}

	res, err := Write(dir, joined, nil, Options{XLSX: true})
	require.NoError(t, err)
	assert.Contains(t, res.Files, filepath.Join(dir, "grantee_points.xlsx"))
	assert.FileExists(t, filepath.Join(dir, "grantee_points.xlsx"))
}
