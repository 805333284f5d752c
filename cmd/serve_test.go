package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAssets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("financial.geojson", `{"type":"FeatureCollection","features":[{}, {}]}`)
	write("childcare.geojson", `{"type":"FeatureCollection","features":[{}]}`)
	write("grantees.geojson", `{"type":"FeatureCollection","features":[{}]}`)
	write("grantee_points.csv", "name,type\n")

	return dir
}

func TestListCategories(t *testing.T) {
	cats, err := listCategories(writeAssets(t))
	require.NoError(t, err)
	require.Len(t, cats, 2, "boundary file and CSV are not categories")

	byName := map[string]categoryInfo{}
	for _, c := range cats {
		byName[c.Category] = c
	}
	assert.Equal(t, 2, byName["financial"].Features)
	assert.Equal(t, 1, byName["childcare"].Features)
	assert.Equal(t, "financial.geojson", byName["financial"].File)
}

func TestRouter_Healthz(t *testing.T) {
	srv := httptest.NewServer(newRouter(writeAssets(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_Categories(t *testing.T) {
	srv := httptest.NewServer(newRouter(writeAssets(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/categories")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cats []categoryInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cats))
	assert.Len(t, cats, 2)
}

func TestRouter_ServesAssets(t *testing.T) {
	srv := httptest.NewServer(newRouter(writeAssets(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/financial.geojson")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
