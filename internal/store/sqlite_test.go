package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *SQLiteCatalog {
	t.Helper()
	catalog, err := NewSQLite(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = catalog.Close() })
	require.NoError(t, catalog.Migrate(context.Background()))
	return catalog
}

func TestSQLiteCatalog_RunLifecycle(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t)

	run, err := catalog.StartRun(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)

	stats := &RunStats{
		PointsLoaded:  120,
		GranteePoints: 40,
		Files:         []string{"grantee_points.csv"},
		SourceDrops:   map[string]int{"childcare": 2},
	}
	require.NoError(t, catalog.FinishRun(ctx, run.ID, stats, nil))

	got, err := catalog.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusComplete, got.Status)
	assert.Empty(t, got.Error)
	require.NotNil(t, got.FinishedAt)
	require.NotNil(t, got.Stats)
	assert.Equal(t, 120, got.Stats.PointsLoaded)
	assert.Equal(t, map[string]int{"childcare": 2}, got.Stats.SourceDrops)
}

func TestSQLiteCatalog_FailedRun(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t)

	run, err := catalog.StartRun(ctx)
	require.NoError(t, err)

	require.NoError(t, catalog.FinishRun(ctx, run.ID, nil, eris.New("boundary fetch failed")))

	got, err := catalog.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, got.Status)
	assert.Contains(t, got.Error, "boundary fetch failed")
	assert.Nil(t, got.Stats)
}

func TestSQLiteCatalog_ListRuns(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t)

	first, err := catalog.StartRun(ctx)
	require.NoError(t, err)
	require.NoError(t, catalog.FinishRun(ctx, first.ID, &RunStats{}, nil))

	_, err = catalog.StartRun(ctx)
	require.NoError(t, err)

	all, err := catalog.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	complete, err := catalog.ListRuns(ctx, RunFilter{Status: RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, first.ID, complete[0].ID)

	limited, err := catalog.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteCatalog_FinishUnknownRun(t *testing.T) {
	catalog := newTestCatalog(t)

	err := catalog.FinishRun(context.Background(), "no-such-run", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteCatalog_GetUnknownRun(t *testing.T) {
	catalog := newTestCatalog(t)

	_, err := catalog.GetRun(context.Background(), "no-such-run")
	require.Error(t, err)
}
