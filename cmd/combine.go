package main

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/enough-md/resource-map/internal/boundary"
	"github.com/enough-md/resource-map/internal/emit"
	"github.com/enough-md/resource-map/internal/source"
	"github.com/enough-md/resource-map/internal/spatial"
	"github.com/enough-md/resource-map/internal/store"
)

var (
	combineInput   string
	combineOutput  string
	combineSources string
	combineXLSX    bool
	combineRefresh bool
)

var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Normalize all sources, join against grantee boundaries, emit map assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		inputDir := combineInput
		if inputDir == "" {
			inputDir = cfg.InputDir
		}
		outputDir := combineOutput
		if outputDir == "" {
			outputDir = cfg.OutputDir
		}
		sourcesFile := combineSources
		if sourcesFile == "" {
			sourcesFile = cfg.SourcesFile
		}

		reg, err := source.LoadRegistry(sourcesFile)
		if err != nil {
			return err
		}

		catalog, run := startCatalogRun(ctx)
		if catalog != nil {
			defer catalog.Close() //nolint:errcheck
		}

		stats, err := runCombine(ctx, reg, inputDir, outputDir)
		if catalog != nil && run != nil {
			if ferr := catalog.FinishRun(ctx, run.ID, stats, err); ferr != nil {
				zap.L().Warn("failed to record run outcome", zap.Error(ferr))
			}
		}
		return err
	},
}

// startCatalogRun opens the run catalog and records a run start. The catalog
// is bookkeeping only, so failures degrade to a warning rather than aborting
// the pipeline.
func startCatalogRun(ctx context.Context) (store.Catalog, *store.Run) {
	catalog, err := store.NewSQLite(cfg.CatalogPath)
	if err != nil {
		zap.L().Warn("run catalog unavailable", zap.Error(err))
		return nil, nil
	}
	if err := catalog.Migrate(ctx); err != nil {
		zap.L().Warn("run catalog migration failed", zap.Error(err))
		catalog.Close() //nolint:errcheck
		return nil, nil
	}
	run, err := catalog.StartRun(ctx)
	if err != nil {
		zap.L().Warn("failed to record run start", zap.Error(err))
		catalog.Close() //nolint:errcheck
		return nil, nil
	}
	return catalog, run
}

func runCombine(ctx context.Context, reg source.Registry, inputDir, outputDir string) (*store.RunStats, error) {
	boundaryPath := filepath.Join(inputDir, reg.Boundary.File)
	// Only GeoJSON sources are fetchable; a shapefile boundary is always
	// a local file.
	if reg.Boundary.URL != "" && reg.Boundary.Format != "shapefile" {
		if err := boundary.Fetch(ctx, http.DefaultClient, reg.Boundary.URL, boundaryPath, combineRefresh); err != nil {
			return nil, err
		}
	}

	set, err := boundary.Load(boundaryPath, reg.Boundary)
	if err != nil {
		return nil, err
	}

	points, srcStats, err := source.Normalize(inputDir, reg)
	if err != nil {
		return nil, err
	}

	joined := spatial.Join(points, set)

	res, err := emit.Write(outputDir, joined, set.Eligible(), emit.Options{XLSX: combineXLSX})
	if err != nil {
		return nil, err
	}

	stats := &store.RunStats{
		OutsideCoverage: len(points) - len(joined),
		Regions:         len(set.All()),
		EligibleRegions: len(set.Eligible()),
		GranteePoints:   res.GranteePoints,
		Files:           res.Files,
		SourceDrops:     make(map[string]int, len(srcStats)),
	}
	for name, s := range srcStats {
		stats.PointsLoaded += s.Loaded
		stats.PointsDropped += s.Dropped
		if s.Dropped > 0 {
			stats.SourceDrops[name] = s.Dropped
		}
	}

	zap.L().Info("combine complete",
		zap.Int("points", stats.PointsLoaded),
		zap.Int("outside_coverage", stats.OutsideCoverage),
		zap.Int("grantee_points", stats.GranteePoints),
		zap.Int("files", len(stats.Files)),
	)
	return stats, nil
}

func init() {
	combineCmd.Flags().StringVar(&combineInput, "input", "", "input directory (default from config)")
	combineCmd.Flags().StringVar(&combineOutput, "output", "", "output directory (default from config)")
	combineCmd.Flags().StringVar(&combineSources, "sources", "", "source registry file (default from config)")
	combineCmd.Flags().BoolVar(&combineXLSX, "xlsx", false, "also write the grantee point extract as XLSX")
	combineCmd.Flags().BoolVar(&combineRefresh, "refresh-boundaries", false, "re-download boundary data even if cached")
	rootCmd.AddCommand(combineCmd)
}
