package main

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/enough-md/resource-map/internal/boundary"
	"github.com/enough-md/resource-map/internal/db"
	"github.com/enough-md/resource-map/internal/postgis"
	"github.com/enough-md/resource-map/internal/source"
	"github.com/enough-md/resource-map/internal/spatial"
)

var (
	loadDSN     string
	loadInput   string
	loadSources string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load joined results into a PostGIS database",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dsn := loadDSN
		if dsn == "" {
			dsn = cfg.Database.URL
		}
		if dsn == "" {
			return eris.New("load: no database DSN (set --dsn or RESOURCEMAP_DATABASE_URL)")
		}
		inputDir := loadInput
		if inputDir == "" {
			inputDir = cfg.InputDir
		}
		sourcesFile := loadSources
		if sourcesFile == "" {
			sourcesFile = cfg.SourcesFile
		}

		reg, err := source.LoadRegistry(sourcesFile)
		if err != nil {
			return err
		}

		set, err := boundary.Load(filepath.Join(inputDir, reg.Boundary.File), reg.Boundary)
		if err != nil {
			return err
		}
		points, _, err := source.Normalize(inputDir, reg)
		if err != nil {
			return err
		}
		joined := spatial.Join(points, set)

		pool, err := db.Connect(ctx, dsn)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := postgis.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		nPoints, nGrantees, err := postgis.Load(ctx, pool, joined, set.Eligible())
		if err != nil {
			return err
		}

		zap.L().Info("load complete",
			zap.Int64("points", nPoints),
			zap.Int64("grantees", nGrantees),
		)
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadDSN, "dsn", "", "PostGIS connection string (default from config)")
	loadCmd.Flags().StringVar(&loadInput, "input", "", "input directory (default from config)")
	loadCmd.Flags().StringVar(&loadSources, "sources", "", "source registry file (default from config)")
	rootCmd.AddCommand(loadCmd)
}
