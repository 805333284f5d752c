package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/enough-md/resource-map/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "resource-map",
	Short: "Community resource map data pipeline",
	Long:  "Normalizes point-of-interest feeds, joins them against grantee census tract boundaries, and emits the GeoJSON and CSV assets behind the resource map.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
