package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/enough-md/resource-map/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect pipeline run history",
	Long:  "Commands for listing and viewing recorded pipeline runs.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pipeline runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		catalog, err := openCatalog(ctx)
		if err != nil {
			return err
		}
		defer catalog.Close() //nolint:errcheck

		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := catalog.ListRuns(ctx, store.RunFilter{
			Status: store.RunStatus(status),
			Limit:  limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show full details of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		catalog, err := openCatalog(ctx)
		if err != nil {
			return err
		}
		defer catalog.Close() //nolint:errcheck

		run, err := catalog.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runDetail(run))
	},
}

func openCatalog(ctx context.Context) (store.Catalog, error) {
	catalog, err := store.NewSQLite(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	if err := catalog.Migrate(ctx); err != nil {
		catalog.Close() //nolint:errcheck
		return nil, err
	}
	return catalog, nil
}

// runDetail shapes a run for JSON display.
func runDetail(r *store.Run) map[string]any {
	detail := map[string]any{
		"id":         r.ID,
		"status":     r.Status,
		"started_at": r.StartedAt,
	}
	if r.FinishedAt != nil {
		detail["finished_at"] = *r.FinishedAt
		detail["duration"] = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
	}
	if r.Stats != nil {
		detail["stats"] = r.Stats
	}
	if r.Error != "" {
		detail["error"] = r.Error
	}
	return detail
}

// formatRunsList writes a tabular list of runs to w.
func formatRunsList(out io.Writer, runs []store.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTATUS\tSTARTED\tDURATION\tPOINTS\tGRANTEE")
	_, _ = fmt.Fprintln(w, "--\t------\t-------\t--------\t------\t-------")

	for _, r := range runs {
		dur := ""
		if r.FinishedAt != nil {
			dur = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
		}

		points, grantee := "", ""
		if r.Stats != nil {
			points = fmt.Sprintf("%d", r.Stats.PointsLoaded)
			grantee = fmt.Sprintf("%d", r.Stats.GranteePoints)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			truncateID(r.ID),
			r.Status,
			r.StartedAt.Format("2006-01-02 15:04"),
			dur,
			points,
			grantee,
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	runsListCmd.Flags().String("status", "", "filter by run status (running, complete, failed)")
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
