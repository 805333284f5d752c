// Package store keeps a local catalog of pipeline runs so past results can
// be listed and compared without re-reading the output directory.
package store

import (
	"context"
	"time"
)

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunStats summarizes what a completed run produced.
type RunStats struct {
	PointsLoaded    int            `json:"points_loaded"`
	PointsDropped   int            `json:"points_dropped"`
	OutsideCoverage int            `json:"outside_coverage"`
	Regions         int            `json:"regions"`
	EligibleRegions int            `json:"eligible_regions"`
	GranteePoints   int            `json:"grantee_points"`
	Files           []string       `json:"files"`
	SourceDrops     map[string]int `json:"source_drops,omitempty"`
}

// Run is one recorded pipeline execution.
type Run struct {
	ID         string
	Status     RunStatus
	Stats      *RunStats
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// RunFilter narrows ListRuns. A zero filter returns the most recent runs.
type RunFilter struct {
	Status RunStatus
	Limit  int
}

// Catalog records pipeline runs.
type Catalog interface {
	Migrate(ctx context.Context) error
	StartRun(ctx context.Context) (*Run, error)
	FinishRun(ctx context.Context, runID string, stats *RunStats, runErr error) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)
	Close() error
}
