package storage

import (
	"context"
	"time"

	"prguard/internal/check"
)

// Run is one persisted evaluation of a pull request.
type Run struct {
	ID        int64
	Repo      string
	Number    int
	Status    check.Status
	Total     int
	Failed    int
	Exempt    string
	CreatedAt time.Time
}

// HistoryStore persists check runs and their results.
type HistoryStore interface {
	// SaveRun stores a run and its results in order, returning the new run ID.
	SaveRun(ctx context.Context, run Run, results []check.Result) (int64, error)

	// ListRuns returns the most recent runs first. An empty repo lists every repository.
	ListRuns(ctx context.Context, repo string, limit int) ([]Run, error)

	// LoadResults returns the results of a run in recorded order.
	LoadResults(ctx context.Context, runID int64) ([]check.Result, error)

	Close() error
}
