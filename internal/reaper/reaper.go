// Package reaper periodically purges stale unverified accounts.
package reaper

import (
	"context"
	"log/slog"
	"time"

	"coffee-shop/backend/internal/account/repository"
)

// Result describes one reaper run. Err is set when the store call failed;
// the run is reported, never propagated, so one failure cannot cancel the
// schedule.
type Result struct {
	Deleted int64
	Cutoff  time.Time
	Err     error
}

// Reaper deletes unverified accounts older than the retention window. It is
// stateless and idempotent: re-running over the same data deletes nothing new.
type Reaper struct {
	repo      repository.Repository
	retention time.Duration
	interval  time.Duration
}

// New returns a Reaper with the given retention window and run interval.
func New(repo repository.Repository, retention, interval time.Duration) *Reaper {
	return &Reaper{repo: repo, retention: retention, interval: interval}
}

// RunOnce performs a single purge. The deletion is one store call whose
// predicate re-checks is_verified at delete time, so an account verified after
// the cutoff was computed is not removed.
func (r *Reaper) RunOnce(ctx context.Context) Result {
	cutoff := time.Now().UTC().Add(-r.retention)
	deleted, err := r.repo.DeleteUnverifiedBefore(ctx, cutoff)
	res := Result{Deleted: deleted, Cutoff: cutoff, Err: err}
	if err != nil {
		slog.ErrorContext(ctx, "reaper run failed", "cutoff", cutoff, "err", err)
		return res
	}
	slog.InfoContext(ctx, "reaper run complete", "deleted", deleted, "cutoff", cutoff)
	return res
}

// Run executes RunOnce on a fixed interval until ctx is canceled. A failed run
// is logged and the next tick proceeds normally.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("reaper started", "interval", r.interval, "retention", r.retention)
	for {
		select {
		case <-ctx.Done():
			slog.Info("reaper stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}
