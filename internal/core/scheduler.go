package core

// scheduler.go refreshes the master list on a fixed interval while the
// server runs. A failed scheduled run is logged and recorded in the history;
// the scheduler keeps going.

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// StartScheduler runs the pipeline every interval until ctx is cancelled.
// The first run happens after one interval, not at startup. A non-positive
// interval disables scheduling and returns immediately.
func (s *Service) StartScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	slog.Info("run scheduler started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("run scheduler stopped")
			return
		case <-ticker.C:
			s.runScheduled(ctx)
		}
	}
}

// runScheduled performs one scheduled run. A run already in progress is
// skipped rather than queued.
func (s *Service) runScheduled(ctx context.Context) {
	if !s.limiter.TryAcquire() {
		slog.Info("scheduled run skipped, run in progress")
		return
	}
	s.limiter.Release()

	start := time.Now()
	run, err := s.Execute(ctx)
	switch {
	case errors.Is(err, ErrRunInProgress):
		slog.Info("scheduled run skipped, run in progress")
	case err != nil:
		slog.Error("scheduled run failed", "run_id", run.ID, "error", err)
	default:
		slog.Info("scheduled run completed",
			"run_id", run.ID,
			"rows", run.Rows,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
