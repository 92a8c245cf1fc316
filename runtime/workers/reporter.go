package workers

import (
	"context"
	"log/slog"
	"time"

	"user-flag/observability"
)

// ReporterWorker periodically logs the pipeline counters together with the
// process resource usage, so long batches stay observable without polling
// the HTTP API.
type ReporterWorker struct {
	log      *slog.Logger
	metrics  *observability.Recorder
	interval time.Duration
}

func NewReporterWorker(log *slog.Logger, metrics *observability.Recorder, interval time.Duration) *ReporterWorker {
	return &ReporterWorker{log: log, metrics: metrics, interval: interval}
}

// Run starts the reporting loop until context cancellation. A final snapshot
// is logged on shutdown.
func (w *ReporterWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logStats()
			w.log.Info("Reporter stopped")
			return ctx.Err()
		case <-ticker.C:
			w.logStats()
		}
	}
}

func (w *ReporterWorker) logStats() {
	if !w.metrics.Started() {
		w.log.Debug("No pipeline run yet")
		return
	}
	snapshot := w.metrics.Snapshot()

	args := []any{
		"rows_total", snapshot.RowsTotal,
		"succeeded", snapshot.RowsSucceeded,
		"failed", snapshot.RowsFailed,
		"retries", snapshot.RetriesTotal,
		"elapsed_ms", snapshot.ElapsedMs,
	}
	if stats, err := observability.SelfStats(); err == nil {
		args = append(args, "cpu_percent", stats.CPUPercent, "rss_bytes", stats.RSSBytes)
	}
	w.log.Info("Pipeline progress", args...)
}
