// Package pipeline is the concurrent enrichment core: it turns a bounded
// batch of rows into ordered outcomes and per-user aggregates by calling the
// two enrichment services with bounded parallelism, per-call timeouts and
// retry with backoff, isolating every failure at row granularity.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"user-flag/aggregate"
	"user-flag/domain"
	"user-flag/enrichment"
	"user-flag/errors"
	"user-flag/observability"
	"user-flag/retry"
)

// Config carries the already-validated knobs of one run.
type Config struct {
	Concurrency int
	Retry       retry.Policy
}

// Validate rejects configurations the scheduler would refuse at run time.
func (c Config) Validate() error {
	if c.Concurrency < 1 {
		return errors.ErrInvalidConcurrency
	}
	return nil
}

// Result is everything a run produces: the ordered outcomes, the per-user
// aggregates and the frozen metrics snapshot.
type Result struct {
	Outcomes   []domain.RowOutcome
	Aggregates map[string]domain.UserAggregate
	Metrics    observability.PipelineMetrics
}

// Run executes the whole pipeline synchronously: the caller blocks until the
// batch is drained (or ctx is cancelled), while rows are enriched
// concurrently inside. Metrics counters are reset at the start of every run.
func Run(ctx context.Context, rows []domain.Row, cfg Config,
	client enrichment.Client, metrics *observability.Recorder, log *slog.Logger) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	metrics.Reset(len(rows))
	start := time.Now()

	processor := NewRowProcessor(client, cfg.Retry, metrics, log)
	scheduler := NewScheduler(processor, cfg.Concurrency, log)

	outcomes, err := scheduler.RunAll(ctx, rows)
	if err != nil {
		return Result{}, err
	}

	for _, outcome := range outcomes {
		if outcome.Failed() {
			metrics.IncrFailed()
			log.Warn("Row failed",
				"user_id", outcome.UserID,
				"reason", outcome.Reason,
				"attempts", outcome.Attempts)
		} else {
			metrics.IncrSucceeded()
		}
	}

	aggregates := aggregate.Fold(outcomes)
	metrics.SetUsers(len(aggregates))
	metrics.MarkDone()

	log.Info("Run completed",
		"rows", len(rows),
		"users", len(aggregates),
		"duration", time.Since(start).Round(time.Millisecond))

	return Result{
		Outcomes:   outcomes,
		Aggregates: aggregates,
		Metrics:    metrics.Snapshot(),
	}, nil
}
