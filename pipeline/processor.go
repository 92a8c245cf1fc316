package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"user-flag/domain"
	"user-flag/enrichment"
	"user-flag/observability"
	"user-flag/retry"
)

// RowProcessor enriches a single row: normalize, then score, each call
// wrapped by the retry policy. It is the failure boundary of the pipeline;
// nothing it does can abort the batch.
type RowProcessor struct {
	client  enrichment.Client
	policy  retry.Policy
	metrics *observability.Recorder
	log     *slog.Logger
}

func NewRowProcessor(client enrichment.Client, policy retry.Policy,
	metrics *observability.Recorder, log *slog.Logger) *RowProcessor {
	return &RowProcessor{
		client:  client,
		policy:  policy,
		metrics: metrics,
		log:     log,
	}
}

// Process turns one row into exactly one outcome. Panics are converted to an
// InvalidRow failure so a malformed row can never crash a scheduler worker.
func (p *RowProcessor) Process(ctx context.Context, row domain.Row) (outcome domain.RowOutcome) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Row processing panicked", "user_id", row.UserID, "panic", r)
			outcome = domain.Failure(row.UserID, domain.ReasonInvalidRow, 0)
		}
	}()

	if strings.TrimSpace(row.UserID) == "" {
		return domain.Failure(row.UserID, domain.ReasonInvalidRow, 0)
	}
	// Policy choice: an empty message is a hard failure, never a neutral
	// auto-success, so total_messages only ever counts scored messages.
	message := strings.TrimSpace(row.Message)
	if message == "" {
		return domain.Failure(row.UserID, domain.ReasonEmptyMessage, 0)
	}

	normalized, attempts, err := retry.Do(ctx, p.policy, p.metrics,
		func(ctx context.Context) (string, error) {
			return p.client.Normalize(ctx, message)
		})
	if err != nil {
		return domain.Failure(row.UserID, reasonFor(err, domain.ReasonNormalizationFailed), attempts)
	}

	score, attempts, err := retry.Do(ctx, p.policy, p.metrics,
		func(ctx context.Context) (float64, error) {
			return p.client.Score(ctx, normalized)
		})
	if err != nil {
		return domain.Failure(row.UserID, reasonFor(err, domain.ReasonScoringFailed), attempts)
	}

	return domain.Success(row.UserID, score, attempts)
}

// reasonFor maps a terminal call error onto the outcome taxonomy. A typed
// call error keeps its stage; a bare context error means the run itself was
// cancelled mid-row (a per-call timeout always arrives as a typed Transient).
func reasonFor(err error, stage domain.FailureReason) domain.FailureReason {
	var callErr *enrichment.CallError
	if errors.As(err, &callErr) {
		return stage
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.ReasonCancelled
	}
	return stage
}
