package pipeline_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"user-flag/domain"
	"user-flag/enrichment"
	apperrors "user-flag/errors"
	"user-flag/observability"
	. "user-flag/pipeline"
)

func TestRun_EndToEndWithSimulatedClient(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	rows := []domain.Row{
		{UserID: "u1", Message: "  first   message "},
		{UserID: "u2", Message: "second message"},
		{UserID: "u1", Message: "third message"},
		{UserID: "u3", Message: "   "},
	}

	recorder := observability.NewRecorder(log)
	cfg := Config{Concurrency: 4, Retry: testPolicy()}

	result, err := Run(context.Background(), rows, cfg,
		enrichment.NewInstantSimulatedClient(log), recorder, log)
	req.NoError(err)

	req.Len(result.Outcomes, 4)
	req.Equal(uint64(4), result.Metrics.RowsTotal)
	req.Equal(uint64(3), result.Metrics.RowsSucceeded)
	req.Equal(uint64(1), result.Metrics.RowsFailed)
	req.Equal(domain.ReasonEmptyMessage, result.Outcomes[3].Reason)

	// u3 only had the blank row, so only two users aggregate
	req.Len(result.Aggregates, 2)
	req.Equal(2, result.Metrics.Users)
	req.Equal(2, result.Aggregates["u1"].TotalMessages)
	req.Equal(1, result.Aggregates["u2"].TotalMessages)
}

func TestRun_Deterministic(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	rows := []domain.Row{
		{UserID: "u1", Message: "alpha"},
		{UserID: "u1", Message: "beta"},
		{UserID: "u2", Message: "gamma"},
	}
	cfg := Config{Concurrency: 3, Retry: testPolicy()}

	first, err := Run(context.Background(), rows, cfg,
		enrichment.NewInstantSimulatedClient(log), observability.NewRecorder(log), log)
	req.NoError(err)

	second, err := Run(context.Background(), rows, cfg,
		enrichment.NewInstantSimulatedClient(log), observability.NewRecorder(log), log)
	req.NoError(err)

	req.Equal(first.Aggregates, second.Aggregates)
	req.Equal(first.Outcomes, second.Outcomes)
}

func TestRun_EmptyBatch(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	recorder := observability.NewRecorder(log)

	result, err := Run(context.Background(), nil, Config{Concurrency: 4, Retry: testPolicy()},
		enrichment.NewInstantSimulatedClient(log), recorder, log)

	req.NoError(err)
	req.Empty(result.Outcomes)
	req.Empty(result.Aggregates)
	req.Equal(uint64(0), result.Metrics.RowsTotal)
}

func TestRun_InvalidConfig(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	_, err := Run(context.Background(), makeRows(3), Config{Concurrency: 0, Retry: testPolicy()},
		enrichment.NewInstantSimulatedClient(log), observability.NewRecorder(log), log)

	req.ErrorIs(err, apperrors.ErrInvalidConcurrency)
}

func TestConfig_Validate(t *testing.T) {
	req := require.New(t)

	req.NoError(Config{Concurrency: 1, Retry: testPolicy()}.Validate())
	req.ErrorIs(Config{Concurrency: 0}.Validate(), apperrors.ErrInvalidConcurrency)
	req.ErrorIs(Config{Concurrency: -5}.Validate(), apperrors.ErrInvalidConcurrency)
}
