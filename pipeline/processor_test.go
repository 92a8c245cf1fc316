package pipeline_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"user-flag/domain"
	"user-flag/enrichment"
	"user-flag/mocks"
	"user-flag/observability"
	. "user-flag/pipeline"
	"user-flag/retry"
)

func testPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func newTestProcessor(t *testing.T) (*RowProcessor, *mocks.MockClient, *observability.Recorder) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	recorder := observability.NewRecorder(slog.Default())
	recorder.Reset(1)
	return NewRowProcessor(client, testPolicy(), recorder, slog.Default()), client, recorder
}

func TestProcess_HappyPath(t *testing.T) {
	req := require.New(t)
	processor, client, _ := newTestProcessor(t)

	client.EXPECT().Normalize(gomock.Any(), "hello   world").Return("hello world", nil)
	client.EXPECT().Score(gomock.Any(), "hello world").Return(0.7, nil)

	outcome := processor.Process(context.Background(), domain.Row{UserID: "u1", Message: "hello   world"})

	req.False(outcome.Failed())
	req.InDelta(0.7, outcome.Score, 1e-9)
	req.Equal("u1", outcome.UserID)
}

func TestProcess_EmptyMessageFailsHard(t *testing.T) {
	req := require.New(t)
	processor, _, _ := newTestProcessor(t)

	outcome := processor.Process(context.Background(), domain.Row{UserID: "u1", Message: "   "})

	req.True(outcome.Failed())
	req.Equal(domain.ReasonEmptyMessage, outcome.Reason)
	req.Equal(0, outcome.Attempts)
}

func TestProcess_EmptyUserIDIsInvalid(t *testing.T) {
	req := require.New(t)
	processor, _, _ := newTestProcessor(t)

	outcome := processor.Process(context.Background(), domain.Row{UserID: " ", Message: "hello"})

	req.True(outcome.Failed())
	req.Equal(domain.ReasonInvalidRow, outcome.Reason)
}

func TestProcess_NormalizationExhaustsRetries(t *testing.T) {
	req := require.New(t)
	processor, client, recorder := newTestProcessor(t)

	client.EXPECT().
		Normalize(gomock.Any(), "hello").
		Return("", enrichment.Transient(enrichment.ServiceNormalize, fmt.Errorf("down"))).
		Times(3)

	outcome := processor.Process(context.Background(), domain.Row{UserID: "u1", Message: "hello"})

	req.True(outcome.Failed())
	req.Equal(domain.ReasonNormalizationFailed, outcome.Reason)
	req.Equal(3, outcome.Attempts)
	req.Equal(uint64(2), recorder.Snapshot().RetriesTotal)
}

func TestProcess_ScoringFailureKeepsItsStage(t *testing.T) {
	req := require.New(t)
	processor, client, _ := newTestProcessor(t)

	client.EXPECT().Normalize(gomock.Any(), "hello").Return("hello", nil)
	client.EXPECT().
		Score(gomock.Any(), "hello").
		Return(0.0, enrichment.Protocol(enrichment.ServiceScore, fmt.Errorf("score 2.0 outside [0.0, 1.0]"))).
		Times(3)

	outcome := processor.Process(context.Background(), domain.Row{UserID: "u1", Message: "hello"})

	req.True(outcome.Failed())
	req.Equal(domain.ReasonScoringFailed, outcome.Reason)
}

func TestProcess_TransientThenRecovery(t *testing.T) {
	req := require.New(t)
	processor, client, recorder := newTestProcessor(t)

	gomock.InOrder(
		client.EXPECT().
			Normalize(gomock.Any(), "hello").
			Return("", enrichment.Transient(enrichment.ServiceNormalize, fmt.Errorf("hiccup"))),
		client.EXPECT().Normalize(gomock.Any(), "hello").Return("hello", nil),
		client.EXPECT().Score(gomock.Any(), "hello").Return(0.3, nil),
	)

	outcome := processor.Process(context.Background(), domain.Row{UserID: "u1", Message: "hello"})

	req.False(outcome.Failed())
	req.Equal(uint64(1), recorder.Snapshot().RetriesTotal)
}

func TestProcess_CancellationMarksRowCancelled(t *testing.T) {
	req := require.New(t)
	processor, client, _ := newTestProcessor(t)

	ctx, cancel := context.WithCancel(context.Background())
	client.EXPECT().
		Normalize(gomock.Any(), "hello").
		DoAndReturn(func(ctx context.Context, _ string) (string, error) {
			cancel()
			return "", ctx.Err()
		})

	outcome := processor.Process(ctx, domain.Row{UserID: "u1", Message: "hello"})

	req.True(outcome.Failed())
	req.Equal(domain.ReasonCancelled, outcome.Reason)
}

func TestProcess_PanicBecomesInvalidRow(t *testing.T) {
	req := require.New(t)
	processor, client, _ := newTestProcessor(t)

	client.EXPECT().
		Normalize(gomock.Any(), "hello").
		DoAndReturn(func(context.Context, string) (string, error) {
			panic("boom")
		})

	outcome := processor.Process(context.Background(), domain.Row{UserID: "u1", Message: "hello"})

	req.True(outcome.Failed())
	req.Equal(domain.ReasonInvalidRow, outcome.Reason)
}
