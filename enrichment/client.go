//go:generate go run go.uber.org/mock/mockgen -source=client.go -destination=../mocks/mock_enrichment.go -package=mocks
package enrichment

import "context"

// ServiceKind identifies which of the two enrichment services a call targets.
type ServiceKind string

const (
	ServiceNormalize ServiceKind = "normalize"
	ServiceScore     ServiceKind = "score"
)

// Client is the outbound capability of the row processor. Implementations
// enforce the per-call timeout themselves and report failures as CallError
// so the retry policy can classify them. Calls are side-effect free and safe
// to repeat.
type Client interface {
	// Normalize submits the raw message text and returns its normalized form.
	Normalize(ctx context.Context, text string) (string, error)
	// Score submits normalized text and returns a score in [0.0, 1.0].
	// A response outside that range is a protocol violation, not a result.
	Score(ctx context.Context, text string) (float64, error)
}
