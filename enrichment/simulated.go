package enrichment

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
)

var _ Client = (*SimulatedClient)(nil)

// SimulatedClient is the in-process stand-in for the two remote services.
// Latency and scores are derived from a SHA-256 hash of the payload, so a
// given input always behaves the same way across runs. It satisfies the exact
// contract the HTTP client does, which keeps the row processor transport-blind.
type SimulatedClient struct {
	log *slog.Logger
	// latencyScale shrinks the simulated 50-200ms delay; 0 disables it (tests).
	latencyScale float64
}

func NewSimulatedClient(log *slog.Logger) *SimulatedClient {
	return &SimulatedClient{log: log, latencyScale: 1.0}
}

// NewInstantSimulatedClient skips the simulated latency entirely.
func NewInstantSimulatedClient(log *slog.Logger) *SimulatedClient {
	return &SimulatedClient{log: log, latencyScale: 0}
}

func (c *SimulatedClient) Normalize(ctx context.Context, text string) (string, error) {
	if err := c.sleep(ctx, text); err != nil {
		return "", err
	}
	normalized := NormalizeText(text)
	info := whatlanggo.Detect(text)
	c.log.Debug("Simulated normalization", "lang", info.Lang.Iso6391(), "len", len(normalized))
	return normalized, nil
}

func (c *SimulatedClient) Score(ctx context.Context, text string) (float64, error) {
	if err := c.sleep(ctx, text); err != nil {
		return 0, err
	}
	return DeterministicScore(text), nil
}

func (c *SimulatedClient) sleep(ctx context.Context, payload string) error {
	if c.latencyScale <= 0 {
		return ctx.Err()
	}
	delay := time.Duration(float64(DeterministicDelay(payload)) * c.latencyScale)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// NormalizeText is the identity translation of the simulated normalization
// service: trimmed, whitespace collapsed. Reproducible and sufficient for
// exercising the pipeline.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// DeterministicDelay maps a payload onto a 50-200ms latency band.
func DeterministicDelay(payload string) time.Duration {
	h := sha256.Sum256([]byte(payload))
	ms := 50 + binary.BigEndian.Uint32(h[:4])%151
	return time.Duration(ms) * time.Millisecond
}

// DeterministicScore maps a payload onto [0.0, 1.0] with 3-decimal granularity.
func DeterministicScore(payload string) float64 {
	h := sha256.Sum256([]byte(payload))
	val := binary.BigEndian.Uint32(h[8:12]) % 1001
	return float64(val) / 1000.0
}

// String helps logging which client implementation a run used.
func (c *SimulatedClient) String() string {
	return fmt.Sprintf("simulated(latency_scale=%.2f)", c.latencyScale)
}
