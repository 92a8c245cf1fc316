// Package retry implements the bounded retry-with-backoff discipline applied
// to every enrichment call. The backoff schedule is an explicit state of the
// loop (attempt counter, doubling delay) rather than a side effect of the
// concurrency primitive, so it composes with any caller.
package retry

import (
	"context"
	"math/rand"
	"time"

	"user-flag/enrichment"
)

// Policy bounds the attempts of a single logical call.
// MaxAttempts counts every invocation including the first; delays grow as
// BaseDelay * 2^(k-1) for retry k, capped at MaxDelay, plus jitter in
// [0, delay) to avoid synchronized retry bursts.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultPolicy matches the services' observed recovery characteristics.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    2 * time.Second,
	}
}

// Meter receives one increment per actual retry, i.e. per attempt beyond the
// first. Three failing attempts therefore meter two retries.
type Meter interface {
	IncrRetries()
}

// Do runs fn until it succeeds, exhausts the policy, fails non-retryably, or
// the context is cancelled. It returns the number of attempts actually made
// together with the last result.
func Do[T any](ctx context.Context, p Policy, m Meter, fn func(context.Context) (T, error)) (T, int, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return zero, attempt - 1, ctx.Err()
			case <-time.After(p.delay(attempt - 1)):
			}
			if m != nil {
				m.IncrRetries()
			}
		}

		result, err := fn(ctx)
		if err == nil {
			return result, attempt, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, attempt, ctx.Err()
		}
		if !enrichment.IsRetryable(err) {
			return zero, attempt, err
		}
	}

	return zero, p.MaxAttempts, lastErr
}

// delay computes the backoff before retry k (k >= 1), jittered.
func (p Policy) delay(k int) time.Duration {
	d := p.BaseDelay << (k - 1)
	if d > p.MaxDelay || d <= 0 {
		d = p.MaxDelay
	}
	if d <= 0 {
		return 0
	}
	return d + time.Duration(rand.Int63n(int64(d)))
}
