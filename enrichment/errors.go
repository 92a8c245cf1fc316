package enrichment

import (
	"errors"
	"fmt"
)

// Kind classifies an enrichment call failure. Transient and Protocol failures
// are eligible for retry; anything else fails the row immediately.
type Kind string

const (
	// KindTransient covers network failures, timeouts and retryable HTTP statuses.
	KindTransient Kind = "TRANSIENT"
	// KindProtocol covers malformed or out-of-range responses. The backing
	// services are assumed to self-heal, so it stays retryable.
	KindProtocol Kind = "PROTOCOL"
)

// CallError is the typed failure returned by a Client implementation.
type CallError struct {
	Kind    Kind
	Service ServiceKind
	Err     error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s call failed (%s): %v", e.Service, e.Kind, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a retryable connectivity/timing failure.
func Transient(service ServiceKind, err error) *CallError {
	return &CallError{Kind: KindTransient, Service: service, Err: err}
}

// Protocol wraps err as a retryable malformed-response failure.
func Protocol(service ServiceKind, err error) *CallError {
	return &CallError{Kind: KindProtocol, Service: service, Err: err}
}

// IsRetryable reports whether the retry policy may attempt the call again.
// Run-level cancellation surfaces as a bare context error, never as a
// CallError, so it falls through to false here.
func IsRetryable(err error) bool {
	switch kindOf(err) {
	case KindTransient, KindProtocol:
		return true
	default:
		return false
	}
}

func kindOf(err error) Kind {
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr.Kind
	}
	return ""
}
