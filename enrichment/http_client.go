package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Compile time check: *HTTPClient satisfies the Client capability.
var _ Client = (*HTTPClient)(nil)

// HTTPClient talks to the two enrichment services over JSON/HTTP.
// Retrying is deliberately left to the caller; the underlying transport
// performs no retries of its own.
type HTTPClient struct {
	normalizeURL string
	scoreURL     string
	timeout      time.Duration
	http         *http.Client
}

// NewHTTPClient creates a reusable client. timeout bounds every single call;
// the retry policy multiplies it, not this client.
func NewHTTPClient(normalizeURL, scoreURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		normalizeURL: normalizeURL,
		scoreURL:     scoreURL,
		timeout:      timeout,
		http:         &http.Client{},
	}
}

type normalizeRequest struct {
	Text string `json:"text"`
}

type normalizeResponse struct {
	Text string `json:"text"`
	Lang string `json:"lang,omitempty"`
}

type scoreRequest struct {
	Text string `json:"text"`
}

type scoreResponse struct {
	Score float64 `json:"score"`
}

func (c *HTTPClient) Normalize(ctx context.Context, text string) (string, error) {
	var resp normalizeResponse
	if err := c.post(ctx, ServiceNormalize, c.normalizeURL, normalizeRequest{Text: text}, &resp); err != nil {
		return "", err
	}
	if resp.Text == "" {
		return "", Protocol(ServiceNormalize, fmt.Errorf("empty normalized text"))
	}
	return resp.Text, nil
}

func (c *HTTPClient) Score(ctx context.Context, text string) (float64, error) {
	var resp scoreResponse
	if err := c.post(ctx, ServiceScore, c.scoreURL, scoreRequest{Text: text}, &resp); err != nil {
		return 0, err
	}
	if resp.Score < 0.0 || resp.Score > 1.0 {
		// Never clamp: an out-of-range score is a broken service, and the
		// retry policy gets a chance to see a healed one.
		return 0, Protocol(ServiceScore, fmt.Errorf("score %v outside [0.0, 1.0]", resp.Score))
	}
	return resp.Score, nil
}

func (c *HTTPClient) post(ctx context.Context, service ServiceKind, url string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return Protocol(service, fmt.Errorf("marshal payload: %w", err))
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Protocol(service, fmt.Errorf("new request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// Distinguish a cancelled run from a flaky call: cancellation must
		// surface as-is so the retry policy stops immediately.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return Transient(service, err)
	}
	defer resp.Body.Close()

	if retryableStatus(resp.StatusCode) {
		return Transient(service, fmt.Errorf("retryable status %s", resp.Status))
	}
	if resp.StatusCode != http.StatusOK {
		return Protocol(service, fmt.Errorf("unexpected status %s", resp.Status))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return Protocol(service, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// retryableStatus mirrors the status set the services are known to emit while
// overloaded or restarting.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
