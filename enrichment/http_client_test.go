package enrichment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Normalize(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body normalizeRequest
		req.NoError(json.NewDecoder(r.Body).Decode(&body))
		req.Equal("  hello   world ", body.Text)
		_ = json.NewEncoder(w).Encode(normalizeResponse{Text: "hello world", Lang: "en"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.URL, time.Second)
	text, err := client.Normalize(context.Background(), "  hello   world ")

	req.NoError(err)
	req.Equal("hello world", text)
}

func TestHTTPClient_Score(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(scoreResponse{Score: 0.42})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.URL, time.Second)
	score, err := client.Score(context.Background(), "hello world")

	req.NoError(err)
	req.InDelta(0.42, score, 1e-9)
}

func TestHTTPClient_RetryableStatusIsTransient(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.URL, time.Second)
	_, err := client.Score(context.Background(), "text")

	req.Error(err)
	var callErr *CallError
	req.ErrorAs(err, &callErr)
	req.Equal(KindTransient, callErr.Kind)
	req.Equal(ServiceScore, callErr.Service)
	req.True(IsRetryable(err))
}

func TestHTTPClient_UnexpectedStatusIsProtocol(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.URL, time.Second)
	_, err := client.Normalize(context.Background(), "text")

	var callErr *CallError
	req.ErrorAs(err, &callErr)
	req.Equal(KindProtocol, callErr.Kind)
}

func TestHTTPClient_MalformedBodyIsProtocol(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.URL, time.Second)
	_, err := client.Score(context.Background(), "text")

	var callErr *CallError
	req.ErrorAs(err, &callErr)
	req.Equal(KindProtocol, callErr.Kind)
}

func TestHTTPClient_OutOfRangeScoreIsProtocol(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(scoreResponse{Score: 1.5})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.URL, time.Second)
	_, err := client.Score(context.Background(), "text")

	var callErr *CallError
	req.ErrorAs(err, &callErr)
	req.Equal(KindProtocol, callErr.Kind)
	req.True(IsRetryable(err), "a broken service may heal, the policy decides")
}

func TestHTTPClient_EmptyNormalizedTextIsProtocol(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(normalizeResponse{Text: ""})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.URL, time.Second)
	_, err := client.Normalize(context.Background(), "text")

	var callErr *CallError
	req.ErrorAs(err, &callErr)
	req.Equal(KindProtocol, callErr.Kind)
}

func TestHTTPClient_PerCallTimeoutIsTransient(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.URL, 20*time.Millisecond)
	_, err := client.Score(context.Background(), "slow")

	var callErr *CallError
	req.ErrorAs(err, &callErr)
	req.Equal(KindTransient, callErr.Kind, "per-call timeout must stay retryable")
}

func TestHTTPClient_ParentCancellationSurfacesBare(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	client := NewHTTPClient(server.URL, server.URL, 10*time.Second)
	_, err := client.Score(ctx, "slow")

	req.ErrorIs(err, context.Canceled)
	req.False(IsRetryable(err), "run cancellation must stop the retry loop")
}
