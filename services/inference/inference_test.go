package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{APIKey: "secret", BaseURL: server.URL, Model: "test-model"})
}

func TestGenerateSuccess(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "prompt text", req.Messages[0].Content)
		assert.False(t, req.Stream)

		_ = json.NewEncoder(w).Encode(Response{Choices: []Choice{{Message: Message{Role: "assistant", Content: "مرحبا"}}}})
	})

	reply, err := client.Generate(context.Background(), "prompt text")
	require.NoError(t, err)
	assert.Equal(t, "مرحبا", reply)
}

func TestGenerateFailuresAreOpaque(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"unauthorized": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
		"no choices": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		},
		"empty content": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  "}}]}`))
		},
		"invalid json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		},
	}

	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			client := newTestServer(t, handler)
			_, err := client.Generate(context.Background(), "p")
			assert.ErrorIs(t, err, ErrGenerationFailed)
		})
	}
}

func TestGenerateNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(Config{BaseURL: url})
	_, err := client.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGenerateDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Generate(context.Background(), "p")
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHealthCheck(t *testing.T) {
	healthy := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	assert.NoError(t, healthy.HealthCheck(context.Background()))

	unhealthy := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	assert.Error(t, unhealthy.HealthCheck(context.Background()))
}

func TestGenerationBudget(t *testing.T) {
	unlimited := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	_, limited := unlimited.GenerationBudget()
	assert.False(t, limited)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Response{Choices: []Choice{{Message: Message{Role: "assistant", Content: "ok"}}}})
	}))
	t.Cleanup(server.Close)
	limiter := NewRateLimiter(RateLimiterConfig{MaxTokens: 3, RequestsPerMinute: 1})
	client := NewClient(Config{APIKey: "secret", BaseURL: server.URL, Model: "test-model"}, WithRateLimiter(limiter))

	tokens, limited := client.GenerationBudget()
	assert.True(t, limited)
	assert.InDelta(t, 3, tokens, 0.01)

	_, err := client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	tokens, _ = client.GenerationBudget()
	assert.InDelta(t, 2, tokens, 0.01)
}
