package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct{ err error }

func (f fakeStorage) HealthCheck() error { return f.err }

type fakeGenerator struct {
	err     error
	tokens  float64
	limited bool
}

func (f fakeGenerator) HealthCheck(context.Context) error { return f.err }

func (f fakeGenerator) GenerationBudget() (float64, bool) { return f.tokens, f.limited }

type plainGenerator struct{}

func (plainGenerator) HealthCheck(context.Context) error { return nil }

func checkHealth(t *testing.T, h *HealthHandler) (int, map[string]json.RawMessage) {
	t.Helper()
	app := fiber.New()
	app.Get("/health", h.Check)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env.Data
}

func TestHealthReportsGenerationBudget(t *testing.T) {
	status, data := checkHealth(t, NewHealthHandler(fakeStorage{}, fakeGenerator{tokens: 2.5, limited: true}, nil))
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `2.5`, string(data["generationBudget"]))
	assert.JSONEq(t, `"ok"`, string(data["status"]))
}

func TestHealthOmitsBudgetWhenUnthrottled(t *testing.T) {
	_, data := checkHealth(t, NewHealthHandler(fakeStorage{}, fakeGenerator{}, nil))
	assert.NotContains(t, data, "generationBudget")

	_, data = checkHealth(t, NewHealthHandler(fakeStorage{}, plainGenerator{}, nil))
	assert.NotContains(t, data, "generationBudget")
}

func TestHealthStatus(t *testing.T) {
	status, data := checkHealth(t, NewHealthHandler(fakeStorage{}, fakeGenerator{err: errors.New("timeout")}, nil))
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `"degraded"`, string(data["status"]))

	status, data = checkHealth(t, NewHealthHandler(fakeStorage{err: errors.New("disk gone")}, nil, nil))
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.JSONEq(t, `"unavailable"`, string(data["status"]))
}
