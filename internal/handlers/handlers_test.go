package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"fretloop-scheduler/internal/config"
	"fretloop-scheduler/internal/dimension"
	"fretloop-scheduler/internal/engine"
	"fretloop-scheduler/internal/store"
	"fretloop-scheduler/internal/store/memstore"
	"fretloop-scheduler/internal/suggestionstore"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testUserID = "11111111-1111-1111-1111-111111111111"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	reg := dimension.NewDefaultRegistry()
	cfg := config.Load()
	repoFor := func(userID string) (store.Repository, error) { return memstore.New(), nil }
	suggFor := func(userID string) suggestionstore.Store { return suggestionstore.NewMemory() }
	registry := engine.NewRegistry(reg, cfg, repoFor, suggFor, func() float64 { return 0 })

	app := fiber.New()
	RegisterRoutes(app, New(registry))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, userID string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) == 0 {
		return resp, nil
	}
	var decoded map[string]interface{}
	_ = json.Unmarshal(raw, &decoded)
	return resp, decoded
}

func TestHealthRequiresNoAuth(t *testing.T) {
	app := newTestApp(t)
	resp, body := doJSON(t, app, http.MethodGet, "/health", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "healthy", body["status"])
}

func TestPracticeRoutesRequireUserID(t *testing.T) {
	app := newTestApp(t)
	resp, _ := doJSON(t, app, http.MethodGet, "/practice/suggestion", nil, "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestPracticeRoutesRejectMalformedUserID(t *testing.T) {
	app := newTestApp(t)
	resp, _ := doJSON(t, app, http.MethodGet, "/practice/suggestion", nil, "not-a-uuid")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGenerateThenLogSuggestionRoundTrip(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/practice/suggestion", nil, testUserID)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "pentatonic_minor", body["compound"].(map[string]interface{})["scale"])

	resp, _ = doJSON(t, app, http.MethodPost, "/practice/log", map[string]interface{}{"bpm": 210}, testUserID)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLogWithNothingPendingIsConflict(t *testing.T) {
	app := newTestApp(t)
	resp, _ := doJSON(t, app, http.MethodPost, "/practice/log", map[string]interface{}{"bpm": 100}, testUserID)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestUnknownCompoundStatsIsNotFound(t *testing.T) {
	app := newTestApp(t)
	resp, _ := doJSON(t, app, http.MethodGet, "/practice/stats/pentatonic_minor+E+8ths:xx", nil, testUserID)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSetAndRemoveProficiency(t *testing.T) {
	app := newTestApp(t)
	resp, _ := doJSON(t, app, http.MethodPost, "/practice/proficiency",
		map[string]interface{}{"dimension": "scale", "value": "dorian"}, testUserID)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/practice/proficiency",
		map[string]interface{}{"dimension": "scale", "value": "dorian"}, testUserID)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUsersAreIsolated(t *testing.T) {
	app := newTestApp(t)
	other := uuid.NewString()

	_, _ = doJSON(t, app, http.MethodGet, "/practice/suggestion", nil, testUserID)
	resp, _ := doJSON(t, app, http.MethodPost, "/practice/log", map[string]interface{}{"bpm": 210}, testUserID)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/practice/log", map[string]interface{}{"bpm": 210}, other)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode, "a different user must not see the first user's pending suggestion")
}
