package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miguelgnzalez28/ultimate-kits/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		Port:       "8080",
		JWTSecret:  "test-secret-at-least-16-chars!!",
		CatalogURL: "http://127.0.0.1:0/unreachable",
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// Degraded mode: no store. Every route must still resolve, with the
// store-backed ones failing fast.
func newDegradedServer(t *testing.T) http.Handler {
	t.Helper()
	srv, err := New(testConfig(), testLogger(), nil)
	require.NoError(t, err)
	return srv.Handler()
}

func TestRootMessage(t *testing.T) {
	handler := newDegradedServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Ultimate Kits API"}`, rec.Body.String())
}

func TestDegradedMode_StoreRoutesReturn503(t *testing.T) {
	handler := newDegradedServer(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/auth/register"},
		{http.MethodPost, "/api/auth/login"},
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/admin/stats"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			require.Equal(t, http.StatusServiceUnavailable, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body["detail"], "Database not available")
		})
	}
}

func TestCORSHeadersOnErrorResponses(t *testing.T) {
	handler := newDegradedServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("Origin", "https://frontend.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	handler := newDegradedServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "https://frontend.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRouteIs404(t *testing.T) {
	handler := newDegradedServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShortSecretRejected(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = "short"

	_, err := New(cfg, testLogger(), nil)
	require.Error(t, err)
}
