package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/trendboard/internal/app"
	"github.com/ternarybob/trendboard/internal/common"
)

// newTestServer wires a full application against a throwaway database
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := common.NewDefaultConfig()
	cfg.Storage.Badger.Path = t.TempDir()

	application, err := app.New(cfg, arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = application.Close()
	})

	return New(application)
}

func TestRoutes(t *testing.T) {
	server := newTestServer(t)
	handler := server.server.Handler

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"health", "GET", "/api/health", http.StatusOK},
		{"version", "GET", "/api/version", http.StatusOK},
		{"leaderboard empty store", "GET", "/api/leaderboard", http.StatusOK},
		{"platform rankings empty store", "GET", "/api/sns-platform/rankings", http.StatusOK},
		{"platform latest missing", "GET", "/api/sns-platform/tiktok", http.StatusNotFound},
		{"batch status empty store", "GET", "/api/batch/status", http.StatusOK},
		{"unknown api route", "GET", "/api/nope", http.StatusNotFound},
		{"health wrong method", "POST", "/api/health", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHealthPayload(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()
	server.server.Handler.ServeHTTP(rec, req)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestCORSMiddleware(t *testing.T) {
	server := newTestServer(t)
	handler := server.server.Handler

	t.Run("headers on normal request", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/health", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/batch/run", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	server := newTestServer(t)

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler exploded")
	})
	wrapped := server.withMiddleware(panicking)

	req := httptest.NewRequest("GET", "/api/leaderboard", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
