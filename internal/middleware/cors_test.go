package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/triplog/internal/middleware"
)

const frontEnd = "http://localhost:5173"

// okHandler always answers 200.
var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORSHandler_AllowedOriginGetsHeader(t *testing.T) {
	h := middleware.NewCORSHandler([]string{frontEnd})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Origin", frontEnd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, frontEnd, rec.Header().Get("Access-Control-Allow-Origin"))
}

// TestCORSHandler_DeletePreflight covers the preflight a browser sends before
// removing a trip: DELETE is not a simple method.
func TestCORSHandler_DeletePreflight(t *testing.T) {
	h := middleware.NewCORSHandler([]string{frontEnd})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/trips/42", nil)
	req.Header.Set("Origin", frontEnd)
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, rec.Code == http.StatusNoContent || rec.Code == http.StatusOK,
		"expected 2xx for preflight, got %d", rec.Code)
	assert.Equal(t, frontEnd, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
	assert.Equal(t, "300", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORSHandler_OtherOriginGetsNoHeader(t *testing.T) {
	h := middleware.NewCORSHandler([]string{frontEnd})(okHandler)

	req := httptest.NewRequest(http.MethodPut, "/prefs/theme", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
