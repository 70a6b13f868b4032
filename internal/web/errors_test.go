package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/exporter-bookmarks/internal/core"
	"github.com/JonMunkholm/exporter-bookmarks/internal/store"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"usage", &core.UsageError{Reason: "no file provided"}, http.StatusBadRequest},
		{"parse", &core.ParseError{Err: errors.New("bad")}, http.StatusUnprocessableEntity},
		{"missing field", &core.MissingFieldError{Field: "Country"}, http.StatusUnprocessableEntity},
		{"busy", core.ErrTooManyConversions, http.StatusServiceUnavailable},
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"too large", fmt.Errorf("file too large: %w", &http.MaxBytesError{Limit: 10}), http.StatusRequestEntityTooLarge},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}

func TestRespondError_Busy(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/convert", nil)
	rec := httptest.NewRecorder()

	respondError(rec, req, core.ErrTooManyConversions, http.StatusServiceUnavailable)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "CONV001", decodeError(t, rec).Code)
}

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		path   string
		accept string
		want   bool
	}{
		{"/api/convert", "", true},
		{"/upload", "application/json", true},
		{"/upload", "text/html", false},
		{"/downloads/x", "", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.accept != "" {
			req.Header.Set("Accept", tt.accept)
		}
		assert.Equal(t, tt.want, wantsJSON(req), "wantsJSON(%s, %q)", tt.path, tt.accept)
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     2,
		window:   time.Minute,
		done:     make(chan struct{}),
	}

	assert.True(t, rl.allow("a"))
	assert.True(t, rl.allow("a"))
	assert.False(t, rl.allow("a"), "third request in window")
	assert.True(t, rl.allow("b"), "other clients have their own budget")

	rl.visitors["a"].lastReset = time.Now().Add(-2 * time.Minute)
	assert.True(t, rl.allow("a"), "budget resets after the window")
}
