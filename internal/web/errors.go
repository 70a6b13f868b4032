package web

// errors.go renders pipeline errors for clients.
//
// The technical error is logged with the request ID; the client only sees
// the message, action and code from core.MapError. API routes and clients
// that accept JSON get an ErrorResponse body, browsers get an HTML page.

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/exporter-bookmarks/internal/core"
	"github.com/JonMunkholm/exporter-bookmarks/internal/logging"
	"github.com/JonMunkholm/exporter-bookmarks/internal/store"
	"github.com/JonMunkholm/exporter-bookmarks/internal/web/templates"
)

// ErrorResponse is the JSON body of API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusForError picks the HTTP status for a pipeline or store error.
func statusForError(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	switch core.Classify(err) {
	case core.KindUsage:
		return http.StatusBadRequest
	case core.KindParse, core.KindMissingField:
		return http.StatusUnprocessableEntity
	case core.KindBusy:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the mapped user message with statusCode.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	args := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= 500 {
		logger.Error("request error", args...)
	} else {
		logger.Warn("request error", args...)
	}

	if statusCode == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
	} else {
		respondErrorHTML(w, r, userMsg, statusCode)
	}
}

func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	templates.ErrorPage(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
