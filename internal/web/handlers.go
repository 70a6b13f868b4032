package web

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/exporter-bookmarks/internal/inventory"
	"github.com/JonMunkholm/exporter-bookmarks/internal/web/templates"
)

// handleIndex serves the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := templates.UploadPage(templates.UploadPageData{
		Extensions:  inventory.AllowedExtensions(),
		Exporters:   s.service.Exporters(),
		MaxFileSize: s.cfg.Upload.MaxFileSize,
	})
	templ.Handler(page).ServeHTTP(w, r)
}

// handleHealth reports liveness and conversion slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"conversions": s.service.LimiterStatus(),
	})
}
