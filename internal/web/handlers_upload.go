package web

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/exporter-bookmarks/internal/core"
	"github.com/JonMunkholm/exporter-bookmarks/internal/logging"
	"github.com/JonMunkholm/exporter-bookmarks/internal/web/middleware"
)

const (
	formFieldFile  = "file"
	formFieldGroup = "group_name"
)

// handleUpload converts the uploaded inventory, stores the result and
// redirects the browser to its one-time download URL.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	doc, err := s.convertUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusForError(err))
		return
	}

	id, err := s.downloads.Put(doc)
	if err != nil {
		respondError(w, r, fmt.Errorf("store document: %w", err), http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("download ready",
		"download_id", id,
		"file", doc.Filename,
		"records", doc.Records,
	)
	http.Redirect(w, r, "/downloads/"+id, http.StatusSeeOther)
}

// handleDownload sends a stored document as an attachment and removes it.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, err := s.downloads.Open(id)
	if err != nil {
		respondError(w, r, err, statusForError(err))
		return
	}

	func() {
		defer d.Close()
		setAttachmentHeaders(w, d.Name)
		http.ServeContent(w, r, d.Name, d.ModTime, d.File)
	}()

	// Partial responses leave the document for the rest of a resumed download.
	if r.Header.Get("Range") != "" {
		return
	}
	if err := s.downloads.Remove(id); err != nil {
		logging.FromContext(r.Context()).Warn("failed to remove download",
			"download_id", id,
			"error", err,
		)
	}
}

// handleAPIConvert runs the conversion and streams the document back in the
// response body without storing it.
func (s *Server) handleAPIConvert(w http.ResponseWriter, r *http.Request) {
	doc, err := s.convertUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusForError(err))
		return
	}

	setAttachmentHeaders(w, doc.Filename)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Content)))
	w.Header().Set("X-Bookmark-Records", strconv.Itoa(doc.Records))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Content); err != nil {
		logging.FromContext(r.Context()).Warn("failed to write document", "error", err)
	}
}

// convertUpload reads the multipart form and runs the pipeline on it.
func (s *Server) convertUpload(w http.ResponseWriter, r *http.Request) (*core.Document, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	if r.ContentLength > maxSize {
		return nil, fmt.Errorf("file too large: %w", &http.MaxBytesError{Limit: maxSize})
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("file too large: %w", err)
		}
		return nil, &core.UsageError{Reason: fmt.Sprintf("missing form field %q", formFieldFile)}
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(formFieldFile)
	if err != nil {
		return nil, &core.UsageError{Reason: "no file provided"}
	}
	defer file.Close()

	if _, ok := r.MultipartForm.Value[formFieldGroup]; !ok {
		return nil, &core.UsageError{Reason: "missing group name"}
	}

	ctx := core.ContextWithClientIP(r.Context(), middleware.ClientIP(r))
	return s.service.Convert(ctx, core.ConvertRequest{
		Filename: header.Filename,
		Group:    r.FormValue(formFieldGroup),
		Body:     file,
	})
}

func setAttachmentHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Cache-Control", "no-store")
}
