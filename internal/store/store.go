// Package store keeps generated bookmark documents on disk between the
// upload that creates them and the download that claims them.
//
// Every document lives in its own directory named by a random UUID, so two
// uploads for the same group never overwrite each other. A document is
// removed once it has been downloaded, or by the janitor after it expires.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/exporter-bookmarks/internal/core"
)

// ErrNotFound is returned for unknown, malformed or already claimed ids.
var ErrNotFound = errors.New("download not found")

// Layout of a download directory.
const (
	contentFile  = "doc.html"
	nameFile     = "name"
	fallbackName = "bookmarks.html"
)

// Store is a directory of pending downloads. It is safe for concurrent use:
// each id is only ever written once and reads go straight to the file system.
type Store struct {
	root string
}

// New creates root if needed and returns a Store backed by it.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("store root directory is required")
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the directory the store writes to.
func (s *Store) Root() string {
	return s.root
}

// Put writes doc and returns the id it can be downloaded under. The content
// is stored under a fixed name; the download name is kept beside it so group
// names of any length survive file system name limits.
func (s *Store) Put(doc *core.Document) (string, error) {
	if doc == nil {
		return "", errors.New("nil document")
	}

	id := uuid.NewString()
	dir := filepath.Join(s.root, id)
	if err := os.Mkdir(dir, 0o700); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, nameFile), []byte(doc.Filename), 0o600); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("write document name: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, contentFile), doc.Content, 0o600); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("write document: %w", err)
	}
	return id, nil
}

// Download is an open stored document.
type Download struct {
	*os.File
	Name    string
	Size    int64
	ModTime time.Time
}

// Open returns the document stored under id. The caller must close it.
func (s *Store) Open(id string) (*Download, error) {
	dir, err := s.dir(id)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(dir, contentFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open download: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat download: %w", err)
	}

	name := fallbackName
	if raw, err := os.ReadFile(filepath.Join(dir, nameFile)); err == nil {
		name = SafeFilename(string(raw))
	}
	return &Download{File: f, Name: name, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Remove deletes the document stored under id. Removing an unknown id
// returns ErrNotFound.
func (s *Store) Remove(id string) error {
	dir, err := s.dir(id)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove download: %w", err)
	}
	return nil
}

// Sweep removes documents older than maxAge and reports how many it removed.
func (s *Store) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("read store root: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	var errs []error
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := uuid.Parse(e.Name()); err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.root, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// StartJanitor sweeps expired documents every interval until ctx is done.
func (s *Store) StartJanitor(ctx context.Context, interval, maxAge time.Duration) {
	slog.Info("download janitor started",
		"root", s.root,
		"interval", interval.String(),
		"ttl", maxAge.String(),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("download janitor stopped")
			return
		case <-ticker.C:
			start := time.Now()
			n, err := s.Sweep(maxAge)
			if err != nil {
				slog.Error("download sweep failed", "error", err, "removed", n)
				continue
			}
			if n > 0 {
				slog.Info("expired downloads removed",
					"removed", n,
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}
		}
	}
}

// dir maps an id to its directory. Only canonical UUIDs are accepted so an
// id can never point outside the root.
func (s *Store) dir(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.String() != id {
		return "", ErrNotFound
	}
	return filepath.Join(s.root, id), nil
}

// SafeFilename strips path separators and control characters from a
// download name.
func SafeFilename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, name)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return fallbackName
	}
	return cleaned
}
