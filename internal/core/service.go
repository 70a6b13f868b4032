package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/JonMunkholm/exporter-bookmarks/internal/inventory"
	"github.com/JonMunkholm/exporter-bookmarks/internal/logging"
)

// Options configures a Service. Zero values fall back to the built-in
// exporter tokens, no URL rules and the default limiter settings.
type Options struct {
	Exporters     []string
	Rules         RuleSet
	Deduplicate   bool
	MaxConcurrent int
	MaxWait       time.Duration
}

// Service runs the upload-to-bookmarks pipeline: read the inventory, filter
// exporter rows, group them and render the bookmark document. A Service is
// safe for concurrent use; it holds no per-request state.
type Service struct {
	exporters []string
	rules     RuleSet
	dedupe    bool
	limiter   *ConversionLimiter
}

// NewService creates a Service from opts.
func NewService(opts Options) (*Service, error) {
	exporters := opts.Exporters
	if len(exporters) == 0 {
		exporters = DefaultExporters
	}
	for _, token := range exporters {
		if strings.TrimSpace(token) == "" {
			return nil, fmt.Errorf("exporter list contains an empty token")
		}
	}

	return &Service{
		exporters: append([]string(nil), exporters...),
		rules:     opts.Rules,
		dedupe:    opts.Deduplicate,
		limiter:   NewConversionLimiter(opts.MaxConcurrent, opts.MaxWait),
	}, nil
}

// ConvertRequest is one uploaded inventory file.
type ConvertRequest struct {
	Filename string    // original upload name, used for the extension check
	Group    string    // caller-supplied top-level folder name
	Body     io.Reader // file content, read once
}

// Document is a generated bookmark file ready for download.
type Document struct {
	Filename string
	Group    string
	Content  []byte
	Rows     int // data rows read from the inventory
	Records  int // bookmarks written
}

// DocumentFilename returns the suggested download name for a group.
func DocumentFilename(group string) string {
	return "bookmarks_" + group + ".html"
}

// Convert validates the request, then reads, filters, groups and renders it.
//
// A disallowed filename returns a *UsageError before the body is touched.
// The group name is used verbatim, including an empty one. Malformed content
// returns a *ParseError. An inventory with no matching rows is not an error:
// the document has an empty body.
func (s *Service) Convert(ctx context.Context, req ConvertRequest) (*Document, error) {
	format, err := inventory.FormatFromFilename(req.Filename)
	if err != nil {
		return nil, err
	}
	if req.Body == nil {
		return nil, &UsageError{Filename: req.Filename, Reason: "no file provided"}
	}

	release, err := s.limiter.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	logger := logging.WithFields(ctx,
		"file", req.Filename,
		"format", format.String(),
		"group", req.Group,
	)
	if ip := ClientIPFromContext(ctx); ip != "" {
		logger = logger.With("client_ip", ip)
	}
	start := time.Now()

	body := &countingReader{r: req.Body}
	table, err := inventory.Read(body, format)
	if err != nil {
		return nil, err
	}

	records, err := Filter(table, s.exporters, req.Group, FilterOptions{Deduplicate: s.dedupe})
	if err != nil {
		return nil, err
	}

	tree := BuildTree(records)

	var buf bytes.Buffer
	if err := RenderBookmarks(&buf, tree, s.rules); err != nil {
		return nil, fmt.Errorf("render bookmarks: %w", err)
	}

	logger.Info("conversion completed",
		"bytes", body.n,
		"rows", table.Len(),
		"records", len(records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if len(records) == 0 {
		logger.Warn("no exporter rows matched", "exporters", s.exporters)
	}

	return &Document{
		Filename: DocumentFilename(req.Group),
		Group:    req.Group,
		Content:  buf.Bytes(),
		Rows:     table.Len(),
		Records:  len(records),
	}, nil
}

// Exporters returns the exporter tokens the service filters on.
func (s *Service) Exporters() []string {
	return append([]string(nil), s.exporters...)
}

// Rules returns the URL rules used for bookmark targets.
func (s *Service) Rules() RuleSet {
	return s.rules
}

// LimiterStatus reports conversion slot usage.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForConversions blocks until in-flight conversions finish or ctx ends.
func (s *Service) WaitForConversions(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// countingReader records how many upload bytes the reader consumed.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
