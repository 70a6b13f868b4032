// Package templates holds the templ components served by the web package.
// Components are written in .templ files; run `templ generate` after
// editing them.
package templates

import (
	"fmt"
	"strings"
)

// UploadPageData configures the upload form.
type UploadPageData struct {
	Extensions  []string // accepted file extensions without the dot
	Exporters   []string // exporter tokens the filter matches
	MaxFileSize int64
}

// acceptList renders extensions for the file input's accept attribute.
func acceptList(extensions []string) string {
	accept := make([]string, len(extensions))
	for i, ext := range extensions {
		accept[i] = "." + ext
	}
	return strings.Join(accept, ",")
}

// formatBytes renders n as a short human-readable size.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.0f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
