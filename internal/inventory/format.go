package inventory

import (
	"path/filepath"
	"strings"
)

// Format identifies how an uploaded file is decoded.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatXLS
	FormatXLSX
)

// String returns the file extension for the format, without the dot.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatXLS:
		return "xls"
	case FormatXLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// IsSpreadsheet reports whether the format is read through the workbook path.
func (f Format) IsSpreadsheet() bool {
	return f == FormatXLS || f == FormatXLSX
}

// allowedExtensions is the upload allow-list, lowercase without the dot.
var allowedExtensions = map[string]Format{
	"csv":  FormatCSV,
	"xls":  FormatXLS,
	"xlsx": FormatXLSX,
}

// AllowedExtensions returns the accepted extensions in display order.
func AllowedExtensions() []string {
	return []string{"csv", "xls", "xlsx"}
}

// FormatFromFilename maps a filename to its Format using the final extension,
// case-insensitively. Empty names, names without an extension and names with
// an extension outside the allow-list return a *UsageError.
func FormatFromFilename(name string) (Format, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return FormatUnknown, &UsageError{Reason: "empty filename"}
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	if ext == "" {
		return FormatUnknown, &UsageError{Filename: name, Reason: "missing file extension"}
	}

	format, ok := allowedExtensions[ext]
	if !ok {
		return FormatUnknown, &UsageError{
			Filename: name,
			Reason:   "unsupported file extension ." + ext + " (allowed: " + strings.Join(AllowedExtensions(), ", ") + ")",
		}
	}
	return format, nil
}
