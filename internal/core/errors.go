package core

import (
	"errors"
	"fmt"

	"github.com/JonMunkholm/exporter-bookmarks/internal/inventory"
)

// UsageError is a request the pipeline rejects before reading any content:
// an empty or disallowed filename, or a missing form field.
type UsageError = inventory.UsageError

// ParseError reports malformed spreadsheet content.
type ParseError = inventory.ParseError

// ErrTooManyConversions is returned when every conversion slot is busy and
// the wait timeout expires. Clients should retry after a short delay.
var ErrTooManyConversions = errors.New("too many concurrent conversions, please try again later")

// MissingFieldError reports a matched row whose table lacks a column the
// bookmark needs (Country, Location or IP Address).
type MissingFieldError struct {
	Field        string
	Line         int
	ExporterType string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q for %s match at line %d", e.Field, e.ExporterType, e.Line)
}

// ErrorKind classifies pipeline errors for transport layers.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindUsage
	KindParse
	KindMissingField
	KindBusy
)

// Classify reports which class of the error taxonomy err belongs to.
func Classify(err error) ErrorKind {
	var (
		ue *UsageError
		pe *ParseError
		me *MissingFieldError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &ue):
		return KindUsage
	case errors.As(err, &pe):
		return KindParse
	case errors.As(err, &me):
		return KindMissingField
	case errors.Is(err, ErrTooManyConversions):
		return KindBusy
	default:
		return KindUnknown
	}
}
