package inventory

import (
	"errors"
	"fmt"
)

// ErrEmptyFile is wrapped by ParseError when the upload has no header row.
var ErrEmptyFile = errors.New("empty file")

// UsageError reports a request the reader refuses before parsing starts:
// an empty filename or an extension outside the allow-list.
type UsageError struct {
	Filename string
	Reason   string
}

func (e *UsageError) Error() string {
	if e.Filename == "" {
		return "usage error: " + e.Reason
	}
	return fmt.Sprintf("usage error: %s: %q", e.Reason, e.Filename)
}

// ParseError reports malformed file content. The underlying decoder error is
// kept for logging and is reachable through errors.Unwrap.
type ParseError struct {
	Format Format
	Line   int // 0 when the decoder does not report a position
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s file at line %d: %v", e.Format, e.Line, e.Err)
	}
	return fmt.Sprintf("parse error in %s file: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
