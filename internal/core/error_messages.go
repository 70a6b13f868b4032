package core

// error_messages.go maps technical errors to user-facing messages with codes
// that users can quote to support.
//
// # Usage Errors (USE001-USE099)
//
//	USE001 - Unsupported file type: extension is not csv, xls or xlsx
//	         Patterns: "unsupported file extension", "missing file extension"
//	USE002 - No file: empty filename or no file part in the form
//	         Patterns: "empty filename", "no file provided"
//	USE003 - No group_name field in the upload form
//	         Patterns: "missing group name"
//	USE004 - Missing form field
//	         Patterns: "missing form field"
//
// # Parse Errors (PARSE001-PARSE099)
//
//	PARSE001 - Empty file: no header row
//	           Patterns: "empty file"
//	PARSE002 - Malformed spreadsheet
//	           Patterns: "parse error"
//
// # Field Errors (FIELD001-FIELD099)
//
//	FIELD001 - Required column missing for a matched row
//	           Patterns: "missing required field"
//
// # Conversion Errors (CONV001-CONV099)
//
//	CONV001 - System busy: every conversion slot is in use
//	CONV002 - File too large
//	CONV003 - Request timed out
//	CONV004 - Request cancelled
//
// # Download Errors (DL001-DL099)
//
//	DL001 - Download not found or already retrieved
//
// # Rate Limiting (RATE001)
//
// # Default (ERR000)
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns come before general ones ("empty filename"
// before "empty file", "empty file" before "parse error").

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Usage errors
	{
		pattern: "unsupported file extension",
		msg: UserMessage{
			Message: "This file type is not supported",
			Action:  "Upload a .csv, .xls or .xlsx inventory file",
			Code:    "USE001",
		},
	},
	{
		pattern: "missing file extension",
		msg: UserMessage{
			Message: "The file has no extension",
			Action:  "Upload a .csv, .xls or .xlsx inventory file",
			Code:    "USE001",
		},
	},
	{
		pattern: "empty filename",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please choose an inventory file to upload",
			Code:    "USE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please choose an inventory file to upload",
			Code:    "USE002",
		},
	},
	{
		pattern: "missing group name",
		msg: UserMessage{
			Message: "The group name field is missing",
			Action:  "Submit the upload form with a group name field",
			Code:    "USE003",
		},
	},
	{
		pattern: "missing form field",
		msg: UserMessage{
			Message: "The upload form is incomplete",
			Action:  "Submit both the file and the group name",
			Code:    "USE004",
		},
	},

	// Parse errors
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload an inventory with a header row",
			Code:    "PARSE001",
		},
	},
	{
		pattern: "parse error",
		msg: UserMessage{
			Message: "The spreadsheet could not be read",
			Action:  "Check the file is a valid CSV or Excel workbook (save legacy .xls files as .xlsx)",
			Code:    "PARSE002",
		},
	},

	// Field errors
	{
		pattern: "missing required field",
		msg: UserMessage{
			Message: "A required column is missing from the inventory",
			Action:  "Make sure the sheet has Country, Location and IP Address columns",
			Code:    "FIELD001",
		},
	},

	// Conversion errors
	{
		pattern: "too many concurrent conversions",
		msg: UserMessage{
			Message: "The system is busy converting other uploads",
			Action:  "Please wait a moment and try again",
			Code:    "CONV001",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Remove unused sheets or columns and try again",
			Code:    "CONV002",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Remove unused sheets or columns and try again",
			Code:    "CONV002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try again with a smaller file",
			Code:    "CONV003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "CONV004",
		},
	},

	// Downloads
	{
		pattern: "download not found",
		msg: UserMessage{
			Message: "This download is no longer available",
			Action:  "Bookmark files can be downloaded once; upload the inventory again",
			Code:    "DL001",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000). Support staff
// should check the server log for the original error.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. A nil
// error maps to the zero UserMessage; an unknown one to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
