package core

// # Error Codes Reference
//
// User-facing messages with codes for support reference. Operators quote the
// code from the run report or CLI output; support looks it up here.
//
// # Schema Errors (SCH001-SCH099)
//
//	SCH001 - Missing columns: An input file is missing expected columns
//	         Action: Re-export the extract with the standard column set
//	         Match: *table.MismatchError with Missing set
//
//	SCH002 - Column order: The work address extract columns moved
//	         Action: Re-export using the standard work address layout
//	         Match: *table.MismatchError with Expected and Got set
//
//	SCH003 - Header map conflict: A column is renamed to two names
//	         Action: Fix the duplicate row in the header map file
//	         Patterns: "mapped to both"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File not found: An input file does not exist
//	          Action: Check the input directory and file names
//	          Match: fs.ErrNotExist
//
//	FILE002 - Invalid CSV: An input file is not a valid CSV
//	          Action: Ensure the file is comma-separated with one header row
//	          Patterns: "invalid csv"
//
//	FILE003 - Empty file: An input file has no header row
//	          Action: Re-export the extract
//	          Patterns: "empty file"
//
//	FILE004 - Output write: The master list could not be written
//	          Action: Check that the output directory exists and is writable
//	          Patterns: "write output"
//
// # Publish Errors (DB001-DB099)
//
//	DB001 - Connection refused: Unable to connect to the publish database
//	        Action: Check DATABASE_URL and that the database is running
//	        Patterns: "connection refused"
//
//	DB002 - Publish failed: The master list could not be copied to the database
//	        Action: Check the publish table exists with matching columns
//	        Patterns: "publish"
//
//	DB003 - Column drift: The publish table has different columns
//	        Action: Drop the publish table so the next run recreates it
//	        Patterns: "columns differ"
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - Run not found: The run is unknown or no longer kept
//	         Match: ErrRunNotFound
//
//	RUN002 - Run in progress: Another run is still executing
//	         Match: ErrRunInProgress
//
//	RUN003 - Cancelled: The run was cancelled
//	         Match: context.Canceled
//
//	RUN004 - Timed out: The run took too long
//	         Match: context.DeadlineExceeded
//
//	RUN005 - No output: The run failed and produced no master list
//	         Match: ErrNoOutput
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Check the logs for the run ID
//
// # Matching
//
// Sentinel errors are matched first with errors.Is, then schema mismatches
// with errors.As. Remaining errors are
// matched case-insensitively with strings.Contains; the first matching
// pattern wins, so specific patterns come before general ones.

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/JonMunkholm/MasterList/internal/table"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// errorSentinel maps an error matched with errors.Is to a user message.
type errorSentinel struct {
	target error
	msg    UserMessage
}

// Schema mismatch messages, chosen by the shape of *table.MismatchError.
var (
	missingColumnsMessage = UserMessage{
		Message: "An input file is missing expected columns",
		Action:  "Re-export the extract with the standard column set",
		Code:    "SCH001",
	}
	columnOrderMessage = UserMessage{
		Message: "Work address columns are not in the expected order",
		Action:  "Re-export using the standard work address layout",
		Code:    "SCH002",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorSentinels = []errorSentinel{
	{
		target: ErrRunNotFound,
		msg: UserMessage{
			Message: "Run not found",
			Action:  "The run may be older than the kept history. Start a new run",
			Code:    "RUN001",
		},
	},
	{
		target: ErrRunInProgress,
		msg: UserMessage{
			Message: "Another run is still executing",
			Action:  "Wait for it to finish and try again",
			Code:    "RUN002",
		},
	},
	{
		target: context.Canceled,
		msg: UserMessage{
			Message: "Run was cancelled",
			Action:  "Start a new run when ready",
			Code:    "RUN003",
		},
	},
	{
		target: context.DeadlineExceeded,
		msg: UserMessage{
			Message: "Run timed out",
			Action:  "Try again, or raise the request timeout",
			Code:    "RUN004",
		},
	},
	{
		target: ErrNoOutput,
		msg: UserMessage{
			Message: "This run has no output",
			Action:  "Open the run report to see why it failed",
			Code:    "RUN005",
		},
	},
	{
		target: fs.ErrNotExist,
		msg: UserMessage{
			Message: "Input file not found",
			Action:  "Check the input directory and file names",
			Code:    "FILE001",
		},
	},
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. Order matters: the first match wins.
var errorPatterns = []errorPattern{
	// Schema errors
	{
		pattern: "mapped to both",
		msg: UserMessage{
			Message: "The header map renames a column twice",
			Action:  "Fix the duplicate row in the header map file",
			Code:    "SCH003",
		},
	},

	// File errors
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "Input file is not a valid CSV",
			Action:  "Ensure the file is comma-separated with one header row",
			Code:    "FILE002",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "Input file is empty",
			Action:  "Re-export the extract",
			Code:    "FILE003",
		},
	},
	{
		pattern: "write output",
		msg: UserMessage{
			Message: "The master list could not be written",
			Action:  "Check that the output directory exists and is writable",
			Code:    "FILE004",
		},
	},

	// Publish errors
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to the publish database",
			Action:  "Check DATABASE_URL and that the database is running",
			Code:    "DB001",
		},
	},
	{
		pattern: "columns differ",
		msg: UserMessage{
			Message: "The publish table has different columns than the master list",
			Action:  "Drop the publish table so the next run recreates it",
			Code:    "DB003",
		},
	},
	{
		pattern: "publish",
		msg: UserMessage{
			Message: "The master list could not be published",
			Action:  "Check the publish table exists with matching columns",
			Code:    "DB002",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for the run ID",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Sentinels are checked first, then patterns; ERR000 is the fallback.
//
// Example:
//
//	err := fmt.Errorf("load jobs: %w", &table.MismatchError{...})
//	msg := MapError(err)
//	// msg.Code == "SCH001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, es := range errorSentinels {
		if errors.Is(err, es.target) {
			return es.msg
		}
	}

	var mismatch *table.MismatchError
	if errors.As(err, &mismatch) {
		if len(mismatch.Missing) > 0 {
			return missingColumnsMessage
		}
		return columnOrderMessage
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
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
