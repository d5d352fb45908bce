package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern maps a sentinel error or a message fragment to a user message.
type errorPattern struct {
	target  error
	pattern string
	msg     UserMessage
}

func (ep errorPattern) matches(err error, lower string) bool {
	if ep.target != nil && errors.Is(err, ep.target) {
		return true
	}
	return ep.pattern != "" && strings.Contains(lower, ep.pattern)
}

// errorPatterns is ordered: the first match wins.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Directory Errors (DIR001-DIR003)
	// =========================================================================
	{
		target: ErrInvalidParent,
		msg: UserMessage{
			Message: "The parent directory does not exist",
			Action:  "Refresh the page and choose an existing folder",
			Code:    "DIR001",
		},
	},
	{
		target: ErrInvalidDirectory,
		msg: UserMessage{
			Message: "The directory does not exist",
			Action:  "Refresh the page and select an existing folder",
			Code:    "DIR002",
		},
	},
	{
		target: ErrEmptyName,
		msg: UserMessage{
			Message: "A name is required",
			Action:  "Enter a folder name",
			Code:    "DIR003",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE008)
	// Empty-file and header checks are wrapped in ParseError, so they must
	// precede the generic invalid csv entry.
	// =========================================================================
	{
		target: ErrFileTooLarge,
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		target: errEmptyFile,
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a CSV file with a header row",
			Code:    "FILE005",
		},
	},
	{
		target: errMissingHeader,
		msg: UserMessage{
			Message: "The first row of the file is blank",
			Action:  "Put the column names on the first line",
			Code:    "FILE006",
		},
	},
	{
		target: ErrParseFailure,
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Check for unbalanced quotes and make sure the file is comma-separated",
			Code:    "FILE002",
		},
	},
	{
		target: ErrNoFile,
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to upload",
			Code:    "FILE004",
		},
	},
	{
		target: ErrFileNotFound,
		msg: UserMessage{
			Message: "File not found",
			Action:  "The file may have been removed. Refresh the folder",
			Code:    "FILE008",
		},
	},
	{
		target: errUnknownParseMode,
		msg: UserMessage{
			Message: "The parse mode is not supported",
			Action:  "Choose raw or header mode",
			Code:    "FILE007",
		},
	},

	// =========================================================================
	// Upload Errors (UPL002-UPL005)
	// =========================================================================
	{
		target: ErrTooManyUploads,
		msg: UserMessage{
			Message: "System is busy processing other uploads",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		target: ErrUploadNotFound,
		msg: UserMessage{
			Message: "Upload session not found",
			Action:  "The upload may have expired. Please start a new upload",
			Code:    "UPL003",
		},
	},
	{
		target: context.Canceled,
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		target: context.DeadlineExceeded,
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try uploading a smaller file or check your connection",
			Code:    "UPL005",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL002)
	// =========================================================================
	{
		target: ErrInvalidSettings,
		msg: UserMessage{
			Message: "Some settings are invalid",
			Action:  "Check the highlighted fields and save again",
			Code:    "VAL001",
		},
	},
	{
		target: ErrInvalidSeed,
		msg: UserMessage{
			Message: "The seed dataset is inconsistent",
			Action:  "Fix the seed file and restart the server",
			Code:    "VAL002",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. If no
// entry matches, the ERR000 fallback is returned.
//
//	msg := MapError(fmt.Errorf("%w: 7", ErrInvalidDirectory))
//	// msg.Code == "DIR002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	lower := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if ep.matches(err, lower) {
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

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
