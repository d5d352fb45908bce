package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParent is returned when a directory insert names an unknown parent.
	ErrInvalidParent = errors.New("invalid parent directory")

	// ErrInvalidDirectory is returned when an operation names an unknown directory.
	ErrInvalidDirectory = errors.New("invalid directory")

	// ErrParseFailure is returned when uploaded CSV content cannot be parsed.
	ErrParseFailure = errors.New("invalid csv")

	// ErrEmptyName is returned when a directory or file name is blank.
	ErrEmptyName = errors.New("empty name")

	// ErrUploadNotFound is returned for an unknown or expired upload id.
	ErrUploadNotFound = errors.New("upload not found")

	// ErrFileTooLarge is returned when an upload exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrFileNotFound is returned for an unknown file id.
	ErrFileNotFound = errors.New("file not found")

	// ErrNoFile is returned when an upload request carries no file.
	ErrNoFile = errors.New("no file provided")

	// ErrInvalidSeed is returned when seed data is inconsistent (unknown parent, duplicate id).
	ErrInvalidSeed = errors.New("invalid seed data")

	// ErrInvalidSettings is returned when submitted settings fail validation.
	ErrInvalidSettings = errors.New("invalid settings")
)

// ParseError describes why a file could not be parsed. It wraps ErrParseFailure.
type ParseError struct {
	FileName string
	Line     int // 0 when the failure is not tied to a line
	Err      error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: invalid csv at line %d: %v", e.FileName, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: invalid csv: %v", e.FileName, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParseFailure, e.Err}
}
