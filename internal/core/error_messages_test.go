package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "invalid parent maps by sentinel",
			err:         fmt.Errorf("%w: 99", ErrInvalidParent),
			wantCode:    "DIR001",
			wantMessage: "The parent directory does not exist",
		},
		{
			name:        "invalid directory maps by sentinel",
			err:         fmt.Errorf("%w: 7", ErrInvalidDirectory),
			wantCode:    "DIR002",
			wantMessage: "The directory does not exist",
		},
		{
			name:        "empty name",
			err:         ErrEmptyName,
			wantCode:    "DIR003",
			wantMessage: "A name is required",
		},
		{
			name:        "file too large",
			err:         fmt.Errorf("%w: 200 bytes exceeds 100", ErrFileTooLarge),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum upload size",
		},
		{
			name:        "bad quotes map to invalid csv",
			err:         &ParseError{FileName: "a.csv", Line: 3, Err: errors.New(`bare " in non-quoted field`)},
			wantCode:    "FILE002",
			wantMessage: "File is not a valid CSV",
		},
		{
			name:        "empty file wins over invalid csv",
			err:         &ParseError{FileName: "a.csv", Err: errEmptyFile},
			wantCode:    "FILE005",
			wantMessage: "The uploaded file is empty",
		},
		{
			name:        "missing header wins over invalid csv",
			err:         &ParseError{FileName: "a.csv", Line: 1, Err: errMissingHeader},
			wantCode:    "FILE006",
			wantMessage: "The first row of the file is blank",
		},
		{
			name:        "no file",
			err:         ErrNoFile,
			wantCode:    "FILE004",
			wantMessage: "No file was selected",
		},
		{
			name:        "too many uploads",
			err:         ErrTooManyUploads,
			wantCode:    "UPL002",
			wantMessage: "System is busy processing other uploads",
		},
		{
			name:        "file not found",
			err:         fmt.Errorf("%w: 7", ErrFileNotFound),
			wantCode:    "FILE008",
			wantMessage: "File not found",
		},
		{
			name:        "upload not found",
			err:         fmt.Errorf("%w: abc", ErrUploadNotFound),
			wantCode:    "UPL003",
			wantMessage: "Upload session not found",
		},
		{
			name:        "unknown parse mode",
			err:         fmt.Errorf("%w %q", errUnknownParseMode, "xml"),
			wantCode:    "FILE007",
			wantMessage: "The parse mode is not supported",
		},
		{
			name:        "cancelled upload",
			err:         fmt.Errorf("upload: %w", context.Canceled),
			wantCode:    "UPL004",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "deadline exceeded",
			err:         context.DeadlineExceeded,
			wantCode:    "UPL005",
			wantMessage: "Request timed out",
		},
		{
			name:        "invalid settings",
			err:         fmt.Errorf("%w: email must be a valid email", ErrInvalidSettings),
			wantCode:    "VAL001",
			wantMessage: "Some settings are invalid",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("RATE LIMIT hit"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestMapError_FileNameDoesNotPickCode(t *testing.T) {
	names := []string{"data.csv", "empty file.csv", "missing header row.csv", "unknown parse mode.csv", "context canceled.csv"}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCSV(name, strings.NewReader("a,\"b\nc,d\n"), ParseHeader)
			if err == nil {
				t.Fatal("ParseCSV() expected error")
			}
			if got := MapError(err).Code; got != "FILE002" {
				t.Errorf("MapError(%q).Code = %s, want FILE002", err, got)
			}
		})
	}
}

func TestMapError_CodesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, ep := range errorPatterns {
		if seen[ep.msg.Code] {
			t.Errorf("code %s is used by more than one entry", ep.msg.Code)
		}
		seen[ep.msg.Code] = true
		if ep.target == nil && ep.pattern == "" {
			t.Errorf("entry %s has neither target nor pattern", ep.msg.Code)
		}
		if ep.pattern != strings.ToLower(ep.pattern) {
			t.Errorf("pattern %q must be lowercase", ep.pattern)
		}
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrEmptyName)

	expected := "A name is required (Code: DIR003). Enter a folder name"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  fmt.Errorf("select: %w", ErrInvalidDirectory),
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("%w: 42", ErrInvalidParent)
		userErr := NewUserError(techErr)

		if userErr.Error() != "The parent directory does not exist" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrInvalidParent) {
			t.Error("Unwrap() should expose the sentinel")
		}
	})
}
