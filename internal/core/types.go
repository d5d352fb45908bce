package core

import (
	"time"
)

// DirectoryID identifies a directory node. Valid ids are positive.
type DirectoryID int64

// RootParent is the parent id of a root directory.
const RootParent DirectoryID = 0

// FileID identifies an uploaded or seeded file record.
type FileID int64

// Directory is a named node in the directory forest.
type Directory struct {
	ID       DirectoryID `json:"id"`
	Name     string      `json:"name"`
	ParentID DirectoryID `json:"parent_id,omitempty"`
}

// IsRoot returns true if the directory has no parent.
func (d Directory) IsRoot() bool {
	return d.ParentID == RootParent
}

// TreeRow is one visible line of the directory tree.
type TreeRow struct {
	Directory   Directory `json:"directory"`
	Depth       int       `json:"depth"`
	HasChildren bool      `json:"has_children"`
	Expanded    bool      `json:"expanded"`
}

// Cell is the string form of a single tabular value.
type Cell string

// Content is the canonical tabular form of a file: a header of unique column
// names and data rows positional against that header.
type Content struct {
	Header []string `json:"header"`
	Rows   [][]Cell `json:"rows"`
}

// FileRecord is a tabular file attached to exactly one directory.
type FileRecord struct {
	ID          FileID      `json:"id"`
	Name        string      `json:"name"`
	DirectoryID DirectoryID `json:"directory_id"`
	Content     Content     `json:"content"`
	UploadedAt  time.Time   `json:"uploaded_at"`
}

// MergedRow is one data row of a merged table, keyed by column name.
// Columns the source file does not have are absent from Cells.
type MergedRow struct {
	FileID FileID          `json:"file_id"`
	Cells  map[string]Cell `json:"cells"`
}

// Get returns the cell for a column and whether it is present.
func (r MergedRow) Get(column string) (Cell, bool) {
	c, ok := r.Cells[column]
	return c, ok
}

// MergedTable is the column-unioned, row-concatenated view of a directory.
type MergedTable struct {
	Columns []string    `json:"columns"`
	Rows    []MergedRow `json:"rows"`
}

// SearchHit is a matching file together with the name of its directory.
type SearchHit struct {
	File          FileRecord `json:"file"`
	DirectoryName string     `json:"directory_name"`
}

// ParseMode selects how uploaded CSV text is interpreted.
type ParseMode string

const (
	// ParseRaw treats the first record as the header row.
	ParseRaw ParseMode = "raw"
	// ParseHeader keys records by the header and skips empty lines.
	ParseHeader ParseMode = "header"
)

// UploadPhase indicates the current stage of upload processing.
type UploadPhase string

const (
	PhaseReading  UploadPhase = "reading"
	PhaseComplete UploadPhase = "complete"
	PhaseFailed   UploadPhase = "failed"
)

// UploadProgress represents the current state of an upload operation.
type UploadProgress struct {
	UploadID    string      `json:"upload_id"`
	DirectoryID DirectoryID `json:"directory_id"`
	FileName    string      `json:"file_name"`
	Phase       UploadPhase `json:"phase"`
	BytesRead   int64       `json:"bytes_read"`
	BytesTotal  int64       `json:"bytes_total"`
	Error       string      `json:"error,omitempty"` // Non-empty if Phase is PhaseFailed
}

// Percent returns the read progress as a percentage (0-100).
func (p UploadProgress) Percent() int {
	if p.Phase == PhaseComplete {
		return 100
	}
	if p.BytesTotal > 0 {
		return int((p.BytesRead * 100) / p.BytesTotal)
	}
	return 0
}

// UploadResult contains the final result of an upload operation.
type UploadResult struct {
	UploadID    string        `json:"upload_id"`
	DirectoryID DirectoryID   `json:"directory_id"`
	FileName    string        `json:"file_name"`
	File        *FileRecord   `json:"file,omitempty"` // nil unless the upload succeeded
	Rows        int           `json:"rows"`
	Columns     int           `json:"columns"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
	Err         error         `json:"-"`
}

// AnalyticsPoint is one month of the analytics dashboard series.
type AnalyticsPoint struct {
	Month       string `json:"month" yaml:"month"`
	Experiments int    `json:"experiments" yaml:"experiments"`
	SuccessRate int    `json:"success_rate" yaml:"success_rate"`
}
