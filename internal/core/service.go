package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/JonMunkholm/chemlab/internal/logging"
	"github.com/JonMunkholm/chemlab/internal/metrics"
)

// ServiceConfig tunes upload handling. Zero values fall back to defaults.
type ServiceConfig struct {
	MaxFileSize     int64         // bytes; default 10MB
	MaxConcurrent   int           // parallel uploads
	MaxWaitTime     time.Duration // wait for an upload slot
	UploadTimeout   time.Duration // read + parse deadline; default 2m
	ResultRetention time.Duration // how long finished uploads stay queryable; default 5m
}

const (
	defaultMaxFileSize     = 10 * 1024 * 1024
	defaultUploadTimeout   = 2 * time.Minute
	defaultResultRetention = 5 * time.Minute
)

// Service is one workspace session: the directory tree, the files, the
// expansion state, the active directory and its merged table.
//
// Every mutation runs to completion under mu before the next one starts,
// so handlers observe the stores as a sequence of discrete events.
type Service struct {
	cfg ServiceConfig

	mu         sync.Mutex
	tree       *TreeStore
	records    *RecordStore
	expanded   *ExpansionState
	active     DirectoryID // RootParent when nothing is selected
	merged     MergedTable
	settings   Settings
	analytics  []AnalyticsPoint
	recomputes int

	limiter   *UploadLimiter
	uploadsMu sync.RWMutex
	uploads   map[string]*activeUpload
}

// NewService builds a workspace from seed.
func NewService(seed Seed, cfg ServiceConfig) (*Service, error) {
	tree, records, expanded, err := seed.build()
	if err != nil {
		return nil, fmt.Errorf("build workspace: %w", err)
	}

	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = defaultMaxFileSize
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = defaultUploadTimeout
	}
	if cfg.ResultRetention <= 0 {
		cfg.ResultRetention = defaultResultRetention
	}

	analytics := make([]AnalyticsPoint, len(seed.Analytics))
	copy(analytics, seed.Analytics)

	s := &Service{
		cfg:       cfg,
		tree:      tree,
		records:   records,
		expanded:  expanded,
		settings:  DefaultSettings(),
		analytics: analytics,
		limiter:   NewUploadLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		uploads:   make(map[string]*activeUpload),
	}
	s.updateGauges()
	return s, nil
}

// Tree returns the visible rows of the directory tree.
func (s *Service) Tree() []TreeRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Visible(s.expanded)
}

// Directories returns every directory in insertion order.
func (s *Service) Directories() []Directory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.All()
}

// Directory returns a directory by id.
func (s *Service) Directory(id DirectoryID) (Directory, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Get(id)
}

// Path returns the directories from the root down to id.
func (s *Service) Path(id DirectoryID) []Directory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Path(id)
}

// CreateDirectory inserts a directory under parent. RootParent creates a root.
func (s *Service) CreateDirectory(ctx context.Context, name string, parent DirectoryID) (Directory, error) {
	s.mu.Lock()
	d, err := s.tree.Insert(name, parent)
	s.mu.Unlock()

	logger := logging.FromContext(ctx)
	if err != nil {
		logger.Warn("directory rejected", "name", name, "parent_id", parent, "error", err)
		return Directory{}, err
	}

	metrics.RecordDirectoryCreated()
	s.updateGauges()
	logger.Info("directory created", "id", d.ID, "name", d.Name, "parent_id", d.ParentID)
	return d, nil
}

// SelectDirectory makes id the active directory and recomputes its merged
// table. Expansion is left untouched.
func (s *Service) SelectDirectory(ctx context.Context, id DirectoryID) (MergedTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tree.Has(id) {
		return MergedTable{}, fmt.Errorf("%w: %d", ErrInvalidDirectory, id)
	}
	s.active = id
	s.recompute()

	logging.FromContext(ctx).Debug("directory selected",
		"id", id,
		"columns", len(s.merged.Columns),
		"rows", len(s.merged.Rows),
	)
	return s.merged, nil
}

// ToggleExpansion flips whether id is expanded and returns the new state.
func (s *Service) ToggleExpansion(id DirectoryID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tree.Has(id) {
		return false, fmt.Errorf("%w: %d", ErrInvalidDirectory, id)
	}
	return s.expanded.Toggle(id), nil
}

// ExpandedIDs returns the expanded directory ids in ascending order.
func (s *Service) ExpandedIDs() []DirectoryID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded.IDs()
}

// Expanded reports whether id is expanded.
func (s *Service) Expanded(id DirectoryID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded.Has(id)
}

// ActiveDirectory returns the selected directory and its merged table.
// ok is false when nothing is selected.
func (s *Service) ActiveDirectory() (dir Directory, table MergedTable, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == RootParent {
		return Directory{}, MergedTable{}, false
	}
	dir, _ = s.tree.Get(s.active)
	return dir, s.merged, true
}

// AddFile stores already-parsed content under directoryID. When the
// directory is active its merged table is recomputed once.
func (s *Service) AddFile(ctx context.Context, name string, directoryID DirectoryID, content Content) (FileRecord, error) {
	s.mu.Lock()
	rec, err := s.records.Insert(name, directoryID, content)
	if err == nil && directoryID == s.active {
		s.recompute()
	}
	s.mu.Unlock()

	logger := logging.FromContext(ctx)
	if err != nil {
		metrics.RecordFileIngested(metrics.StatusRejected)
		logger.Warn("file rejected", "name", name, "directory_id", directoryID, "error", err)
		return FileRecord{}, err
	}

	metrics.RecordFileIngested(metrics.StatusOK)
	s.updateGauges()
	logger.Info("file added",
		"id", rec.ID,
		"name", rec.Name,
		"directory_id", rec.DirectoryID,
		"columns", len(rec.Content.Header),
		"rows", len(rec.Content.Rows),
	)
	return rec, nil
}

// recompute refreshes the merged table of the active directory.
// Caller must hold mu.
func (s *Service) recompute() {
	s.merged = Merge(s.records.ByDirectory(s.active))
	s.recomputes++
}

func (s *Service) recomputeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recomputes
}

func (s *Service) updateGauges() {
	s.mu.Lock()
	dirs, files := s.tree.Len(), s.records.Len()
	s.mu.Unlock()
	metrics.SetWorkspaceSize(dirs, files)
}

// Settings returns the current user preferences.
func (s *Service) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings validates and replaces the user preferences.
func (s *Service) UpdateSettings(ctx context.Context, next Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = next
	s.mu.Unlock()

	logging.FromContext(ctx).Info("settings updated", "language", next.Language, "dark_mode", next.DarkMode)
	return nil
}

// Stats returns the number of directories and files.
func (s *Service) Stats() (directories, files int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Len(), s.records.Len()
}
