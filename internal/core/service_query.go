package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/chemlab/internal/logging"
	"github.com/JonMunkholm/chemlab/internal/metrics"
)

// Files returns the files of a directory in upload order.
func (s *Service) Files(directoryID DirectoryID) ([]FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tree.Has(directoryID) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirectory, directoryID)
	}
	return s.records.ByDirectory(directoryID), nil
}

// File returns a single file by id.
func (s *Service) File(id FileID) (FileRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records.Get(id)
}

// MergedTable computes the merged table of any directory without changing
// the selection.
func (s *Service) MergedTable(directoryID DirectoryID) (MergedTable, error) {
	files, err := s.Files(directoryID)
	if err != nil {
		return MergedTable{}, err
	}
	return Merge(files), nil
}

// FileCounts returns how many files each directory holds.
func (s *Service) FileCounts() map[DirectoryID]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records.CountByDirectory()
}

// Search finds files whose name or cells contain term, case-insensitively.
// A blank term returns no hits.
func (s *Service) Search(ctx context.Context, term string) []SearchHit {
	s.mu.Lock()
	matches := Search(s.records.All(), term)
	hits := make([]SearchHit, len(matches))
	for i, f := range matches {
		dir, _ := s.tree.Get(f.DirectoryID)
		hits[i] = SearchHit{File: f, DirectoryName: dir.Name}
	}
	s.mu.Unlock()

	metrics.RecordSearch(len(hits))
	logging.FromContext(ctx).Debug("search", "term", term, "hits", len(hits))
	return hits
}

// Analytics returns the dashboard series. It is a fixed placeholder loaded
// from the seed and is not derived from the uploaded files.
func (s *Service) Analytics() []AnalyticsPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AnalyticsPoint, len(s.analytics))
	copy(out, s.analytics)
	return out
}
