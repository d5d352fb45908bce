package core

import (
	"fmt"
	"strings"
	"time"
)

// DirectoryLookup reports whether a directory exists. *TreeStore satisfies it.
type DirectoryLookup interface {
	Has(id DirectoryID) bool
}

// RecordStore owns the file records. It is not safe for concurrent use;
// Service serializes access.
type RecordStore struct {
	dirs   DirectoryLookup
	files  []FileRecord
	nextID FileID
	now    func() time.Time
}

// NewRecordStore creates a store whose inserts are validated against dirs.
func NewRecordStore(dirs DirectoryLookup) *RecordStore {
	return &RecordStore{
		dirs:   dirs,
		nextID: 1,
		now:    time.Now,
	}
}

// seed adds a record with a fixed id. Used only while building a store from
// seed data.
func (s *RecordStore) seed(f FileRecord) error {
	if f.ID <= 0 {
		return fmt.Errorf("%w: file id %d must be positive", ErrInvalidSeed, f.ID)
	}
	if _, ok := s.Get(f.ID); ok {
		return fmt.Errorf("%w: duplicate file id %d", ErrInvalidSeed, f.ID)
	}
	if !s.dirs.Has(f.DirectoryID) {
		return fmt.Errorf("%w: file %d references directory %d", ErrInvalidSeed, f.ID, f.DirectoryID)
	}
	s.files = append(s.files, f)
	if f.ID >= s.nextID {
		s.nextID = f.ID + 1
	}
	return nil
}

// Insert stores a new file under directoryID. Nothing is stored when
// validation fails.
func (s *RecordStore) Insert(name string, directoryID DirectoryID, content Content) (FileRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FileRecord{}, ErrEmptyName
	}
	if !s.dirs.Has(directoryID) {
		return FileRecord{}, fmt.Errorf("%w: %d", ErrInvalidDirectory, directoryID)
	}

	f := FileRecord{
		ID:          s.nextID,
		Name:        name,
		DirectoryID: directoryID,
		Content:     content,
		UploadedAt:  s.now(),
	}
	s.nextID++
	s.files = append(s.files, f)
	return f, nil
}

// Get returns a file by id.
func (s *RecordStore) Get(id FileID) (FileRecord, bool) {
	for _, f := range s.files {
		if f.ID == id {
			return f, true
		}
	}
	return FileRecord{}, false
}

// ByDirectory returns the files of directoryID in insertion order.
func (s *RecordStore) ByDirectory(directoryID DirectoryID) []FileRecord {
	var out []FileRecord
	for _, f := range s.files {
		if f.DirectoryID == directoryID {
			out = append(out, f)
		}
	}
	return out
}

// All returns every file in insertion order.
func (s *RecordStore) All() []FileRecord {
	out := make([]FileRecord, len(s.files))
	copy(out, s.files)
	return out
}

// Len returns the number of files.
func (s *RecordStore) Len() int {
	return len(s.files)
}

// CountByDirectory returns the number of files held by each directory.
func (s *RecordStore) CountByDirectory() map[DirectoryID]int {
	counts := make(map[DirectoryID]int)
	for _, f := range s.files {
		counts[f.DirectoryID]++
	}
	return counts
}
