package core

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seeddata/default.yaml
var defaultSeedYAML []byte

// Seed is the initial state of a workspace. It is plain data: stores copy
// what they need, so one Seed can build any number of independent services.
type Seed struct {
	Directories []SeedDirectory  `yaml:"directories"`
	Files       []SeedFile       `yaml:"files"`
	Expanded    []DirectoryID    `yaml:"expanded"`
	Analytics   []AnalyticsPoint `yaml:"analytics"`
}

// SeedDirectory is a directory with a fixed id.
type SeedDirectory struct {
	ID       DirectoryID `yaml:"id"`
	Name     string      `yaml:"name"`
	ParentID DirectoryID `yaml:"parent_id"`
}

// SeedFile is a file with a fixed id. Content is raw: the first row is the
// header and values may be strings or numbers.
type SeedFile struct {
	ID          FileID      `yaml:"id"`
	Name        string      `yaml:"name"`
	DirectoryID DirectoryID `yaml:"directory_id"`
	Content     [][]any     `yaml:"content"`
}

// DefaultSeed returns the built-in mock dataset.
func DefaultSeed() (Seed, error) {
	return LoadSeed(bytes.NewReader(defaultSeedYAML))
}

// LoadSeed decodes a YAML seed document.
func LoadSeed(r io.Reader) (Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return Seed{}, nil
		}
		return Seed{}, fmt.Errorf("%w: decode: %v", ErrInvalidSeed, err)
	}
	return s, nil
}

// LoadSeedFile reads a seed from path. An empty path yields DefaultSeed.
func LoadSeedFile(path string) (Seed, error) {
	if path == "" {
		return DefaultSeed()
	}
	f, err := os.Open(path)
	if err != nil {
		return Seed{}, fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()
	return LoadSeed(f)
}

// build validates the seed and creates fresh stores from it.
func (s Seed) build() (*TreeStore, *RecordStore, *ExpansionState, error) {
	dirs := make([]Directory, len(s.Directories))
	for i, d := range s.Directories {
		dirs[i] = Directory{ID: d.ID, Name: d.Name, ParentID: d.ParentID}
	}
	tree, err := NewTreeStore(dirs)
	if err != nil {
		return nil, nil, nil, err
	}

	records := NewRecordStore(tree)
	for _, f := range s.Files {
		rec := FileRecord{
			ID:          f.ID,
			Name:        f.Name,
			DirectoryID: f.DirectoryID,
			Content:     ContentFromValues(f.Content),
		}
		if err := records.seed(rec); err != nil {
			return nil, nil, nil, err
		}
	}

	for _, id := range s.Expanded {
		if !tree.Has(id) {
			return nil, nil, nil, fmt.Errorf("%w: expanded directory %d does not exist", ErrInvalidSeed, id)
		}
	}
	return tree, records, NewExpansionState(s.Expanded...), nil
}
