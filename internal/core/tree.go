package core

import (
	"fmt"
	"strings"
)

// TreeStore owns the directory forest. It is not safe for concurrent use;
// Service serializes access.
type TreeStore struct {
	nodes  []Directory
	index  map[DirectoryID]int
	nextID DirectoryID
}

// NewTreeStore creates a store seeded with dirs. Seed directories keep their
// ids; every parent must appear before its children.
func NewTreeStore(dirs []Directory) (*TreeStore, error) {
	t := &TreeStore{
		index:  make(map[DirectoryID]int, len(dirs)),
		nextID: 1,
	}
	for _, d := range dirs {
		if d.ID <= 0 {
			return nil, fmt.Errorf("%w: directory id %d must be positive", ErrInvalidSeed, d.ID)
		}
		if _, dup := t.index[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate directory id %d", ErrInvalidSeed, d.ID)
		}
		if strings.TrimSpace(d.Name) == "" {
			return nil, fmt.Errorf("%w: directory %d has no name", ErrInvalidSeed, d.ID)
		}
		if d.ParentID != RootParent && !t.Has(d.ParentID) {
			return nil, fmt.Errorf("%w: directory %d references parent %d before it is defined",
				ErrInvalidSeed, d.ID, d.ParentID)
		}
		t.append(d)
		if d.ID >= t.nextID {
			t.nextID = d.ID + 1
		}
	}
	return t, nil
}

// Insert adds a directory under parentID (RootParent for a new root).
// The store is left unchanged when validation fails.
func (t *TreeStore) Insert(name string, parentID DirectoryID) (Directory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Directory{}, ErrEmptyName
	}
	if parentID != RootParent && !t.Has(parentID) {
		return Directory{}, fmt.Errorf("%w: %d", ErrInvalidParent, parentID)
	}

	d := Directory{ID: t.nextID, Name: name, ParentID: parentID}
	t.nextID++
	t.append(d)
	return d, nil
}

func (t *TreeStore) append(d Directory) {
	t.index[d.ID] = len(t.nodes)
	t.nodes = append(t.nodes, d)
}

// Get returns a directory by id.
func (t *TreeStore) Get(id DirectoryID) (Directory, bool) {
	i, ok := t.index[id]
	if !ok {
		return Directory{}, false
	}
	return t.nodes[i], true
}

// Has reports whether id names an existing directory.
func (t *TreeStore) Has(id DirectoryID) bool {
	_, ok := t.index[id]
	return ok
}

// Len returns the number of directories.
func (t *TreeStore) Len() int {
	return len(t.nodes)
}

// All returns every directory in insertion order.
func (t *TreeStore) All() []Directory {
	out := make([]Directory, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// ChildrenOf returns the directories whose parent is parentID, in insertion
// order. RootParent returns the roots.
func (t *TreeStore) ChildrenOf(parentID DirectoryID) []Directory {
	var out []Directory
	for _, d := range t.nodes {
		if d.ParentID == parentID {
			out = append(out, d)
		}
	}
	return out
}

// HasChildren reports whether any directory has id as its parent.
func (t *TreeStore) HasChildren(id DirectoryID) bool {
	for _, d := range t.nodes {
		if d.ParentID == id {
			return true
		}
	}
	return false
}

// Path returns the chain of directories from the root down to id.
func (t *TreeStore) Path(id DirectoryID) []Directory {
	var path []Directory
	for cur, ok := t.Get(id); ok; cur, ok = t.Get(cur.ParentID) {
		path = append(path, cur)
		if cur.IsRoot() {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Visible walks the forest depth-first, pre-order, descending only into
// directories present in expanded.
func (t *TreeStore) Visible(expanded *ExpansionState) []TreeRow {
	var rows []TreeRow
	var walk func(parent DirectoryID, depth int)
	walk = func(parent DirectoryID, depth int) {
		for _, d := range t.ChildrenOf(parent) {
			open := expanded.Has(d.ID)
			rows = append(rows, TreeRow{
				Directory:   d,
				Depth:       depth,
				HasChildren: t.HasChildren(d.ID),
				Expanded:    open,
			})
			if open {
				walk(d.ID, depth+1)
			}
		}
	}
	walk(RootParent, 0)
	return rows
}
