package core

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestTree(t *testing.T, dirs ...Directory) *TreeStore {
	t.Helper()
	tree, err := NewTreeStore(dirs)
	if err != nil {
		t.Fatalf("NewTreeStore() error = %v", err)
	}
	return tree
}

func TestTreeStore_InsertChild(t *testing.T) {
	tree := newTestTree(t, Directory{ID: 1, Name: "Projects"})

	got, err := tree.Insert("Synthesis", 1)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	want := Directory{ID: 2, Name: "Synthesis", ParentID: 1}
	if got != want {
		t.Errorf("Insert() = %+v, want %+v", got, want)
	}
	if diff := cmp.Diff([]Directory{want}, tree.ChildrenOf(1)); diff != "" {
		t.Errorf("ChildrenOf(1) mismatch (-want +got):\n%s", diff)
	}
}

func TestTreeStore_InsertRoot(t *testing.T) {
	tree := newTestTree(t, Directory{ID: 1, Name: "Projects"})

	d, err := tree.Insert("Archive", RootParent)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if !d.IsRoot() {
		t.Errorf("Insert(RootParent) returned non-root %+v", d)
	}
	if roots := tree.ChildrenOf(RootParent); len(roots) != 2 {
		t.Errorf("ChildrenOf(RootParent) = %v, want 2 roots", roots)
	}
}

func TestTreeStore_InsertUnknownParent(t *testing.T) {
	tree := newTestTree(t, Directory{ID: 1, Name: "Projects"})

	for _, parent := range []DirectoryID{2, 99, -1} {
		_, err := tree.Insert("orphan", parent)
		if !errors.Is(err, ErrInvalidParent) {
			t.Errorf("Insert(parent=%d) error = %v, want ErrInvalidParent", parent, err)
		}
	}
	if tree.Len() != 1 {
		t.Errorf("Len() = %d after rejected inserts, want 1", tree.Len())
	}

	// A rejected insert must not consume an id.
	d, err := tree.Insert("next", 1)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if d.ID != 2 {
		t.Errorf("next id = %d, want 2", d.ID)
	}
}

func TestTreeStore_InsertEmptyName(t *testing.T) {
	tree := newTestTree(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		if _, err := tree.Insert(name, RootParent); !errors.Is(err, ErrEmptyName) {
			t.Errorf("Insert(%q) error = %v, want ErrEmptyName", name, err)
		}
	}
	if tree.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tree.Len())
	}
}

func TestTreeStore_InsertTrimsName(t *testing.T) {
	tree := newTestTree(t)
	d, err := tree.Insert("  Synthesis  ", RootParent)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if d.Name != "Synthesis" {
		t.Errorf("Name = %q, want %q", d.Name, "Synthesis")
	}
}

func TestTreeStore_IDsUniqueAndNeverReused(t *testing.T) {
	tree := newTestTree(t, Directory{ID: 1, Name: "a"}, Directory{ID: 5, Name: "b", ParentID: 1})

	seen := map[DirectoryID]bool{1: true, 5: true}
	for i := 0; i < 50; i++ {
		parent := RootParent
		if i%3 == 1 {
			parent = 1
		}
		d, err := tree.Insert("dir", parent)
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if seen[d.ID] {
			t.Fatalf("id %d reused", d.ID)
		}
		if d.ID <= 5 {
			t.Fatalf("id %d not above seeded ids", d.ID)
		}
		seen[d.ID] = true

		// Interleave rejected inserts.
		_, _ = tree.Insert("", RootParent)
		_, _ = tree.Insert("x", 10_000)
	}
}

func TestNewTreeStore_InvalidSeed(t *testing.T) {
	tests := []struct {
		name string
		dirs []Directory
	}{
		{"non-positive id", []Directory{{ID: 0, Name: "a"}}},
		{"duplicate id", []Directory{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}}},
		{"blank name", []Directory{{ID: 1, Name: " "}}},
		{"parent defined later", []Directory{{ID: 2, Name: "child", ParentID: 1}, {ID: 1, Name: "parent"}}},
		{"unknown parent", []Directory{{ID: 1, Name: "a", ParentID: 7}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTreeStore(tt.dirs); !errors.Is(err, ErrInvalidSeed) {
				t.Errorf("NewTreeStore() error = %v, want ErrInvalidSeed", err)
			}
		})
	}
}

func TestTreeStore_ChildrenOfKeepsInsertionOrder(t *testing.T) {
	tree := newTestTree(t, Directory{ID: 1, Name: "root"})
	for _, name := range []string{"c", "a", "b"} {
		if _, err := tree.Insert(name, 1); err != nil {
			t.Fatal(err)
		}
	}

	var names []string
	for _, d := range tree.ChildrenOf(1) {
		names = append(names, d.Name)
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, names); diff != "" {
		t.Errorf("ChildrenOf order mismatch (-want +got):\n%s", diff)
	}
	if got := tree.ChildrenOf(42); len(got) != 0 {
		t.Errorf("ChildrenOf(unknown) = %v, want empty", got)
	}
}

func TestTreeStore_Path(t *testing.T) {
	tree := newTestTree(t,
		Directory{ID: 1, Name: "root"},
		Directory{ID: 2, Name: "mid", ParentID: 1},
		Directory{ID: 3, Name: "leaf", ParentID: 2},
	)

	var names []string
	for _, d := range tree.Path(3) {
		names = append(names, d.Name)
	}
	if diff := cmp.Diff([]string{"root", "mid", "leaf"}, names); diff != "" {
		t.Errorf("Path(3) mismatch (-want +got):\n%s", diff)
	}
	if got := tree.Path(99); got != nil {
		t.Errorf("Path(unknown) = %v, want nil", got)
	}
}

func TestTreeStore_Visible(t *testing.T) {
	tree := newTestTree(t,
		Directory{ID: 1, Name: "root"},
		Directory{ID: 2, Name: "a", ParentID: 1},
		Directory{ID: 3, Name: "a1", ParentID: 2},
		Directory{ID: 4, Name: "b", ParentID: 1},
		Directory{ID: 5, Name: "other"},
	)

	tests := []struct {
		name     string
		expanded *ExpansionState
		want     []TreeRow
	}{
		{
			name:     "collapsed",
			expanded: NewExpansionState(),
			want: []TreeRow{
				{Directory: Directory{ID: 1, Name: "root"}, Depth: 0, HasChildren: true},
				{Directory: Directory{ID: 5, Name: "other"}, Depth: 0},
			},
		},
		{
			name:     "nil expansion",
			expanded: nil,
			want: []TreeRow{
				{Directory: Directory{ID: 1, Name: "root"}, Depth: 0, HasChildren: true},
				{Directory: Directory{ID: 5, Name: "other"}, Depth: 0},
			},
		},
		{
			name:     "root expanded",
			expanded: NewExpansionState(1),
			want: []TreeRow{
				{Directory: Directory{ID: 1, Name: "root"}, Depth: 0, HasChildren: true, Expanded: true},
				{Directory: Directory{ID: 2, Name: "a", ParentID: 1}, Depth: 1, HasChildren: true},
				{Directory: Directory{ID: 4, Name: "b", ParentID: 1}, Depth: 1},
				{Directory: Directory{ID: 5, Name: "other"}, Depth: 0},
			},
		},
		{
			name:     "child expanded under collapsed parent stays hidden",
			expanded: NewExpansionState(2),
			want: []TreeRow{
				{Directory: Directory{ID: 1, Name: "root"}, Depth: 0, HasChildren: true},
				{Directory: Directory{ID: 5, Name: "other"}, Depth: 0},
			},
		},
		{
			name:     "fully expanded pre-order",
			expanded: NewExpansionState(1, 2),
			want: []TreeRow{
				{Directory: Directory{ID: 1, Name: "root"}, Depth: 0, HasChildren: true, Expanded: true},
				{Directory: Directory{ID: 2, Name: "a", ParentID: 1}, Depth: 1, HasChildren: true, Expanded: true},
				{Directory: Directory{ID: 3, Name: "a1", ParentID: 2}, Depth: 2},
				{Directory: Directory{ID: 4, Name: "b", ParentID: 1}, Depth: 1},
				{Directory: Directory{ID: 5, Name: "other"}, Depth: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tree.Visible(tt.expanded)); diff != "" {
				t.Errorf("Visible() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
