package core

import "sort"

// ExpansionState is the set of directory ids shown expanded in the tree.
// The zero value is an empty set ready to use.
type ExpansionState struct {
	ids map[DirectoryID]struct{}
}

// NewExpansionState returns a set containing ids.
func NewExpansionState(ids ...DirectoryID) *ExpansionState {
	e := &ExpansionState{ids: make(map[DirectoryID]struct{}, len(ids))}
	for _, id := range ids {
		e.ids[id] = struct{}{}
	}
	return e
}

// Toggle flips membership of id and returns whether it is now expanded.
func (e *ExpansionState) Toggle(id DirectoryID) bool {
	if e.ids == nil {
		e.ids = make(map[DirectoryID]struct{})
	}
	if _, ok := e.ids[id]; ok {
		delete(e.ids, id)
		return false
	}
	e.ids[id] = struct{}{}
	return true
}

// Has reports whether id is expanded. A nil receiver is an empty set.
func (e *ExpansionState) Has(id DirectoryID) bool {
	if e == nil {
		return false
	}
	_, ok := e.ids[id]
	return ok
}

// Len returns the number of expanded directories.
func (e *ExpansionState) Len() int {
	if e == nil {
		return 0
	}
	return len(e.ids)
}

// IDs returns the expanded ids in ascending order.
func (e *ExpansionState) IDs() []DirectoryID {
	if e == nil {
		return nil
	}
	out := make([]DirectoryID, 0, len(e.ids))
	for id := range e.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
