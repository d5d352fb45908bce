package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExpansionState_Toggle(t *testing.T) {
	var e ExpansionState

	if !e.Toggle(3) {
		t.Error("first Toggle(3) = false, want true")
	}
	if !e.Has(3) {
		t.Error("Has(3) = false after expanding")
	}
	if e.Toggle(3) {
		t.Error("second Toggle(3) = true, want false")
	}
	if e.Has(3) || e.Len() != 0 {
		t.Errorf("state not empty after collapsing: %v", e.IDs())
	}
}

func TestExpansionState_IDsSorted(t *testing.T) {
	e := NewExpansionState(4, 1, 3)
	if diff := cmp.Diff([]DirectoryID{1, 3, 4}, e.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}
}

func TestExpansionState_NilIsEmpty(t *testing.T) {
	var e *ExpansionState
	if e.Has(1) || e.Len() != 0 || e.IDs() != nil {
		t.Error("nil ExpansionState should behave as an empty set")
	}
}
