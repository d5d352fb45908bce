package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func file(id FileID, header []string, rows ...[]Cell) FileRecord {
	return FileRecord{ID: id, Name: "f.csv", DirectoryID: 2, Content: NewContent(header, rows)}
}

func TestMerge_ColumnUnionFirstSeenOrder(t *testing.T) {
	f1 := file(1, []string{"A", "B"}, []Cell{"a1", "b1"})
	f2 := file(2, []string{"B", "C"}, []Cell{"b2", "c2"})

	got := Merge([]FileRecord{f1, f2})

	want := MergedTable{
		Columns: []string{"A", "B", "C"},
		Rows: []MergedRow{
			{FileID: 1, Cells: map[string]Cell{"A": "a1", "B": "b1"}},
			{FileID: 2, Cells: map[string]Cell{"B": "b2", "C": "c2"}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_MissingColumnIsAbsent(t *testing.T) {
	f1 := file(1, []string{"date", "temp"}, []Cell{"2023-07-01", "80"})
	f2 := file(2, []string{"date", "yield"}, []Cell{"2023-07-02", "88"})

	got := Merge([]FileRecord{f1, f2})

	if diff := cmp.Diff([]string{"date", "temp", "yield"}, got.Columns); diff != "" {
		t.Fatalf("Columns mismatch (-want +got):\n%s", diff)
	}
	if _, ok := got.Rows[0].Get("yield"); ok {
		t.Error("row from first file should not have a yield cell")
	}
	if c, _ := got.Rows[1].Get("yield"); c != "88" {
		t.Errorf("yield = %q, want 88", c)
	}
}

func TestMerge_RowsConcatenateInRecordThenRowOrder(t *testing.T) {
	f1 := file(1, []string{"n"}, []Cell{"1"}, []Cell{"2"})
	f2 := file(2, []string{"n"}, []Cell{"3"})
	f3 := file(3, []string{"n"}, []Cell{"4"}, []Cell{"5"})

	got := Merge([]FileRecord{f1, f2, f3})

	var seq []Cell
	for _, r := range got.Rows {
		c, _ := r.Get("n")
		seq = append(seq, c)
	}
	if diff := cmp.Diff([]Cell{"1", "2", "3", "4", "5"}, seq); diff != "" {
		t.Errorf("row order mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	records := []FileRecord{
		file(1, []string{"A", "B"}, []Cell{"1", "2"}),
		file(2, []string{"B", "C"}, []Cell{"3", "4"}, []Cell{"5"}),
	}

	first := Merge(records)
	second := Merge(records)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Merge() not idempotent (-first +second):\n%s", diff)
	}
}

func TestMerge_Empty(t *testing.T) {
	got := Merge(nil)
	if got.Columns == nil || got.Rows == nil {
		t.Error("Merge(nil) should return non-nil empty slices")
	}
	if len(got.Columns) != 0 || len(got.Rows) != 0 {
		t.Errorf("Merge(nil) = %+v, want empty", got)
	}
}

func TestMerge_HeaderOnlyFileContributesColumns(t *testing.T) {
	got := Merge([]FileRecord{file(1, []string{"A", "B"})})
	if diff := cmp.Diff([]string{"A", "B"}, got.Columns); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}
	if len(got.Rows) != 0 {
		t.Errorf("Rows = %v, want none", got.Rows)
	}
}

func TestContent_Keyed(t *testing.T) {
	c := Content{
		Header: []string{"a", "b", "c"},
		Rows: [][]Cell{
			{"1", "2", "3"},
			{"4"},
			{"5", "6", "7", "8"},
		},
	}

	want := []map[string]Cell{
		{"a": "1", "b": "2", "c": "3"},
		{"a": "4"},
		{"a": "5", "b": "6", "c": "7"},
	}
	if diff := cmp.Diff(want, c.Keyed()); diff != "" {
		t.Errorf("Keyed() mismatch (-want +got):\n%s", diff)
	}
}
