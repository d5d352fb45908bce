package core

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestCellFromValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Cell
	}{
		{"nil", nil, ""},
		{"string", "S001", "S001"},
		{"int", 80, "80"},
		{"int64", int64(50000), "50000"},
		{"float shortest", 0.15, "0.15"},
		{"float whole", 4.0, "4"},
		{"float one decimal", 1.5, "1.5"},
		{"bool", true, "true"},
		{"date", time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), "2023-07-01"},
		{"timestamp", time.Date(2023, 7, 1, 9, 30, 0, 0, time.UTC), "2023-07-01T09:30:00Z"},
		{"fallback", []int{1}, "[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CellFromValue(tt.in); got != tt.want {
				t.Errorf("CellFromValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCell_Float(t *testing.T) {
	tests := []struct {
		in     Cell
		want   float64
		wantOK bool
	}{
		{"80", 80, true},
		{" 1.05 ", 1.05, true},
		{"-3e2", -300, true},
		{"", 0, false},
		{"S001", 0, false},
	}
	for _, tt := range tests {
		got, ok := tt.in.Float()
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Cell(%q).Float() = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		name  string
		raw   []string
		width int
		want  []string
	}{
		{"unchanged", []string{"a", "b"}, 2, []string{"a", "b"}},
		{"trims and strips BOM", []string{"\uFEFF id ", " name"}, 2, []string{"id", "name"}},
		{"blank becomes positional", []string{"a", "", "  "}, 3, []string{"a", "column_2", "column_3"}},
		{"duplicates get suffix", []string{"x", "x", "x"}, 3, []string{"x", "x_1", "x_2"}},
		{"suffix skips taken names", []string{"x", "x_1", "x"}, 3, []string{"x", "x_1", "x_2"}},
		{"padded to width", []string{"a"}, 3, []string{"a", "column_2", "column_3"}},
		{"width never truncates", []string{"a", "b"}, 1, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, NormalizeHeader(tt.raw, tt.width)); diff != "" {
				t.Errorf("NormalizeHeader() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestContentFromValues(t *testing.T) {
	got := ContentFromValues([][]any{
		{"実験日", "温度(℃)", "収率(%)"},
		{time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), 80, 85},
		{"2023-07-02", 85.5, nil},
	})

	want := Content{
		Header: []string{"実験日", "温度(℃)", "収率(%)"},
		Rows: [][]Cell{
			{"2023-07-01", "80", "85"},
			{"2023-07-02", "85.5", ""},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ContentFromValues() mismatch (-want +got):\n%s", diff)
	}
}

func TestContentFromValues_Empty(t *testing.T) {
	got := ContentFromValues(nil)
	if got.Header == nil || got.Rows == nil || len(got.Header) != 0 || len(got.Rows) != 0 {
		t.Errorf("ContentFromValues(nil) = %+v, want empty non-nil", got)
	}
}
