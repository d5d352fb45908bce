package core

// convert.go turns loosely typed values into cells and raw header rows into
// unique column names.
//
// Seed data decoded from YAML mixes strings, integers and floats, the same way
// the mock dataset did. Everything is stored as text; numbers use the shortest
// representation that round-trips ("80", "0.15", "1.5").

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CellFromValue converts a decoded value into a cell.
func CellFromValue(v any) Cell {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return Cell(x)
	case Cell:
		return x
	case int:
		return Cell(strconv.Itoa(x))
	case int64:
		return Cell(strconv.FormatInt(x, 10))
	case uint64:
		return Cell(strconv.FormatUint(x, 10))
	case float64:
		return Cell(strconv.FormatFloat(x, 'f', -1, 64))
	case float32:
		return Cell(strconv.FormatFloat(float64(x), 'f', -1, 32))
	case bool:
		return Cell(strconv.FormatBool(x))
	case time.Time:
		// YAML decodes bare dates like 2023-07-01 as timestamps.
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return Cell(x.Format("2006-01-02"))
		}
		return Cell(x.Format(time.RFC3339))
	default:
		return Cell(fmt.Sprint(x))
	}
}

// Float parses the cell as a number.
func (c Cell) Float() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(c)), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// String implements fmt.Stringer.
func (c Cell) String() string {
	return string(c)
}

// CleanHeaderCell trims whitespace and a stray UTF-8 BOM from a header name.
func CleanHeaderCell(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	return strings.TrimSpace(s)
}

// NormalizeHeader returns unique column names for a raw header row, padded
// to width columns. Blank names become "column_<n>" (1-based position) and
// repeated names get a numeric suffix: "date", "date_1", "date_2".
func NormalizeHeader(raw []string, width int) []string {
	if width < len(raw) {
		width = len(raw)
	}
	out := make([]string, width)
	used := make(map[string]bool, width)

	for i := 0; i < width; i++ {
		name := ""
		if i < len(raw) {
			name = CleanHeaderCell(raw[i])
		}
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		base := name
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// NewContent builds content from a raw header row and data rows. Rows wider
// than the header extend it with positional column names.
func NewContent(header []string, rows [][]Cell) Content {
	width := len(header)
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	if rows == nil {
		rows = [][]Cell{}
	}
	return Content{Header: NormalizeHeader(header, width), Rows: rows}
}

// ContentFromValues builds content from raw values where the first row is
// the header, as in the seed dataset.
func ContentFromValues(values [][]any) Content {
	if len(values) == 0 {
		return Content{Header: []string{}, Rows: [][]Cell{}}
	}
	header := make([]string, len(values[0]))
	for i, v := range values[0] {
		header[i] = string(CellFromValue(v))
	}
	rows := make([][]Cell, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := make([]Cell, len(raw))
		for i, v := range raw {
			row[i] = CellFromValue(v)
		}
		rows = append(rows, row)
	}
	return NewContent(header, rows)
}
