package core

// Merge builds the merged table of records. Rows are concatenated in record
// order then row order, each keyed by its own file's header. Columns are the
// union of all headers in first-seen order; a column introduced by a later
// file is appended and never reorders earlier ones.
//
// Merge is pure: the same records always give a structurally equal table.
func Merge(records []FileRecord) MergedTable {
	table := MergedTable{Columns: []string{}, Rows: []MergedRow{}}
	seen := make(map[string]bool)

	for _, rec := range records {
		for _, col := range rec.Content.Header {
			if !seen[col] {
				seen[col] = true
				table.Columns = append(table.Columns, col)
			}
		}
		for _, keyed := range rec.Content.Keyed() {
			table.Rows = append(table.Rows, MergedRow{FileID: rec.ID, Cells: keyed})
		}
	}
	return table
}

// Keyed returns each data row keyed by column name. Cells beyond the header
// are dropped and missing trailing cells are absent.
func (c Content) Keyed() []map[string]Cell {
	out := make([]map[string]Cell, 0, len(c.Rows))
	for _, row := range c.Rows {
		m := make(map[string]Cell, len(c.Header))
		for i, col := range c.Header {
			if i >= len(row) {
				break
			}
			m[col] = row[i]
		}
		out = append(out, m)
	}
	return out
}
