package core

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Search returns the records whose name, header, or any cell contains term,
// compared case-insensitively after NFC normalization. A blank term matches
// nothing. Results keep the order of records.
func Search(records []FileRecord, term string) []FileRecord {
	m := newMatcher(term)
	if m == nil {
		return nil
	}

	var out []FileRecord
	for _, rec := range records {
		if m.matchRecord(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// matcher holds a folded search term. cases.Caser is stateful, so each
// search builds its own.
type matcher struct {
	fold   cases.Caser
	needle string
}

func newMatcher(term string) *matcher {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	m := &matcher{fold: cases.Fold()}
	m.needle = m.normalize(term)
	return m
}

func (m *matcher) normalize(s string) string {
	return m.fold.String(norm.NFC.String(s))
}

func (m *matcher) contains(s string) bool {
	return strings.Contains(m.normalize(s), m.needle)
}

func (m *matcher) matchRecord(rec FileRecord) bool {
	if m.contains(rec.Name) {
		return true
	}
	for _, h := range rec.Content.Header {
		if m.contains(h) {
			return true
		}
	}
	for _, row := range rec.Content.Rows {
		for _, c := range row {
			if m.contains(string(c)) {
				return true
			}
		}
	}
	return false
}
