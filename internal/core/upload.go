package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Parse failure causes carried in ParseError.Err.
var (
	errEmptyFile        = errors.New("empty file")
	errMissingHeader    = errors.New("missing header row")
	errUnknownParseMode = errors.New("unknown parse mode")
)

// ParseCSV reads CSV text from r into content. In ParseRaw mode the first
// record is the header and every later record is kept; ParseHeader mode
// additionally skips records whose cells are all blank. Quoting errors, an
// empty file or a blank header fail with a *ParseError.
func ParseCSV(fileName string, r io.Reader, mode ParseMode) (Content, error) {
	switch mode {
	case ParseRaw, ParseHeader:
	case "":
		mode = ParseHeader
	default:
		return Content{}, fmt.Errorf("%w %q", errUnknownParseMode, mode)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return Content{}, &ParseError{FileName: fileName, Line: pe.Line, Err: pe.Err}
		}
		return Content{}, &ParseError{FileName: fileName, Err: err}
	}
	if len(records) == 0 {
		return Content{}, &ParseError{FileName: fileName, Err: errEmptyFile}
	}
	if isEmptyRow(records[0]) {
		return Content{}, &ParseError{FileName: fileName, Line: 1, Err: errMissingHeader}
	}

	rows := make([][]Cell, 0, len(records)-1)
	for _, rec := range records[1:] {
		if mode == ParseHeader && isEmptyRow(rec) {
			continue
		}
		row := make([]Cell, len(rec))
		for i, v := range rec {
			row[i] = Cell(v)
		}
		rows = append(rows, row)
	}

	return NewContent(records[0], rows), nil
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
