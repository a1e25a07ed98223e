// Package dataset loads the regulator's quarterly flat files (sub.txt,
// num.txt, pre.txt, tag.txt) into typed in-memory tables and exposes them
// through the store interfaces the reconstruction engine consumes. Field
// parsing happens once at load time; malformed values become absent fields,
// not deferred coercion errors.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// tsvFile is a parsed tab-separated file with a header row.
type tsvFile struct {
	columns map[string]int
	rows    [][]string
}

func readTSV(path string) (*tsvFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		rows = append(rows, record)
	}
	return &tsvFile{columns: columns, rows: rows}, nil
}

// field returns the named column of a row, or "" when the column is missing
// or the row is short.
func (t *tsvFile) field(row []string, name string) string {
	idx, ok := t.columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseIntField(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func parseFloatField(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func intOrZero(s string) int {
	if n := parseIntField(s); n != nil {
		return *n
	}
	return 0
}
