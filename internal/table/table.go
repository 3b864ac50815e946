// Package table holds trip records as opaque rows of named fields and reads/writes them
// as CSV, TSV or Parquet.
package table

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

var (
	// ErrInputNotFound is returned when the input artifact does not exist.
	ErrInputNotFound = errors.New("input not found")

	// ErrSamePath is returned when the output would overwrite the input.
	ErrSamePath = errors.New("output path must differ from input path")

	// ErrDuplicateColumn is returned for headers that name a column twice.
	ErrDuplicateColumn = errors.New("duplicate column")
)

// Format is a tabular file encoding.
type Format int

const (
	FormatAuto Format = iota
	FormatCSV
	FormatTSV
	FormatParquet
)

// String returns the format name
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatParquet:
		return "parquet"
	default:
		return "auto"
	}
}

// ParseFormat parses a format name. Unknown names are an error.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "csv":
		return FormatCSV, nil
	case "tsv":
		return FormatTSV, nil
	case "parquet":
		return FormatParquet, nil
	default:
		return FormatAuto, fmt.Errorf("unknown table format %q", s)
	}
}

// DetectFormat picks a format from the file extension, CSV when unknown.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".pq":
		return FormatParquet
	case ".tsv", ".tab":
		return FormatTSV
	default:
		return FormatCSV
	}
}

// resolve turns FormatAuto into the format implied by path.
func (f Format) resolve(path string) Format {
	if f == FormatAuto {
		return DetectFormat(path)
	}
	return f
}

// Table is an in-memory set of records sharing one header.
//
// Rows always carry the text form of every cell. Tables read from Parquet also keep the
// native rows and schema so writing back to Parquet preserves the column types.
type Table struct {
	Columns []string
	Rows    [][]string

	schema *parquet.Schema
	native []parquet.Row
}

// New creates a text-only table.
func New(columns []string, rows [][]string) (*Table, error) {
	if err := checkColumns(columns); err != nil {
		return nil, err
	}
	return &Table{Columns: columns, Rows: rows}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns every value of the named column in row order.
func (t *Table) Column(name string) ([]string, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}

	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			values[i] = row[idx]
		}
	}
	return values, true
}

// Take returns a new table with the rows at indices, in the given order.
// Rows are shared, not copied; neither table mutates them.
func (t *Table) Take(indices []int) *Table {
	out := &Table{
		Columns: t.Columns,
		Rows:    make([][]string, len(indices)),
		schema:  t.schema,
	}
	if t.native != nil {
		out.native = make([]parquet.Row, len(indices))
	}

	for i, idx := range indices {
		out.Rows[i] = t.Rows[idx]
		if t.native != nil {
			out.native[i] = t.native[idx]
		}
	}
	return out
}

// Head returns at most n leading rows.
func (t *Table) Head(n int) [][]string {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n < 0 {
		n = 0
	}
	return t.Rows[:n]
}

func checkColumns(columns []string) error {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, ok := seen[c]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}
