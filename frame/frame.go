// Package frame provides a small column-ordered table used by the iolib
// adapters to exchange tabular data.
package frame

import (
	"errors"
	"fmt"
)

// Errors returned by frame operations.
var (
	// ErrColumnNotFound indicates the named column does not exist.
	ErrColumnNotFound = errors.New("column not found")

	// ErrColumnMismatch indicates frames with different columns were combined.
	ErrColumnMismatch = errors.New("column mismatch")

	// ErrRowWidth indicates a row with the wrong number of values.
	ErrRowWidth = errors.New("row width does not match columns")
)

// Frame is an ordered collection of named columns and rows of values.
// A nil value represents a missing cell.
type Frame struct {
	columns []string
	rows    [][]any
}

// New creates an empty frame with the given columns.
func New(columns ...string) *Frame {
	return &Frame{columns: append([]string(nil), columns...)}
}

// FromRecords creates a frame from a slice of records, using the given column
// order. Missing keys become nil cells.
func FromRecords(columns []string, records []map[string]any) *Frame {
	f := New(columns...)
	for _, rec := range records {
		row := make([]any, len(columns))
		for i, col := range columns {
			row[i] = rec[col]
		}
		f.rows = append(f.rows, row)
	}
	return f
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// Empty reports whether the frame has no rows.
func (f *Frame) Empty() bool {
	return len(f.rows) == 0
}

// AppendRow adds a row. The row must have one value per column.
func (f *Frame) AppendRow(values ...any) error {
	if len(values) != len(f.columns) {
		return fmt.Errorf("%w: got %d, want %d", ErrRowWidth, len(values), len(f.columns))
	}
	f.rows = append(f.rows, append([]any(nil), values...))
	return nil
}

// Row returns the values of row i.
func (f *Frame) Row(i int) []any {
	return append([]any(nil), f.rows[i]...)
}

// Cell returns the value at row i, named column.
func (f *Frame) Cell(i int, column string) (any, error) {
	idx := f.columnIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	return f.rows[i][idx], nil
}

// Column returns all values of the named column.
func (f *Frame) Column(name string) ([]any, error) {
	idx := f.columnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	values := make([]any, len(f.rows))
	for i, row := range f.rows {
		values[i] = row[idx]
	}
	return values, nil
}

// Select returns a new frame containing only the named columns, in the given
// order.
func (f *Frame) Select(columns ...string) (*Frame, error) {
	indexes := make([]int, len(columns))
	for i, col := range columns {
		idx := f.columnIndex(col)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, col)
		}
		indexes[i] = idx
	}
	out := New(columns...)
	for _, row := range f.rows {
		selected := make([]any, len(indexes))
		for i, idx := range indexes {
			selected[i] = row[idx]
		}
		out.rows = append(out.rows, selected)
	}
	return out, nil
}

// Records converts the frame to a slice of column-keyed records.
func (f *Frame) Records() []map[string]any {
	records := make([]map[string]any, len(f.rows))
	for i, row := range f.rows {
		rec := make(map[string]any, len(f.columns))
		for j, col := range f.columns {
			rec[col] = row[j]
		}
		records[i] = rec
	}
	return records
}

// RenameColumns applies fn to every column name.
func (f *Frame) RenameColumns(fn func(string) string) {
	for i, col := range f.columns {
		f.columns[i] = fn(col)
	}
}

// Concat appends the rows of other to f. Column names and order must match.
func (f *Frame) Concat(other *Frame) error {
	if len(f.columns) != len(other.columns) {
		return ErrColumnMismatch
	}
	for i, col := range f.columns {
		if other.columns[i] != col {
			return fmt.Errorf("%w: %q vs %q", ErrColumnMismatch, col, other.columns[i])
		}
	}
	for _, row := range other.rows {
		f.rows = append(f.rows, append([]any(nil), row...))
	}
	return nil
}

func (f *Frame) columnIndex(name string) int {
	for i, col := range f.columns {
		if col == name {
			return i
		}
	}
	return -1
}
