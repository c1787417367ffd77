package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVOptions configures CSV parsing.
type CSVOptions struct {
	// Comma is the field delimiter. Defaults to ','.
	Comma rune

	// NoHeader treats the first record as data. Columns are then named
	// "0", "1", ... by position.
	NoHeader bool

	// Raw disables value inference; every cell stays a string.
	Raw bool
}

// ReadCSV parses CSV data into a frame. Unless Raw is set, cell values are
// inferred as int64, float64, bool or string, and empty cells become nil.
func ReadCSV(r io.Reader, opts CSVOptions) (*Frame, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return New(), nil
	}

	var columns []string
	if opts.NoHeader {
		for i := range records[0] {
			columns = append(columns, strconv.Itoa(i))
		}
	} else {
		columns = records[0]
		records = records[1:]
	}

	f := New(columns...)
	for _, rec := range records {
		row := make([]any, len(columns))
		for i := range columns {
			if i >= len(rec) {
				continue
			}
			if opts.Raw {
				row[i] = rec[i]
				continue
			}
			row[i] = inferValue(rec[i])
		}
		f.rows = append(f.rows, row)
	}
	return f, nil
}

// WriteCSV writes the frame as CSV with a header row. Nil cells are written
// as empty fields.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(f.columns))
	for _, row := range f.rows {
		for i, v := range row {
			record[i] = formatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func inferValue(s string) any {
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if x, err := strconv.ParseFloat(s, 64); err == nil {
		return x
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
