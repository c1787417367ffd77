// Package sheets reads and writes Google Sheets spreadsheets as frames.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"time"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"

	"github.com/utilitywarehouse/iolib/drive"
	"github.com/utilitywarehouse/iolib/frame"
	"github.com/utilitywarehouse/iolib/googleauth"
)

// maxColumns is the widest frame Write supports (columns A through Z).
const maxColumns = 26

// Errors returned by the sheets package.
var (
	// ErrSpreadsheetExists indicates the spreadsheet exists and IfExistsFail
	// was requested.
	ErrSpreadsheetExists = errors.New("spreadsheet already exists")

	// ErrMultipleSpreadsheets indicates more than one spreadsheet matched
	// the name.
	ErrMultipleSpreadsheets = errors.New("multiple spreadsheets found")

	// ErrTooManyColumns indicates a frame wider than 26 columns.
	ErrTooManyColumns = errors.New("too many columns to write to spreadsheet")

	// ErrInvalidIfExists indicates an unknown IfExists value.
	ErrInvalidIfExists = errors.New("invalid if-exists value")
)

// IfExists controls Write behavior when the destination spreadsheet exists.
type IfExists string

const (
	// IfExistsFail fails the write when the spreadsheet already exists.
	IfExistsFail IfExists = "fail"

	// IfExistsReplace deletes and recreates the spreadsheet.
	IfExistsReplace IfExists = "replace"
)

func newService(ctx context.Context, readonly bool, serviceAccountJSON string) (*sheets.Service, error) {
	scope := sheets.SpreadsheetsScope
	if readonly {
		scope = sheets.SpreadsheetsReadonlyScope
	}
	svc, err := sheets.NewService(ctx, googleauth.Options(serviceAccountJSON, scope)...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// ReadOptions configures Read.
type ReadOptions struct {
	// NoHeader treats the first row as data instead of column names.
	NoHeader bool

	// ServiceAccountJSON is the credentials file path. Defaults to the
	// environment (GOOGLE_APPLICATION_CREDENTIALS).
	ServiceAccountJSON string
}

// Read reads a sheet of the spreadsheet into a frame. Values come back
// unformatted; datetimes come back as formatted strings.
func Read(ctx context.Context, spreadsheetID, sheetName string, opts ReadOptions) (*frame.Frame, error) {
	svc, err := newService(ctx, false, opts.ServiceAccountJSON)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Spreadsheets.Values.Get(spreadsheetID, sheetName).
		Context(ctx).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet values: %w", err)
	}

	return FramesFromValues(resp.Values, !opts.NoHeader)
}

// FramesFromValues builds a frame from a sheet's value grid. With header set
// the first row names the columns; otherwise columns are named by position.
func FramesFromValues(values [][]any, header bool) (*frame.Frame, error) {
	if len(values) == 0 {
		return frame.New(), nil
	}

	var columns []string
	rows := values
	if header {
		columns = make([]string, len(values[0]))
		for i, v := range values[0] {
			columns[i] = fmt.Sprint(v)
		}
		rows = values[1:]
	} else {
		width := 0
		for _, row := range values {
			if len(row) > width {
				width = len(row)
			}
		}
		columns = make([]string, width)
		for i := range columns {
			columns[i] = fmt.Sprint(i)
		}
	}

	f := frame.New(columns...)
	for _, row := range rows {
		// Trailing empty cells are omitted by the API; pad with nil.
		padded := make([]any, len(columns))
		copy(padded, row)
		if err := f.AppendRow(padded...); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WriteOptions configures Write.
type WriteOptions struct {
	// IfExists selects the behavior when a spreadsheet with the same name
	// exists. Defaults to IfExistsFail.
	IfExists IfExists

	// FolderID places the spreadsheet in a Drive folder.
	FolderID string

	// DriveID targets a shared drive when checking for existing files.
	DriveID string

	// ServiceAccountJSON is the credentials file path. Defaults to the
	// environment (GOOGLE_APPLICATION_CREDENTIALS).
	ServiceAccountJSON string
}

// Write creates a spreadsheet named name and populates its first sheet with
// the frame, header row included. Returns the spreadsheet ID.
func Write(ctx context.Context, fr *frame.Frame, name string, opts WriteOptions) (string, error) {
	ifExists := opts.IfExists
	if ifExists == "" {
		ifExists = IfExistsFail
	}
	if ifExists != IfExistsFail && ifExists != IfExistsReplace {
		return "", fmt.Errorf("%w: %q", ErrInvalidIfExists, ifExists)
	}

	svc, err := newService(ctx, false, opts.ServiceAccountJSON)
	if err != nil {
		return "", err
	}
	driveSvc, err := drive.NewService(ctx, false, opts.ServiceAccountJSON)
	if err != nil {
		return "", err
	}

	// Check if a spreadsheet with this name already exists.
	existing, err := drive.List(ctx, drive.ListQuery{
		Name:               name,
		MimeType:           drive.SpreadsheetMimeType,
		FolderID:           opts.FolderID,
		DriveID:            opts.DriveID,
		ServiceAccountJSON: opts.ServiceAccountJSON,
	})
	if err != nil {
		return "", err
	}
	if !existing.Empty() {
		if existing.Len() > 1 {
			return "", fmt.Errorf("%w: %q", ErrMultipleSpreadsheets, name)
		}
		if ifExists == IfExistsFail {
			return "", fmt.Errorf("%w: %q", ErrSpreadsheetExists, name)
		}
		id, err := existing.Cell(0, "id")
		if err != nil {
			return "", err
		}
		if err := driveSvc.Files.Delete(fmt.Sprint(id)).Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("delete spreadsheet: %w", err)
		}
	}

	// Create an empty spreadsheet through Drive so it can be placed in a
	// folder.
	file := &gdrive.File{Name: name, MimeType: drive.SpreadsheetMimeType}
	if opts.FolderID != "" {
		file.Parents = []string{opts.FolderID}
	}
	created, err := driveSvc.Files.Create(file).Context(ctx).Fields("id").Do()
	if err != nil {
		return "", fmt.Errorf("create spreadsheet: %w", err)
	}
	spreadsheetID := created.Id

	rangeName, err := ValueRange(fr.Len()+1, len(fr.Columns()))
	if err != nil {
		return "", err
	}

	values := make([][]any, 0, fr.Len()+1)
	header := make([]any, 0, len(fr.Columns()))
	for _, col := range fr.Columns() {
		header = append(header, col)
	}
	values = append(values, header)
	for i := 0; i < fr.Len(); i++ {
		row := fr.Row(i)
		for j, v := range row {
			row[j] = FormatCellValue(v)
		}
		values = append(values, row)
	}

	_, err = svc.Spreadsheets.Values.Update(spreadsheetID, rangeName, &sheets.ValueRange{Values: values}).
		Context(ctx).
		ValueInputOption("USER_ENTERED").
		Do()
	if err != nil {
		return "", fmt.Errorf("populate spreadsheet: %w", err)
	}
	return spreadsheetID, nil
}

// ValueRange computes the A1 range covering rows x cols starting at A1,
// e.g. ValueRange(3, 2) == "Sheet1!A1:B3".
func ValueRange(rows, cols int) (string, error) {
	if cols > maxColumns {
		return "", fmt.Errorf("%w (%d)", ErrTooManyColumns, cols)
	}
	if cols < 1 || rows < 1 {
		return "", fmt.Errorf("invalid range %dx%d", rows, cols)
	}
	return fmt.Sprintf("Sheet1!A1:%c%d", 'A'+cols-1, rows), nil
}

// FormatCellValue renders a value into a form the Sheets API serializes
// cleanly. Times become "2006-01-02 15:04:05" strings, with fractional
// seconds kept only when present.
func FormatCellValue(v any) any {
	t, ok := v.(time.Time)
	if !ok {
		return v
	}
	layout := "2006-01-02 15:04:05"
	if t.Nanosecond() != 0 {
		layout += ".000000"
	}
	// Date-only values keep the ISO date form.
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(layout)
}
