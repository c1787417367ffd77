// Package bigquery manages BigQuery table reads and writes.
//
// Tables are addressed by ID with optional dataset and project components:
// "table", "dataset.table" or "project.dataset.table". Reads execute a SQL
// query (whole table by default) into a frame; writes stream frame rows in
// chunks, with configurable behavior when the destination table exists.
package bigquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"github.com/utilitywarehouse/iolib/frame"
	"github.com/utilitywarehouse/iolib/googleauth"
)

// DefaultChunkSize is the number of rows streamed per insert request.
const DefaultChunkSize = 1000

// IfExists controls write behavior when the destination table exists.
type IfExists string

const (
	// IfExistsFail fails the write when the table already exists.
	IfExistsFail IfExists = "fail"

	// IfExistsReplace deletes and recreates the table before writing.
	IfExistsReplace IfExists = "replace"

	// IfExistsAppend inserts into the existing table, creating it if absent.
	IfExistsAppend IfExists = "append"
)

// Errors returned by the bigquery package.
var (
	// ErrInvalidTableID indicates a table ID with the wrong number of parts.
	ErrInvalidTableID = errors.New("invalid table ID")

	// ErrMissingDataset indicates no dataset could be resolved.
	ErrMissingDataset = errors.New("missing dataset")

	// ErrTableNotFound indicates the table does not exist.
	ErrTableNotFound = errors.New("table not found")

	// ErrTableExists indicates the table exists and IfExistsFail was requested.
	ErrTableExists = errors.New("table already exists")

	// ErrSchemaRequired indicates a schema is needed to create the table.
	ErrSchemaRequired = errors.New("schema is required to create tables")

	// ErrInvalidIfExists indicates an unknown IfExists value.
	ErrInvalidIfExists = errors.New("invalid if-exists value")
)

// FieldSpec describes one schema field.
type FieldSpec struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"`
	Mode     string `yaml:"mode,omitempty" json:"mode,omitempty"` // NULLABLE, REQUIRED or REPEATED
	Describe string `yaml:"description,omitempty" json:"description,omitempty"`
}

// ParseSchema converts field specs into a bigquery schema.
func ParseSchema(fields []FieldSpec) (bigquery.Schema, error) {
	schema := make(bigquery.Schema, 0, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema field without name")
		}
		fs := &bigquery.FieldSchema{
			Name:        f.Name,
			Type:        bigquery.FieldType(strings.ToUpper(f.Type)),
			Description: f.Describe,
		}
		switch strings.ToUpper(f.Mode) {
		case "", "NULLABLE":
		case "REQUIRED":
			fs.Required = true
		case "REPEATED":
			fs.Repeated = true
		default:
			return nil, fmt.Errorf("invalid mode %q for field %q", f.Mode, f.Name)
		}
		schema = append(schema, fs)
	}
	return schema, nil
}

// TableRef is a fully or partially qualified table reference.
type TableRef struct {
	Project string
	Dataset string
	Table   string
}

// ParseTableID splits a table ID into its components.
// Accepted forms: "table", "dataset.table", "project.dataset.table".
func ParseTableID(id string) (TableRef, error) {
	parts := strings.Split(id, ".")
	switch len(parts) {
	case 1:
		return TableRef{Table: parts[0]}, nil
	case 2:
		return TableRef{Dataset: parts[0], Table: parts[1]}, nil
	case 3:
		return TableRef{Project: parts[0], Dataset: parts[1], Table: parts[2]}, nil
	default:
		return TableRef{}, fmt.Errorf("%w: %q", ErrInvalidTableID, id)
	}
}

// TableConfig configures a TableManager.
type TableConfig struct {
	// Table is the table ID, optionally qualified with dataset and project.
	Table string

	// Dataset overrides the dataset parsed from Table.
	Dataset string

	// Project overrides the project parsed from Table and the client default.
	Project string

	// Schema is required only when the write path may create the table.
	Schema []FieldSpec

	// ServiceAccountJSON is the credentials file path. Defaults to the
	// environment (GOOGLE_APPLICATION_CREDENTIALS).
	ServiceAccountJSON string
}

// TableManager manages reads and writes for one BigQuery table.
type TableManager struct {
	client *bigquery.Client
	ref    TableRef
	schema bigquery.Schema
}

// NewTableManager creates a manager for the configured table.
func NewTableManager(ctx context.Context, cfg TableConfig) (*TableManager, error) {
	ref, err := ParseTableID(cfg.Table)
	if err != nil {
		return nil, err
	}
	if cfg.Dataset != "" {
		ref.Dataset = cfg.Dataset
	}
	if cfg.Project != "" {
		ref.Project = cfg.Project
	}
	if ref.Table == "" {
		return nil, fmt.Errorf("%w: empty table", ErrInvalidTableID)
	}
	if ref.Dataset == "" {
		return nil, ErrMissingDataset
	}

	project := ref.Project
	if project == "" {
		project = bigquery.DetectProjectID
	}
	client, err := bigquery.NewClient(ctx, project,
		googleauth.Options(cfg.ServiceAccountJSON)...)
	if err != nil {
		return nil, fmt.Errorf("create bigquery client: %w", err)
	}
	ref.Project = client.Project()

	var schema bigquery.Schema
	if len(cfg.Schema) > 0 {
		if schema, err = ParseSchema(cfg.Schema); err != nil {
			client.Close()
			return nil, err
		}
	}

	return &TableManager{client: client, ref: ref, schema: schema}, nil
}

// Close releases the underlying client.
func (m *TableManager) Close() error {
	return m.client.Close()
}

// TableID returns the fully qualified "project.dataset.table" ID.
func (m *TableManager) TableID() string {
	return m.ref.Project + "." + m.ref.Dataset + "." + m.ref.Table
}

func (m *TableManager) table() *bigquery.Table {
	return m.client.DatasetInProject(m.ref.Project, m.ref.Dataset).Table(m.ref.Table)
}

// DefaultQuery reads the whole table; `{table_id}` expands to the fully
// qualified table ID.
const DefaultQuery = "SELECT * FROM `{table_id}`"

// Read executes the query and returns the result as a frame. An empty query
// reads the whole table. The `{table_id}` placeholder is substituted before
// execution.
func (m *TableManager) Read(ctx context.Context, query string) (*frame.Frame, error) {
	if query == "" {
		query = DefaultQuery
	}
	sql := strings.ReplaceAll(query, "{table_id}", m.TableID())

	it, err := m.client.Query(sql).Read(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, m.TableID())
		}
		return nil, fmt.Errorf("run query: %w", err)
	}

	var result *frame.Frame
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if result == nil {
			result = frame.New(schemaColumns(it.Schema)...)
		}
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := result.AppendRow(values...); err != nil {
			return nil, err
		}
	}
	if result == nil {
		// No rows; the schema is still available on the iterator.
		result = frame.New(schemaColumns(it.Schema)...)
	}
	return result, nil
}

// WriteOptions configures Write.
type WriteOptions struct {
	// IfExists selects the behavior when the table exists.
	// Defaults to IfExistsFail.
	IfExists IfExists

	// ChunkSize is the number of rows per insert request.
	// Defaults to DefaultChunkSize.
	ChunkSize int
}

// Write streams the frame's rows into the table. Depending on
// opts.IfExists the table is created, replaced or appended to.
func (m *TableManager) Write(ctx context.Context, fr *frame.Frame, opts WriteOptions) error {
	ifExists := opts.IfExists
	if ifExists == "" {
		ifExists = IfExistsFail
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	table := m.table()
	meta, err := table.Metadata(ctx)
	exists := err == nil
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("get table metadata: %w", err)
	}

	switch ifExists {
	case IfExistsFail:
		if exists {
			return fmt.Errorf("%w: %s", ErrTableExists, m.TableID())
		}
		if err := m.createTable(ctx, table); err != nil {
			return err
		}
	case IfExistsReplace:
		if exists {
			schema := m.schema
			if schema == nil {
				schema = meta.Schema
			}
			if err := table.Delete(ctx); err != nil {
				return fmt.Errorf("delete table: %w", err)
			}
			if err := table.Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
				return fmt.Errorf("create table: %w", err)
			}
			m.schema = schema
		} else if err := m.createTable(ctx, table); err != nil {
			return err
		}
	case IfExistsAppend:
		if !exists {
			if err := m.createTable(ctx, table); err != nil {
				return err
			}
		} else if m.schema == nil {
			m.schema = meta.Schema
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidIfExists, ifExists)
	}

	return m.insertRows(ctx, table, fr, chunkSize)
}

func (m *TableManager) createTable(ctx context.Context, table *bigquery.Table) error {
	if m.schema == nil {
		return ErrSchemaRequired
	}
	if err := table.Create(ctx, &bigquery.TableMetadata{Schema: m.schema}); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

func (m *TableManager) insertRows(ctx context.Context, table *bigquery.Table, fr *frame.Frame, chunkSize int) error {
	// Order values by the table schema, not the frame's column order.
	selected, err := fr.Select(schemaColumns(m.schema)...)
	if err != nil {
		return fmt.Errorf("align columns to schema: %w", err)
	}

	inserter := table.Inserter()
	for from := 0; from < selected.Len(); from += chunkSize {
		to := from + chunkSize
		if to > selected.Len() {
			to = selected.Len()
		}
		savers := make([]*bigquery.ValuesSaver, 0, to-from)
		for i := from; i < to; i++ {
			row := selected.Row(i)
			values := make([]bigquery.Value, len(row))
			for j, v := range row {
				values[j] = v
			}
			savers = append(savers, &bigquery.ValuesSaver{
				Schema: m.schema,
				Row:    values,
			})
		}
		if err := inserter.Put(ctx, savers); err != nil {
			return fmt.Errorf("insert rows: %w", err)
		}
	}
	return nil
}

func schemaColumns(schema bigquery.Schema) []string {
	columns := make([]string, len(schema))
	for i, f := range schema {
		columns[i] = f.Name
	}
	return columns
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
