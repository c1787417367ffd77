package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// RunStatus is the lifecycle state of a recorded run.
type RunStatus string

// Run statuses.
const (
	StatusRunning   RunStatus = "running"
	StatusSucceeded RunStatus = "succeeded"
	StatusFailed    RunStatus = "failed"
	StatusSkipped   RunStatus = "skipped"
)

// Journal errors.
var (
	// ErrRunExists indicates a run with the same ID was already recorded.
	ErrRunExists = errors.New("run already recorded")

	// ErrRunNotFound indicates no run with the given ID exists.
	ErrRunNotFound = errors.New("run not found")
)

// Run is one journal entry.
type Run struct {
	ID         string
	Flow       string
	Event      string
	Branch     string
	Status     RunStatus
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time // zero while running
}

// Filter narrows a List query. Zero fields are ignored.
type Filter struct {
	Flow   string
	Status RunStatus
	Limit  int
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	flow        TEXT NOT NULL,
	event       TEXT NOT NULL,
	branch      TEXT NOT NULL,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_runs_flow ON runs(flow, started_at);
`

// Store is a SQLite-backed run journal.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal at path.
// Parent directories are created as required.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordStart journals a run in the running state.
func (s *Store) RecordStart(ctx context.Context, run Run) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, flow, event, branch, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Flow, run.Event, run.Branch, string(StatusRunning), run.StartedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrRunExists, run.ID)
		}
		return fmt.Errorf("record run start: %w", err)
	}
	return nil
}

// RecordFinish updates a run's terminal status. errMsg may be empty.
func (s *Store) RecordFinish(ctx context.Context, runID string, status RunStatus, errMsg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		string(status), errMsg, time.Now().Unix(), runID,
	)
	if err != nil {
		return fmt.Errorf("record run finish: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record run finish: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// Get returns a single run by ID.
func (s *Store) Get(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, flow, event, branch, status, error, started_at, finished_at
		 FROM runs WHERE id = ?`, runID,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// List returns runs matching the filter, most recent first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Run, error) {
	query := `SELECT id, flow, event, branch, status, error, started_at, finished_at FROM runs`
	var (
		conds []string
		args  []any
	)
	if filter.Flow != "" {
		conds = append(conds, "flow = ?")
		args = append(args, filter.Flow)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY started_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run      Run
		status   string
		started  int64
		finished int64
	)
	if err := row.Scan(&run.ID, &run.Flow, &run.Event, &run.Branch,
		&status, &run.Error, &started, &finished); err != nil {
		return nil, err
	}
	run.Status = RunStatus(status)
	run.StartedAt = time.Unix(started, 0)
	if finished != 0 {
		run.FinishedAt = time.Unix(finished, 0)
	}
	return &run, nil
}

func isUniqueViolation(err error) bool {
	// modernc.org/sqlite reports constraint failures in the message.
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}
