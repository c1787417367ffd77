package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrNotFound indicates the requested artifact does not exist.
var ErrNotFound = errors.New("artifact not found")

// Store keeps run artifacts under a base directory.
type Store struct {
	baseDir string
}

// NewStore creates a store rooted at baseDir.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, "runs"), 0o755); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// runDir returns the directory for a run, creating it if needed.
func (s *Store) runDir(runID string) (string, error) {
	dir := filepath.Join(s.baseDir, "runs", runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create run directory: %w", err)
	}
	return dir, nil
}

// Save writes one named artifact for a run.
func (s *Store) Save(runID, name string, data []byte) error {
	dir, err := s.runDir(runID)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", name, err)
	}
	return nil
}

// SaveJSON writes a value as an indented JSON artifact.
func (s *Store) SaveJSON(runID, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact %s: %w", name, err)
	}
	return s.Save(runID, name, append(data, '\n'))
}

// Load reads one named artifact for a run.
func (s *Store) Load(runID, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, "runs", runID, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, runID, name)
		}
		return nil, fmt.Errorf("read artifact %s: %w", name, err)
	}
	return data, nil
}

// List returns the artifact names recorded for a run, sorted.
func (s *Store) List(runID string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, "runs", runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, fmt.Errorf("read run directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Runs returns the IDs of all stored runs, sorted.
func (s *Store) Runs() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, "runs"))
	if err != nil {
		return nil, fmt.Errorf("read runs directory: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}
