package artifact

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RetentionConfig defines how long run artifacts are kept.
type RetentionConfig struct {
	// ArchiveAfter is the age at which a run is packed into a tar.gz.
	ArchiveAfter time.Duration

	// DeleteAfter is the age at which an archive is removed.
	DeleteAfter time.Duration
}

// DefaultRetentionConfig keeps runs unpacked for a week and archives
// for three months.
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		ArchiveAfter: 7 * 24 * time.Hour,
		DeleteAfter:  90 * 24 * time.Hour,
	}
}

// CleanupResult summarizes one cleanup pass.
type CleanupResult struct {
	Archived []string
	Deleted  []string
}

// Cleanup archives runs older than ArchiveAfter and deletes archives
// older than DeleteAfter. Ages are taken from directory modification
// times.
func (s *Store) Cleanup(cfg RetentionConfig) (*CleanupResult, error) {
	result := &CleanupResult{}
	now := time.Now()

	runsDir := filepath.Join(s.baseDir, "runs")
	entries, err := os.ReadDir(runsDir)
	if err != nil {
		return nil, fmt.Errorf("read runs directory: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < cfg.ArchiveAfter {
			continue
		}

		runID := e.Name()
		if err := s.archiveRun(runID); err != nil {
			return result, err
		}
		if err := os.RemoveAll(filepath.Join(runsDir, runID)); err != nil {
			return result, fmt.Errorf("remove archived run %s: %w", runID, err)
		}
		result.Archived = append(result.Archived, runID)
	}

	archiveDir := filepath.Join(s.baseDir, "archive")
	archives, err := os.ReadDir(archiveDir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("read archive directory: %w", err)
	}
	for _, e := range archives {
		if !strings.HasSuffix(e.Name(), ".tar.gz") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < cfg.DeleteAfter {
			continue
		}
		if err := os.Remove(filepath.Join(archiveDir, e.Name())); err != nil {
			return result, fmt.Errorf("delete archive %s: %w", e.Name(), err)
		}
		result.Deleted = append(result.Deleted, strings.TrimSuffix(e.Name(), ".tar.gz"))
	}

	return result, nil
}

func (s *Store) archiveRun(runID string) error {
	archiveDir := filepath.Join(s.baseDir, "archive")
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}

	out, err := os.Create(filepath.Join(archiveDir, runID+".tar.gz"))
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	gw := gzip.NewWriter(out)
	defer gw.Close()
	tw := tar.NewWriter(gw)
	defer tw.Close()

	runDir := filepath.Join(s.baseDir, "runs", runID)
	names, err := s.List(runID)
	if err != nil {
		return err
	}

	for _, name := range names {
		path := filepath.Join(runDir, name)
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", name, err)
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("archive header %s: %w", name, err)
		}
		hdr.Name = filepath.Join(runID, name)
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("write header %s: %w", name, err)
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", name, err)
		}
		_, err = io.Copy(tw, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("archive %s: %w", name, err)
		}
	}

	return nil
}
