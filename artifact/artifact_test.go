package artifact

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadList(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("run-1", "lint.txt", []byte("clean")))
	require.NoError(t, store.SaveJSON("run-1", "state.json", map[string]string{"flow": "check"}))

	data, err := store.Load("run-1", "lint.txt")
	require.NoError(t, err)
	assert.Equal(t, "clean", string(data))

	names, err := store.List("run-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"lint.txt", "state.json"}, names)

	runs, err := store.Runs()
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1"}, runs)
}

func TestLoadMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("run-1", "absent.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCleanupArchivesOldRuns(t *testing.T) {
	base := t.TempDir()
	store, err := NewStore(base)
	require.NoError(t, err)

	require.NoError(t, store.Save("run-old", "state.json", []byte("{}")))
	require.NoError(t, store.Save("run-new", "state.json", []byte("{}")))

	// Age the old run's directory past the archive threshold.
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(base, "runs", "run-old"), old, old))

	result, err := store.Cleanup(RetentionConfig{
		ArchiveAfter: 24 * time.Hour,
		DeleteAfter:  90 * 24 * time.Hour,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"run-old"}, result.Archived)
	assert.Empty(t, result.Deleted)

	assert.NoFileExists(t, filepath.Join(base, "runs", "run-old", "state.json"))
	assert.FileExists(t, filepath.Join(base, "archive", "run-old.tar.gz"))

	runs, err := store.Runs()
	require.NoError(t, err)
	assert.Equal(t, []string{"run-new"}, runs)
}

func TestCleanupDeletesOldArchives(t *testing.T) {
	base := t.TempDir()
	store, err := NewStore(base)
	require.NoError(t, err)

	archiveDir := filepath.Join(base, "archive")
	require.NoError(t, os.MkdirAll(archiveDir, 0o755))
	archive := filepath.Join(archiveDir, "run-ancient.tar.gz")
	require.NoError(t, os.WriteFile(archive, []byte("gz"), 0o644))
	old := time.Now().Add(-100 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(archive, old, old))

	result, err := store.Cleanup(DefaultRetentionConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"run-ancient"}, result.Deleted)
	assert.NoFileExists(t, archive)
}
