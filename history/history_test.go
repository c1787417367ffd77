package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordStartAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.RecordStart(ctx, Run{ID: "r1", Flow: "check", Event: "pull_request", Branch: "main"})
	require.NoError(t, err)

	run, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, run.Status)
	assert.Equal(t, "check", run.Flow)
	assert.False(t, run.StartedAt.IsZero())
	assert.True(t, run.FinishedAt.IsZero())
}

func TestRecordStartDuplicate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordStart(ctx, Run{ID: "r1", Flow: "check", Event: "push", Branch: "main"}))
	err := store.RecordStart(ctx, Run{ID: "r1", Flow: "check", Event: "push", Branch: "main"})
	assert.ErrorIs(t, err, ErrRunExists)
}

func TestRecordFinish(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordStart(ctx, Run{ID: "r1", Flow: "publish", Event: "push", Branch: "main"}))
	require.NoError(t, store.RecordFinish(ctx, "r1", StatusFailed, "push rejected"))

	run, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, run.Status)
	assert.Equal(t, "push rejected", run.Error)
	assert.False(t, run.FinishedAt.IsZero())
}

func TestRecordFinishUnknownRun(t *testing.T) {
	store := openTestStore(t)

	err := store.RecordFinish(context.Background(), "missing", StatusSucceeded, "")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestGetUnknownRun(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListFiltersAndOrders(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seed := []Run{
		{ID: "r1", Flow: "check", Event: "pull_request", Branch: "main"},
		{ID: "r2", Flow: "publish", Event: "push", Branch: "main"},
		{ID: "r3", Flow: "check", Event: "pull_request", Branch: "main"},
	}
	for _, run := range seed {
		require.NoError(t, store.RecordStart(ctx, run))
	}
	require.NoError(t, store.RecordFinish(ctx, "r1", StatusSucceeded, ""))
	require.NoError(t, store.RecordFinish(ctx, "r3", StatusFailed, "stage syntax failed"))

	checks, err := store.List(ctx, Filter{Flow: "check"})
	require.NoError(t, err)
	require.Len(t, checks, 2)
	assert.Equal(t, "r3", checks[0].ID)

	failed, err := store.List(ctx, Filter{Status: StatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "r3", failed[0].ID)

	limited, err := store.List(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestOpenCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.RecordStart(context.Background(), Run{ID: "r1", Flow: "check", Event: "push", Branch: "main"}))
}
