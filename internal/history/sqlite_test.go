package history

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/logger"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "history", "runs.db")
	store, err := OpenSQLite(path, logger.New(logger.LevelOff, io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := testRecord("run-1", time.Date(2025, 6, 2, 18, 30, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.True(t, got.Completed)
	assert.Equal(t, rec.Exercises, got.Exercises)
	assert.True(t, got.StartedAt.Equal(rec.StartedAt))
	assert.True(t, got.CompletedAt.Equal(rec.CompletedAt))
	require.Len(t, got.Workout, 2)
	assert.Equal(t, "push-up", got.Workout[0].ID)
	assert.Equal(t, domain.GroupLegs, got.Workout[1].MuscleGroup)
}

func TestSQLiteStoreGetMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLiteStoreSaveReplaces(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := testRecord("run-1", time.Now().UTC())
	require.NoError(t, store.Save(ctx, rec))

	rec.Exercises = 1
	rec.Workout = rec.Workout[:1]
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Exercises)
	assert.Len(t, got.Workout, 1)
}

func TestSQLiteStoreListOrderAndLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, testRecord("old", base)))
	require.NoError(t, store.Save(ctx, testRecord("mid", base.Add(time.Hour))))
	require.NoError(t, store.Save(ctx, testRecord("new", base.Add(2*time.Hour))))

	recs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "new", recs[0].ID)
	assert.Equal(t, "old", recs[2].ID)

	limited, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "new", limited[0].ID)
	assert.Len(t, limited[0].Workout, 2)
}
