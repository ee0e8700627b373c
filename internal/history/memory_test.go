package history

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/logger"
)

func testRecord(id string, completedAt time.Time) *domain.SessionRecord {
	return &domain.SessionRecord{
		ID:          id,
		StartedAt:   completedAt.Add(-20 * time.Minute),
		CompletedAt: completedAt,
		Exercises:   2,
		Completed:   true,
		Workout: domain.Workout{
			{ID: "push-up", Name: "Push-Up", MuscleGroup: domain.GroupChest},
			{ID: "squat", Name: "Squat", MuscleGroup: domain.GroupLegs},
		},
	}
}

func TestMemoryStoreSaveGet(t *testing.T) {
	store := NewMemoryStore(logger.New(logger.LevelOff, io.Discard))
	ctx := context.Background()

	rec := testRecord("run-1", time.Now())
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Exercises, got.Exercises)
	assert.Equal(t, rec.Workout, got.Workout)

	// Mutating the returned record must not affect the store.
	got.Workout[0].Name = "changed"
	again, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "Push-Up", again.Workout[0].Name)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore(logger.New(logger.LevelOff, io.Discard))

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	store := NewMemoryStore(logger.New(logger.LevelOff, io.Discard))
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, testRecord("old", base)))
	require.NoError(t, store.Save(ctx, testRecord("mid", base.Add(time.Hour))))
	require.NoError(t, store.Save(ctx, testRecord("new", base.Add(2*time.Hour))))

	recs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "new", recs[0].ID)
	assert.Equal(t, "mid", recs[1].ID)
	assert.Equal(t, "old", recs[2].ID)

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "new", limited[0].ID)
}
