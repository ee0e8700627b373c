package catalog

import (
	"errors"
	"testing"

	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/logger"
)

func newCatalog(t *testing.T) *MemoryCatalog {
	t.Helper()
	return NewMemoryCatalog(logger.New(logger.LevelOff, nil))
}

func TestMemoryCatalogGroups(t *testing.T) {
	cat := newCatalog(t)

	groups := cat.MuscleGroups()
	if len(groups) != 6 {
		t.Fatalf("expected 6 muscle groups, got %d", len(groups))
	}

	for _, g := range groups {
		list, err := cat.ExercisesByGroup(g)
		if err != nil {
			t.Fatalf("group %s: %v", g, err)
		}
		if len(list) < 4 {
			t.Fatalf("group %s has only %d exercises", g, len(list))
		}
		for _, ex := range list {
			if ex.MuscleGroup != g {
				t.Fatalf("exercise %s tagged %s, expected %s", ex.ID, ex.MuscleGroup, g)
			}
		}
	}
}

func TestMemoryCatalogExercisesByGroup(t *testing.T) {
	cat := newCatalog(t)

	tests := []struct {
		group   domain.MuscleGroup
		wantErr error
	}{
		{domain.GroupChest, nil},
		{domain.GroupBack, nil},
		{domain.GroupCore, nil},
		{"cardio", domain.ErrUnknownMuscleGroup},
		{"", domain.ErrUnknownMuscleGroup},
	}

	for _, tt := range tests {
		t.Run(string(tt.group), func(t *testing.T) {
			list, err := cat.ExercisesByGroup(tt.group)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(list) == 0 {
				t.Fatal("group has no exercises")
			}
		})
	}
}

func TestMemoryCatalogExerciseByID(t *testing.T) {
	cat := newCatalog(t)

	ex, ok := cat.ExerciseByID("push-up")
	if !ok {
		t.Fatal("push-up should exist")
	}
	if ex.Name != "Push Up" {
		t.Fatalf("expected name Push Up, got %s", ex.Name)
	}
	if ex.MuscleGroup != domain.GroupChest {
		t.Fatalf("expected chest, got %s", ex.MuscleGroup)
	}

	if _, ok := cat.ExerciseByID("nonexistent"); ok {
		t.Fatal("nonexistent id should not resolve")
	}
}

func TestMemoryCatalogDefensiveCopies(t *testing.T) {
	cat := newCatalog(t)

	list, err := cat.ExercisesByGroup(domain.GroupChest)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	list[0].Name = "corrupted"
	list[0].ID = "corrupted"

	again, err := cat.ExercisesByGroup(domain.GroupChest)
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if again[0].ID == "corrupted" {
		t.Fatal("catalog state leaked through returned slice")
	}

	groups := cat.MuscleGroups()
	groups[0] = "corrupted"
	if cat.MuscleGroups()[0] == "corrupted" {
		t.Fatal("catalog group order leaked through returned slice")
	}
}

func TestMemoryCatalogUniqueIDs(t *testing.T) {
	cat := newCatalog(t)

	seen := make(map[string]domain.MuscleGroup)
	for _, g := range cat.MuscleGroups() {
		list, err := cat.ExercisesByGroup(g)
		if err != nil {
			t.Fatalf("group %s: %v", g, err)
		}
		for _, ex := range list {
			if prev, dup := seen[ex.ID]; dup {
				t.Fatalf("id %s appears in both %s and %s", ex.ID, prev, g)
			}
			seen[ex.ID] = g
		}
	}
	if len(seen) != cat.Size() {
		t.Fatalf("Size()=%d, counted %d", cat.Size(), len(seen))
	}
	if len(seen) < domain.MaxWorkoutLength {
		t.Fatalf("catalog too small for max workout length: %d", len(seen))
	}
}

func TestMemoryCatalogSearch(t *testing.T) {
	cat := newCatalog(t)

	tests := []struct {
		query    string
		minCount int
	}{
		{"press", 5},
		{"curl", 3},
		{"plank", 2},
		{"PUSH", 3},
		{"nonexistent-query-xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			results := cat.Search(tt.query)
			if len(results) < tt.minCount {
				t.Fatalf("query=%q: expected at least %d results, got %d", tt.query, tt.minCount, len(results))
			}
		})
	}
}

func TestMemoryCatalogLabels(t *testing.T) {
	cat := newCatalog(t)

	if got := cat.Label(domain.GroupLegs); got != "Legs" {
		t.Fatalf("expected Legs, got %s", got)
	}
	// Unknown groups fall back to the raw identifier.
	if got := cat.Label("cardio"); got != "cardio" {
		t.Fatalf("expected raw fallback, got %s", got)
	}
}
