package main

import (
	"io"
	"testing"

	"github.com/hammamikhairi/repflow/internal/catalog"
	"github.com/hammamikhairi/repflow/internal/config"
	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/generator"
	"github.com/hammamikhairi/repflow/internal/logger"
)

// The out-of-the-box invocation configures no muscle groups; that has
// to mean "all of them", not an invalid-input error from the generator.
func TestDefaultSettingsGenerateWorkout(t *testing.T) {
	log := logger.New(logger.LevelOff, io.Discard)
	cat := catalog.NewMemoryCatalog(log)
	settings := config.Defaults()

	groups, err := workoutGroups(settings, cat)
	if err != nil {
		t.Fatalf("resolving groups: %v", err)
	}
	if len(groups) == 0 {
		t.Fatal("default settings resolved to no muscle groups")
	}

	gen := generator.New(cat, log)
	workout, err := gen.GenerateRandomWorkout(settings.Workout.Length, groups)
	if err != nil {
		t.Fatalf("generating with default settings: %v", err)
	}
	if len(workout) != settings.Workout.Length {
		t.Fatalf("workout length = %d, want %d", len(workout), settings.Workout.Length)
	}
}

func TestWorkoutGroupsKeepsConfiguredSubset(t *testing.T) {
	log := logger.New(logger.LevelOff, io.Discard)
	cat := catalog.NewMemoryCatalog(log)
	settings := config.Defaults()
	settings.Workout.Groups = []string{"chest", "legs"}

	groups, err := workoutGroups(settings, cat)
	if err != nil {
		t.Fatalf("resolving groups: %v", err)
	}
	want := []domain.MuscleGroup{domain.GroupChest, domain.GroupLegs}
	if len(groups) != len(want) {
		t.Fatalf("groups = %v, want %v", groups, want)
	}
	for i := range want {
		if groups[i] != want[i] {
			t.Fatalf("groups = %v, want %v", groups, want)
		}
	}
}
