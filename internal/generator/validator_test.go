package generator

import (
	"errors"
	"testing"

	"github.com/hammamikhairi/repflow/internal/domain"
)

var (
	chestA = domain.Exercise{ID: "push-up", Name: "Push Up", MuscleGroup: domain.GroupChest}
	chestB = domain.Exercise{ID: "bench-press", Name: "Bench Press", MuscleGroup: domain.GroupChest}
	backA  = domain.Exercise{ID: "pull-up", Name: "Pull Up", MuscleGroup: domain.GroupBack}
	backB  = domain.Exercise{ID: "seated-row", Name: "Seated Row", MuscleGroup: domain.GroupBack}
	legsA  = domain.Exercise{ID: "squat", Name: "Squat", MuscleGroup: domain.GroupLegs}
)

func TestIsValidWorkout(t *testing.T) {
	tests := []struct {
		name    string
		seq     domain.Workout
		want    bool
		wantErr bool
	}{
		{"empty", domain.Workout{}, true, false},
		{"single", domain.Workout{chestA}, true, false},
		{"alternating", domain.Workout{chestA, backA, chestB}, true, false},
		{"adjacent same group", domain.Workout{chestA, chestB, backA}, false, false},
		{"violation at tail", domain.Workout{chestA, backA, backB}, false, false},
		{"missing muscle group", domain.Workout{chestA, {ID: "x", Name: "X"}}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsValidWorkout(tt.seq)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCanAddExercise(t *testing.T) {
	tests := []struct {
		name      string
		seq       domain.Workout
		candidate domain.Exercise
		want      bool
		wantErr   bool
	}{
		{"empty sequence accepts anything", domain.Workout{}, chestA, true, false},
		{"different group", domain.Workout{chestA}, backA, true, false},
		{"same group as last", domain.Workout{backA, chestA}, chestB, false, false},
		{"candidate without group", domain.Workout{chestA}, domain.Exercise{ID: "x"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanAddExercise(tt.seq, tt.candidate)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLastMuscleGroup(t *testing.T) {
	if _, ok := LastMuscleGroup(domain.Workout{}); ok {
		t.Fatal("empty sequence should have no last group")
	}

	group, ok := LastMuscleGroup(domain.Workout{chestA, backA})
	if !ok {
		t.Fatal("expected a last group")
	}
	if group != domain.GroupBack {
		t.Fatalf("expected back, got %s", group)
	}
}

func TestValidOptions(t *testing.T) {
	seq := domain.Workout{backA, chestA}
	candidates := []domain.Exercise{
		chestB,                      // same group as last, filtered
		backB,                       // legal
		legsA,                       // legal
		{ID: "", MuscleGroup: "x"},  // malformed, skipped
		{ID: "no-group", Name: "N"}, // malformed, skipped
	}

	got := ValidOptions(seq, candidates)
	if len(got) != 2 {
		t.Fatalf("expected 2 options, got %d", len(got))
	}
	if got[0].ID != backB.ID || got[1].ID != legsA.ID {
		t.Fatalf("unexpected options: %v", got)
	}

	// Empty sequence keeps every well-formed candidate.
	all := ValidOptions(domain.Workout{}, candidates)
	if len(all) != 3 {
		t.Fatalf("expected 3 options for empty sequence, got %d", len(all))
	}
}

func TestConstraintStats(t *testing.T) {
	seq := domain.Workout{chestA, chestB, backA, backB, legsA}
	stats := ConstraintStats(seq)

	if stats.TotalExercises != 5 {
		t.Fatalf("expected 5 exercises, got %d", stats.TotalExercises)
	}
	if stats.Violations != 2 {
		t.Fatalf("expected 2 violations, got %d", stats.Violations)
	}
	if len(stats.ViolationPositions) != 2 || stats.ViolationPositions[0] != 1 || stats.ViolationPositions[1] != 3 {
		t.Fatalf("unexpected violation positions: %v", stats.ViolationPositions)
	}
	if stats.IsValid {
		t.Fatal("sequence with violations reported valid")
	}
	if stats.GroupDistribution[domain.GroupChest] != 2 ||
		stats.GroupDistribution[domain.GroupBack] != 2 ||
		stats.GroupDistribution[domain.GroupLegs] != 1 {
		t.Fatalf("unexpected distribution: %v", stats.GroupDistribution)
	}

	clean := ConstraintStats(domain.Workout{chestA, backA})
	if !clean.IsValid || clean.Violations != 0 || len(clean.ViolationPositions) != 0 {
		t.Fatalf("clean sequence misreported: %+v", clean)
	}
}
