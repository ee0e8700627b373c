package generator

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/hammamikhairi/repflow/internal/catalog"
	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/logger"
)

func setupGenerator(t *testing.T) (*Generator, *catalog.MemoryCatalog) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	cat := catalog.NewMemoryCatalog(log)
	gen := New(cat, log, WithRand(rand.New(rand.NewSource(1))))
	return gen, cat
}

// stubCatalog serves hand-built buckets for forcing generation corners.
type stubCatalog struct {
	groups map[domain.MuscleGroup][]domain.Exercise
}

func (s *stubCatalog) ExercisesByGroup(group domain.MuscleGroup) ([]domain.Exercise, error) {
	list, ok := s.groups[group]
	if !ok {
		return nil, domain.ErrUnknownMuscleGroup
	}
	out := make([]domain.Exercise, len(list))
	copy(out, list)
	return out, nil
}

func (s *stubCatalog) MuscleGroups() []domain.MuscleGroup {
	out := make([]domain.MuscleGroup, 0, len(s.groups))
	for g := range s.groups {
		out = append(out, g)
	}
	return out
}

func (s *stubCatalog) ExerciseByID(id string) (domain.Exercise, bool) {
	for _, list := range s.groups {
		for _, ex := range list {
			if ex.ID == id {
				return ex, true
			}
		}
	}
	return domain.Exercise{}, false
}

func assertWorkoutInvariants(t *testing.T, w domain.Workout, enabled []domain.MuscleGroup) {
	t.Helper()

	ok, err := IsValidWorkout(w)
	if err != nil {
		t.Fatalf("validating: %v", err)
	}
	if !ok {
		t.Fatalf("adjacency violated: %v", w)
	}

	allowed := make(map[domain.MuscleGroup]bool, len(enabled))
	for _, g := range enabled {
		allowed[g] = true
	}
	seen := make(map[string]bool, len(w))
	for _, ex := range w {
		if seen[ex.ID] {
			t.Fatalf("duplicate exercise %s", ex.ID)
		}
		seen[ex.ID] = true
		if !allowed[ex.MuscleGroup] {
			t.Fatalf("exercise %s targets disabled group %s", ex.ID, ex.MuscleGroup)
		}
	}
}

func TestGenerateRandomWorkout(t *testing.T) {
	gen, cat := setupGenerator(t)

	tests := []struct {
		name   string
		length int
		groups []domain.MuscleGroup
	}{
		{"three groups", 6, []domain.MuscleGroup{domain.GroupChest, domain.GroupBack, domain.GroupLegs}},
		{"two groups minimum length", 4, []domain.MuscleGroup{domain.GroupChest, domain.GroupBack}},
		{"two groups full alternation", 16, []domain.MuscleGroup{domain.GroupArms, domain.GroupCore}},
		{"all groups maximum length", 20, cat.MuscleGroups()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := gen.GenerateRandomWorkout(tt.length, tt.groups)
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			if len(w) != tt.length {
				t.Fatalf("expected %d exercises, got %d", tt.length, len(w))
			}
			assertWorkoutInvariants(t, w, tt.groups)
		})
	}
}

func TestGenerateSingleGroupUnsatisfiable(t *testing.T) {
	gen, _ := setupGenerator(t)

	tests := []struct {
		name   string
		length int
		groups []domain.MuscleGroup
	}{
		{"normal length", 6, []domain.MuscleGroup{domain.GroupLegs}},
		{"short length", 2, []domain.MuscleGroup{domain.GroupChest}},
		{"over maximum", 25, []domain.MuscleGroup{domain.GroupBack}},
		{"duplicated group collapses", 6, []domain.MuscleGroup{domain.GroupChest, domain.GroupChest}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gen.GenerateRandomWorkout(tt.length, tt.groups)
			if !errors.Is(err, domain.ErrConstraintUnsatisfiable) {
				t.Fatalf("expected ErrConstraintUnsatisfiable, got %v", err)
			}
		})
	}
}

func TestGenerateInvalidInput(t *testing.T) {
	gen, _ := setupGenerator(t)
	two := []domain.MuscleGroup{domain.GroupChest, domain.GroupBack}

	tests := []struct {
		name    string
		length  int
		groups  []domain.MuscleGroup
		wantErr error
	}{
		{"below minimum", 3, two, domain.ErrInvalidInput},
		{"above maximum", 21, two, domain.ErrInvalidInput},
		{"zero", 0, two, domain.ErrInvalidInput},
		{"negative", -5, two, domain.ErrInvalidInput},
		{"no groups", 6, nil, domain.ErrInvalidInput},
		{"unknown group", 6, []domain.MuscleGroup{domain.GroupChest, "cardio"}, domain.ErrUnknownMuscleGroup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gen.GenerateRandomWorkout(tt.length, tt.groups)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGenerateInsufficientExercises(t *testing.T) {
	gen, _ := setupGenerator(t)

	// Two 8-exercise groups offer 16 in total.
	_, err := gen.GenerateRandomWorkout(17, []domain.MuscleGroup{domain.GroupChest, domain.GroupBack})
	if !errors.Is(err, domain.ErrInsufficientExercises) {
		t.Fatalf("expected ErrInsufficientExercises, got %v", err)
	}
}

func TestGenerateStallsOnExhaustedBucket(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	stub := &stubCatalog{groups: map[domain.MuscleGroup][]domain.Exercise{
		"upper": {
			{ID: "u1", Name: "U1", MuscleGroup: "upper"},
			{ID: "u2", Name: "U2", MuscleGroup: "upper"},
			{ID: "u3", Name: "U3", MuscleGroup: "upper"},
			{ID: "u4", Name: "U4", MuscleGroup: "upper"},
			{ID: "u5", Name: "U5", MuscleGroup: "upper"},
			{ID: "u6", Name: "U6", MuscleGroup: "upper"},
			{ID: "u7", Name: "U7", MuscleGroup: "upper"},
			{ID: "u8", Name: "U8", MuscleGroup: "upper"},
			{ID: "u9", Name: "U9", MuscleGroup: "upper"},
		},
		"lower": {
			{ID: "l1", Name: "L1", MuscleGroup: "lower"},
		},
	}}
	gen := New(stub, log, WithRand(rand.New(rand.NewSource(1))), WithMaxAttempts(10))

	// Ten exercises are available, but alternation dies once the single
	// lower exercise is spent.
	_, err := gen.GenerateRandomWorkout(4, []domain.MuscleGroup{"upper", "lower"})
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestShuffleArrayDoesNotMutate(t *testing.T) {
	gen, cat := setupGenerator(t)

	original, err := cat.ExercisesByGroup(domain.GroupChest)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	snapshot := make([]domain.Exercise, len(original))
	copy(snapshot, original)

	for i := 0; i < 5; i++ {
		shuffled := gen.ShuffleArray(original)
		if len(shuffled) != len(original) {
			t.Fatalf("length changed: %d != %d", len(shuffled), len(original))
		}
		for j := range original {
			if original[j] != snapshot[j] {
				t.Fatalf("input mutated at %d on round %d", j, i)
			}
		}
		assertSameExercises(t, domain.Workout(shuffled), domain.Workout(original))
	}

	// Short lists come back as plain copies.
	one := []domain.Exercise{chestA}
	if got := gen.ShuffleArray(one); len(got) != 1 || got[0] != chestA {
		t.Fatalf("single-element shuffle changed content: %v", got)
	}
	if got := gen.ShuffleArray(nil); len(got) != 0 {
		t.Fatalf("nil shuffle produced elements: %v", got)
	}
}

func TestShuffleWorkoutPreservesInvariant(t *testing.T) {
	gen, _ := setupGenerator(t)

	w, err := gen.GenerateRandomWorkout(6, []domain.MuscleGroup{domain.GroupChest, domain.GroupBack, domain.GroupLegs})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	before := w.Clone()

	for i := 0; i < 10; i++ {
		shuffled, err := gen.ShuffleWorkout(w)
		if err != nil {
			t.Fatalf("shuffle round %d: %v", i, err)
		}
		ok, err := IsValidWorkout(shuffled)
		if err != nil || !ok {
			t.Fatalf("round %d produced invalid workout: %v", i, shuffled)
		}
		assertSameExercises(t, shuffled, w)
	}

	for i := range w {
		if w[i] != before[i] {
			t.Fatalf("input mutated at %d", i)
		}
	}
}

func TestShuffleWorkoutImpossibleKeepsOrder(t *testing.T) {
	gen, _ := setupGenerator(t)

	// Three chest picks in four slots cannot be interleaved.
	seq := domain.Workout{chestA, backA, chestB,
		{ID: "chest-fly", Name: "Chest Fly", MuscleGroup: domain.GroupChest}}

	got, err := gen.ShuffleWorkout(seq)
	if err != nil {
		t.Fatalf("shuffle: %v", err)
	}
	if len(got) != len(seq) {
		t.Fatalf("length changed: %d", len(got))
	}
	for i := range seq {
		if got[i] != seq[i] {
			t.Fatalf("expected original order at %d, got %v", i, got)
		}
	}
}

func TestInterleaveBalancedBuckets(t *testing.T) {
	gen, _ := setupGenerator(t)

	// Clustered but interleavable: the fallback must fix it.
	seq := domain.Workout{chestA, chestB, backA, backB}
	got := gen.interleave(seq)

	ok, err := IsValidWorkout(got)
	if err != nil || !ok {
		t.Fatalf("interleave produced invalid workout: %v", got)
	}
	assertSameExercises(t, got, seq)
}

func assertSameExercises(t *testing.T, a, b domain.Workout) {
	t.Helper()
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d != %d", len(a), len(b))
	}
	counts := make(map[string]int, len(a))
	for _, ex := range a {
		counts[ex.ID]++
	}
	for _, ex := range b {
		counts[ex.ID]--
		if counts[ex.ID] < 0 {
			t.Fatalf("exercise %s missing from counterpart", ex.ID)
		}
	}
}
