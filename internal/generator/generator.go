package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/logger"
)

// Option configures the generator.
type Option func(*Generator)

// WithRand sets the random source used for all shuffling. Tests inject a
// seeded source for reproducible output.
func WithRand(rnd *rand.Rand) Option {
	return func(g *Generator) {
		g.rnd = rnd
	}
}

// WithMaxAttempts sets the retry ceiling of the greedy build loop.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithShuffleAttempts sets how many random full shuffles ShuffleWorkout
// tries before falling back to the constraint-aware interleave.
func WithShuffleAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.shuffleAttempts = n
		}
	}
}

// Generator builds workout sequences from the exercise catalog. It is
// purely CPU-bound; every method returns synchronously and never touches
// its inputs.
type Generator struct {
	catalog domain.ExerciseCatalog
	log     *logger.Logger
	rnd     *rand.Rand

	maxAttempts     int
	shuffleAttempts int
}

// New creates a generator backed by the given catalog.
func New(catalog domain.ExerciseCatalog, log *logger.Logger, opts ...Option) *Generator {
	g := &Generator{
		catalog:         catalog,
		log:             log,
		rnd:             rand.New(rand.NewSource(time.Now().UnixNano())),
		maxAttempts:     100,
		shuffleAttempts: 50,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateRandomWorkout builds a workout of exactly length exercises drawn
// from the enabled muscle groups, honoring the adjacency constraint and
// never repeating an exercise.
func (g *Generator) GenerateRandomWorkout(length int, enabled []domain.MuscleGroup) (domain.Workout, error) {
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no muscle groups enabled: %w", domain.ErrInvalidInput)
	}
	groups := dedupeGroups(enabled)

	// One group can never alternate, whatever the catalog holds.
	if len(groups) == 1 && length > 1 {
		return nil, fmt.Errorf("cannot build %d alternating exercises from one muscle group: %w",
			length, domain.ErrConstraintUnsatisfiable)
	}
	if length < domain.MinWorkoutLength || length > domain.MaxWorkoutLength {
		return nil, fmt.Errorf("length %d outside [%d, %d]: %w",
			length, domain.MinWorkoutLength, domain.MaxWorkoutLength, domain.ErrInvalidInput)
	}

	buckets := make(map[domain.MuscleGroup][]domain.Exercise, len(groups))
	available := 0
	for _, group := range groups {
		list, err := g.catalog.ExercisesByGroup(group)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", group, err)
		}
		buckets[group] = ShuffleSlice(g.rnd, list)
		available += len(list)
	}
	if available < length {
		return nil, fmt.Errorf("need %d exercises, enabled groups offer %d: %w",
			length, available, domain.ErrInsufficientExercises)
	}

	workout := make(domain.Workout, 0, length)
	used := make(map[string]bool, length)
	cursor := make(map[domain.MuscleGroup]int, len(groups))

	for attempts := 0; len(workout) < length; attempts++ {
		if attempts >= g.maxAttempts {
			g.log.Warn("generation gave up after %d attempts at %d/%d exercises", attempts, len(workout), length)
			return nil, fmt.Errorf("stalled at %d of %d exercises after %d attempts: %w",
				len(workout), length, attempts, domain.ErrGenerationFailed)
		}

		last, hasLast := LastMuscleGroup(workout)
		candidates := make([]domain.MuscleGroup, 0, len(groups))
		for _, group := range groups {
			if hasLast && group == last {
				continue
			}
			candidates = append(candidates, group)
		}
		if len(candidates) == 0 {
			// Only reachable if the enabled set shrinks mid-build.
			return nil, fmt.Errorf("no candidate group for slot %d: %w",
				len(workout), domain.ErrConstraintViolation)
		}

		for _, group := range ShuffleSlice(g.rnd, candidates) {
			bucket := buckets[group]
			for cursor[group] < len(bucket) && used[bucket[cursor[group]].ID] {
				cursor[group]++
			}
			if cursor[group] >= len(bucket) {
				continue
			}
			ex := bucket[cursor[group]]
			cursor[group]++
			used[ex.ID] = true
			workout = append(workout, ex)
			break
		}
	}

	// Re-verify both invariants before handing the workout out. A failure
	// here is an internal invariant violation, not a user error.
	if ok, err := IsValidWorkout(workout); err != nil || !ok {
		return nil, fmt.Errorf("generated workout failed adjacency verification: %w", domain.ErrConstraintViolation)
	}
	seen := make(map[string]bool, len(workout))
	for _, ex := range workout {
		if seen[ex.ID] {
			return nil, fmt.Errorf("generated workout repeats %s: %w", ex.ID, domain.ErrConstraintViolation)
		}
		seen[ex.ID] = true
	}

	g.log.Debug("generated %d-exercise workout from %d muscle groups", len(workout), len(groups))
	return workout, nil
}

// dedupeGroups collapses repeated group names, preserving first-seen order.
func dedupeGroups(groups []domain.MuscleGroup) []domain.MuscleGroup {
	seen := make(map[domain.MuscleGroup]bool, len(groups))
	out := make([]domain.MuscleGroup, 0, len(groups))
	for _, g := range groups {
		if seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out
}
