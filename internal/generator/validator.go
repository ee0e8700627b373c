// Package generator builds and reshapes workout sequences under the
// adjacency constraint: no two consecutive exercises may target the same
// muscle group.
package generator

import (
	"fmt"

	"github.com/hammamikhairi/repflow/internal/domain"
)

// Stats summarizes how a sequence relates to the adjacency constraint.
type Stats struct {
	TotalExercises     int
	Violations         int
	ViolationPositions []int
	IsValid            bool
	GroupDistribution  map[domain.MuscleGroup]int
}

// IsValidWorkout reports whether the sequence satisfies the adjacency
// constraint. Empty and single-element sequences are always valid.
// An element without a muscle group is invalid input.
func IsValidWorkout(seq domain.Workout) (bool, error) {
	for i, ex := range seq {
		if ex.MuscleGroup == "" {
			return false, fmt.Errorf("element %d has no muscle group: %w", i, domain.ErrInvalidInput)
		}
	}
	for i := 1; i < len(seq); i++ {
		if seq[i].MuscleGroup == seq[i-1].MuscleGroup {
			return false, nil
		}
	}
	return true, nil
}

// CanAddExercise reports whether candidate may legally extend the
// sequence: always true for an empty sequence, otherwise the candidate
// must not share a muscle group with the last element.
func CanAddExercise(seq domain.Workout, candidate domain.Exercise) (bool, error) {
	if candidate.MuscleGroup == "" {
		return false, fmt.Errorf("candidate %q has no muscle group: %w", candidate.ID, domain.ErrInvalidInput)
	}
	last, ok := LastMuscleGroup(seq)
	if !ok {
		return true, nil
	}
	return candidate.MuscleGroup != last, nil
}

// LastMuscleGroup returns the muscle group of the final element. The
// second return is false for an empty sequence.
func LastMuscleGroup(seq domain.Workout) (domain.MuscleGroup, bool) {
	if len(seq) == 0 {
		return "", false
	}
	return seq[len(seq)-1].MuscleGroup, true
}

// ValidOptions filters candidates down to those that may legally extend
// the sequence. Malformed candidates (missing id or muscle group) are
// skipped silently rather than failing the whole call.
func ValidOptions(seq domain.Workout, candidates []domain.Exercise) []domain.Exercise {
	out := make([]domain.Exercise, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == "" || c.MuscleGroup == "" {
			continue
		}
		ok, err := CanAddExercise(seq, c)
		if err != nil || !ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ConstraintStats computes a diagnostic summary of the sequence. A
// violation is an adjacent pair sharing a muscle group; the recorded
// position is the index of the later element of the pair.
func ConstraintStats(seq domain.Workout) Stats {
	stats := Stats{
		TotalExercises:    len(seq),
		GroupDistribution: make(map[domain.MuscleGroup]int),
	}
	for _, ex := range seq {
		stats.GroupDistribution[ex.MuscleGroup]++
	}
	for i := 1; i < len(seq); i++ {
		if seq[i].MuscleGroup == seq[i-1].MuscleGroup {
			stats.Violations++
			stats.ViolationPositions = append(stats.ViolationPositions, i)
		}
	}
	stats.IsValid = stats.Violations == 0
	return stats
}
