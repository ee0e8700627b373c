package generator

import (
	"fmt"

	"github.com/hammamikhairi/repflow/internal/domain"
)

// GetReplacementOptions returns the catalog exercises that could replace
// the one at position: same muscle group, not the current exercise, not
// already used elsewhere in the sequence, and not matching a neighbor's
// group. That last check is redundant for sequences that already satisfy
// the adjacency invariant; it is kept for sequences built by callers that
// may not.
func (g *Generator) GetReplacementOptions(position int, seq domain.Workout) ([]domain.Exercise, error) {
	if len(seq) == 0 {
		return nil, fmt.Errorf("empty sequence: %w", domain.ErrInvalidInput)
	}
	if position < 0 || position >= len(seq) {
		return nil, fmt.Errorf("position %d in sequence of %d: %w",
			position, len(seq), domain.ErrIndexOutOfBounds)
	}
	current := seq[position]
	if current.MuscleGroup == "" {
		return nil, fmt.Errorf("element %d has no muscle group: %w", position, domain.ErrInvalidInput)
	}

	pool, err := g.catalog.ExercisesByGroup(current.MuscleGroup)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", current.MuscleGroup, err)
	}

	usedElsewhere := make(map[string]bool, len(seq))
	for i, ex := range seq {
		if i == position {
			continue
		}
		usedElsewhere[ex.ID] = true
	}

	var prev, next domain.MuscleGroup
	if position > 0 {
		prev = seq[position-1].MuscleGroup
	}
	if position < len(seq)-1 {
		next = seq[position+1].MuscleGroup
	}

	out := make([]domain.Exercise, 0, len(pool))
	for _, cand := range pool {
		if cand.ID == current.ID || usedElsewhere[cand.ID] {
			continue
		}
		if cand.MuscleGroup == prev || cand.MuscleGroup == next {
			continue
		}
		out = append(out, cand)
	}
	return out, nil
}

// ReplaceExercise returns a new sequence with the exercise at index
// swapped for newExercise. A replacement must stay within the muscle
// group of the slot it fills; that restriction is deliberate. The input
// sequence is never mutated.
func (g *Generator) ReplaceExercise(seq domain.Workout, index int, newExercise domain.Exercise) (domain.Workout, error) {
	if len(seq) == 0 {
		return nil, fmt.Errorf("empty sequence: %w", domain.ErrInvalidInput)
	}
	if index < 0 || index >= len(seq) {
		return nil, fmt.Errorf("index %d in sequence of %d: %w",
			index, len(seq), domain.ErrIndexOutOfBounds)
	}
	if newExercise.ID == "" || newExercise.Name == "" || newExercise.MuscleGroup == "" {
		return nil, fmt.Errorf("replacement is missing id, name, or muscle group: %w", domain.ErrInvalidInput)
	}

	if _, ok := g.catalog.ExerciseByID(newExercise.ID); !ok {
		return nil, &domain.ReplacementError{Rule: domain.ReplacementNotInCatalog, Detail: newExercise.ID}
	}
	if newExercise.MuscleGroup != seq[index].MuscleGroup {
		return nil, &domain.ReplacementError{
			Rule: domain.ReplacementGroupMismatch,
			Detail: fmt.Sprintf("%s targets %s, slot %d holds %s",
				newExercise.ID, newExercise.MuscleGroup, index, seq[index].MuscleGroup),
		}
	}
	for i, ex := range seq {
		if i != index && ex.ID == newExercise.ID {
			return nil, &domain.ReplacementError{Rule: domain.ReplacementDuplicate, Detail: newExercise.ID}
		}
	}

	out := seq.Clone()
	out[index] = newExercise

	if index > 0 && out[index-1].MuscleGroup == newExercise.MuscleGroup {
		return nil, &domain.ReplacementError{
			Rule:   domain.ReplacementAdjacency,
			Detail: fmt.Sprintf("clashes with position %d", index-1),
		}
	}
	if index < len(out)-1 && out[index+1].MuscleGroup == newExercise.MuscleGroup {
		return nil, &domain.ReplacementError{
			Rule:   domain.ReplacementAdjacency,
			Detail: fmt.Sprintf("clashes with position %d", index+1),
		}
	}
	if ok, err := IsValidWorkout(out); err != nil {
		return nil, err
	} else if !ok {
		return nil, &domain.ReplacementError{
			Rule:   domain.ReplacementAdjacency,
			Detail: "sequence invalid after replacement",
		}
	}

	g.log.Debug("replaced %s with %s at position %d", seq[index].ID, newExercise.ID, index)
	return out, nil
}
