package generator

import (
	"math/rand"

	"github.com/hammamikhairi/repflow/internal/domain"
)

// ShuffleSlice returns a Fisher–Yates shuffled copy of list. The input is
// never mutated; lists of length 0 or 1 come back as plain copies.
func ShuffleSlice[T any](rnd *rand.Rand, list []T) []T {
	out := make([]T, len(list))
	copy(out, list)
	if len(out) <= 1 {
		return out
	}
	for i := len(out) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ShuffleArray returns a uniformly shuffled copy of the exercise list.
func (g *Generator) ShuffleArray(list []domain.Exercise) []domain.Exercise {
	return ShuffleSlice(g.rnd, list)
}

// ShuffleWorkout reorders a workout while preserving the adjacency
// constraint. It tries plain random shuffles first and accepts the first
// valid one; when none of those pass it falls back to a constraint-aware
// interleave. If the multiset of muscle groups cannot be interleaved at
// all, the original order is returned unchanged.
func (g *Generator) ShuffleWorkout(seq domain.Workout) (domain.Workout, error) {
	if _, err := IsValidWorkout(seq); err != nil {
		return nil, err
	}
	if len(seq) <= 1 {
		return seq.Clone(), nil
	}

	for attempt := 0; attempt < g.shuffleAttempts; attempt++ {
		cand := domain.Workout(ShuffleSlice(g.rnd, seq))
		ok, err := IsValidWorkout(cand)
		if err != nil {
			return nil, err
		}
		if ok {
			g.log.Debug("shuffle accepted after %d attempts", attempt+1)
			return cand, nil
		}
	}

	g.log.Debug("random shuffles exhausted after %d attempts, interleaving", g.shuffleAttempts)
	return g.interleave(seq), nil
}

// interleave rebuilds the sequence bucket by bucket: exercises are grouped
// by muscle group, the bucket order is shuffled once, and slots are filled
// from the fullest bucket that differs from the previous pick. This places
// every exercise whenever an interleaving exists; when it does not, the
// original order is kept.
func (g *Generator) interleave(seq domain.Workout) domain.Workout {
	buckets := make(map[domain.MuscleGroup][]domain.Exercise)
	var order []domain.MuscleGroup
	for _, ex := range seq {
		if _, seen := buckets[ex.MuscleGroup]; !seen {
			order = append(order, ex.MuscleGroup)
		}
		buckets[ex.MuscleGroup] = append(buckets[ex.MuscleGroup], ex)
	}
	order = ShuffleSlice(g.rnd, order)

	out := make(domain.Workout, 0, len(seq))
	var prev domain.MuscleGroup
	for len(out) < len(seq) {
		var pick domain.MuscleGroup
		for _, group := range order {
			if group == prev || len(buckets[group]) == 0 {
				continue
			}
			if pick == "" || len(buckets[group]) > len(buckets[pick]) {
				pick = group
			}
		}
		if pick == "" {
			g.log.Warn("workout cannot be interleaved, keeping original order")
			return seq.Clone()
		}
		out = append(out, buckets[pick][0])
		buckets[pick] = buckets[pick][1:]
		prev = pick
	}
	return out
}
