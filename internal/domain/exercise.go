// Package domain defines the core types and interfaces for the workout
// assistant. All other packages depend on domain; domain depends on nothing.
package domain

import "time"

// Exercise is a single catalog entry materialized into a workout slot.
// Immutable once fetched; the generator attaches MuscleGroup when it
// pulls an exercise out of a muscle-group bucket.
type Exercise struct {
	ID          string
	Name        string
	MuscleGroup MuscleGroup
}

// MuscleGroup tags the body region an exercise targets. The catalog owns
// the valid set and a human-readable label for each.
type MuscleGroup string

const (
	GroupChest     MuscleGroup = "chest"
	GroupBack      MuscleGroup = "back"
	GroupLegs      MuscleGroup = "legs"
	GroupShoulders MuscleGroup = "shoulders"
	GroupArms      MuscleGroup = "arms"
	GroupCore      MuscleGroup = "core"
)

// Workout is an ordered exercise sequence. Two invariants hold for any
// accepted workout: no two consecutive exercises share a muscle group,
// and no exercise id appears twice. Workouts are replaced wholesale by
// operations that re-validate; they are never patched in place.
type Workout []Exercise

// Workout length policy bounds.
const (
	MinWorkoutLength = 4
	MaxWorkoutLength = 20
)

// Clone returns an independent copy of the workout.
func (w Workout) Clone() Workout {
	if w == nil {
		return nil
	}
	out := make(Workout, len(w))
	copy(out, w)
	return out
}

// TimerConfig describes how one exercise is timed. Durations are whole
// seconds, counts are at least 1. The engine receives a copy and treats
// it as read-only for the duration of a run; callers may install a new
// config between exercises.
type TimerConfig struct {
	Prepare         time.Duration
	Work            time.Duration
	Rest            time.Duration
	CyclesPerSet    int
	Sets            int
	RestBetweenSets time.Duration
	AutoAdvance     bool
	SoundEnabled    bool
	VoiceEnabled    bool
}
