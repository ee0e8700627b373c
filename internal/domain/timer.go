package domain

import "time"

// Phase identifies the timer sub-state within one exercise's session.
// Pausing freezes the countdown without changing the phase.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePreparing
	PhaseWorking
	PhaseResting
	PhaseCompleted
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreparing:
		return "preparing"
	case PhaseWorking:
		return "working"
	case PhaseResting:
		return "resting"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// TimerState is the timer engine's mutable state for one exercise run.
// The engine owns it exclusively; observers only ever receive copies.
type TimerState struct {
	Phase          Phase
	Exercise       Exercise
	ExerciseIndex  int
	TotalExercises int
	CurrentSet     int
	CurrentCycle   int
	Remaining      time.Duration
	Total          time.Duration
	Paused         bool
	StartedAt      time.Time
	PausedAccum    time.Duration
	PauseStartedAt time.Time
}

// Snapshot is the payload attached to every timer notification: the state
// as it was at the moment of emission, plus the emission timestamp.
type Snapshot struct {
	TimerState
	Timestamp time.Time
}

// RunState tracks the sequencing wrapper's position within a workout.
// The index only moves one step at a time and never wraps.
type RunState struct {
	Workout      Workout
	CurrentIndex int
}

// WorkoutResult is emitted once when the last exercise of a workout
// completes.
type WorkoutResult struct {
	RunID          string
	TotalExercises int
	Timestamp      time.Time
}

// SessionRecord is one finished workout run as persisted to history.
type SessionRecord struct {
	ID          string
	StartedAt   time.Time
	CompletedAt time.Time
	Exercises   int
	Completed   bool
	Workout     Workout
}
