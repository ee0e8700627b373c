// Package session sequences a workout through the timer engine: one
// exercise at a time, forward only, with optional auto-advance when an
// exercise completes.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/events"
	"github.com/hammamikhairi/repflow/internal/logger"
	"github.com/hammamikhairi/repflow/internal/timer"
)

// Option configures the runner.
type Option func(*Runner)

// WithHistory sets the store that receives a record when a workout run
// finishes. Without it, runs are not persisted.
func WithHistory(store domain.HistoryStore) Option {
	return func(r *Runner) {
		r.history = store
	}
}

// Runner owns the run state for one workout and drives the timer engine
// exercise by exercise. It depends only on the engine and interfaces and
// is fully testable with mocks.
type Runner struct {
	engine  *timer.Engine
	history domain.HistoryStore
	log     *logger.Logger

	mu        sync.Mutex
	state     domain.RunState
	runID     string
	startedAt time.Time
	baseCtx   context.Context
	finished  bool

	// ExerciseChanged fires whenever the runner lands on a new current
	// exercise; WorkoutCompleted fires once when the last exercise of a
	// run finishes.
	ExerciseChanged  *events.CallbackEvent[ExerciseChange]
	WorkoutCompleted *events.CallbackEvent[domain.WorkoutResult]
}

// ExerciseChange is the payload for ExerciseChanged notifications.
type ExerciseChange struct {
	Exercise  domain.Exercise
	Index     int
	Total     int
	Timestamp time.Time
}

// New creates a runner around the given engine.
func New(engine *timer.Engine, log *logger.Logger, opts ...Option) *Runner {
	r := &Runner{
		engine: engine,
		log:    log,

		ExerciseChanged:  events.NewCallbackEvent[ExerciseChange](true),
		WorkoutCompleted: events.NewCallbackEvent[domain.WorkoutResult](false),
	}
	for _, opt := range opts {
		opt(r)
	}

	engine.ExerciseCompleted.Listen(r.onExerciseCompleted)
	return r
}

// Engine returns the timer engine the runner drives.
func (r *Runner) Engine() *timer.Engine { return r.engine }

// SetWorkout installs the ordered exercise list and resets the current
// index to the first exercise. Any running timer is stopped.
func (r *Runner) SetWorkout(list domain.Workout) error {
	if len(list) == 0 {
		return fmt.Errorf("workout is empty: %w", domain.ErrInvalidInput)
	}
	for i, ex := range list {
		if ex.ID == "" || ex.MuscleGroup == "" {
			return fmt.Errorf("exercise %d is missing id or muscle group: %w", i, domain.ErrInvalidInput)
		}
	}

	r.engine.Stop()

	r.mu.Lock()
	r.state = domain.RunState{Workout: list.Clone(), CurrentIndex: 0}
	r.runID = newRunID()
	r.startedAt = time.Time{}
	r.finished = false
	r.mu.Unlock()

	r.log.Info("workout installed: %d exercises (run %s)", len(list), r.runID)
	return nil
}

// Start begins the run at the current exercise. It reports false when no
// workout is installed or the engine refuses to start.
func (r *Runner) Start(ctx context.Context) bool {
	r.mu.Lock()
	if len(r.state.Workout) == 0 {
		r.mu.Unlock()
		r.log.Warn("start refused: no workout installed")
		return false
	}
	if r.startedAt.IsZero() {
		r.startedAt = time.Now()
	}
	r.baseCtx = ctx
	ex := r.state.Workout[r.state.CurrentIndex]
	index := r.state.CurrentIndex
	total := len(r.state.Workout)
	r.mu.Unlock()

	return r.startExercise(ctx, ex, index, total)
}

// ShowExercise jumps to the exercise at index, stopping whatever is
// currently timed. It reports false for an out-of-range index.
func (r *Runner) ShowExercise(index int) bool {
	r.mu.Lock()
	if index < 0 || index >= len(r.state.Workout) {
		r.mu.Unlock()
		return false
	}
	r.state.CurrentIndex = index
	ex := r.state.Workout[index]
	total := len(r.state.Workout)
	ctx := r.runCtxLocked()
	r.mu.Unlock()

	r.engine.Stop()
	return r.startExercise(ctx, ex, index, total)
}

// Next steps to the following exercise. Disabled at the last exercise:
// the run never wraps around.
func (r *Runner) Next() bool {
	r.mu.Lock()
	next := r.state.CurrentIndex + 1
	r.mu.Unlock()
	return r.ShowExercise(next)
}

// Previous steps back one exercise. Disabled at the first exercise.
func (r *Runner) Previous() bool {
	r.mu.Lock()
	prev := r.state.CurrentIndex - 1
	r.mu.Unlock()
	return r.ShowExercise(prev)
}

// Stop halts the engine and abandons the current run. The installed
// workout stays in place so the run can be restarted.
func (r *Runner) Stop() {
	r.engine.Stop()
}

// Current returns the exercise the runner is positioned on.
func (r *Runner) Current() (domain.Exercise, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.state.Workout) == 0 {
		return domain.Exercise{}, 0, false
	}
	return r.state.Workout[r.state.CurrentIndex], r.state.CurrentIndex, true
}

// State returns a copy of the run state.
func (r *Runner) State() domain.RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.RunState{
		Workout:      r.state.Workout.Clone(),
		CurrentIndex: r.state.CurrentIndex,
	}
}

// RunID returns the identifier of the installed run.
func (r *Runner) RunID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runID
}

// ReplaceWorkout swaps the exercise list mid-run, keeping the current
// position when it is still in range. Used by the live replace command;
// callers validate the new list through the generator first.
func (r *Runner) ReplaceWorkout(list domain.Workout) error {
	if len(list) == 0 {
		return fmt.Errorf("workout is empty: %w", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.CurrentIndex >= len(list) {
		r.state.CurrentIndex = len(list) - 1
	}
	r.state.Workout = list.Clone()
	r.log.Debug("workout replaced mid-run: %d exercises", len(list))
	return nil
}

// startExercise drives the engine and announces the position change.
func (r *Runner) startExercise(ctx context.Context, ex domain.Exercise, index, total int) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	if !r.engine.Start(ctx, ex, index, total) {
		return false
	}
	r.ExerciseChanged.Notify(ExerciseChange{
		Exercise:  ex,
		Index:     index,
		Total:     total,
		Timestamp: time.Now(),
	})
	return true
}

// onExerciseCompleted advances the run when the engine finishes an
// exercise. At the last exercise it emits WorkoutCompleted instead and
// persists the run.
func (r *Runner) onExerciseCompleted(snap domain.Snapshot) {
	r.mu.Lock()
	total := len(r.state.Workout)
	if total == 0 || r.finished {
		r.mu.Unlock()
		return
	}

	if r.state.CurrentIndex < total-1 {
		if !r.engine.Config().AutoAdvance {
			r.mu.Unlock()
			r.log.Debug("exercise %d completed, auto-advance off", snap.ExerciseIndex)
			return
		}
		r.state.CurrentIndex++
		ex := r.state.Workout[r.state.CurrentIndex]
		index := r.state.CurrentIndex
		ctx := r.runCtxLocked()
		r.mu.Unlock()

		r.log.Info("auto-advancing to exercise %d/%d: %s", index+1, total, ex.Name)
		r.startExercise(ctx, ex, index, total)
		return
	}

	// Last exercise: the run is over.
	r.finished = true
	result := domain.WorkoutResult{
		RunID:          r.runID,
		TotalExercises: total,
		Timestamp:      time.Now(),
	}
	record := &domain.SessionRecord{
		ID:          r.runID,
		StartedAt:   r.startedAt,
		CompletedAt: result.Timestamp,
		Exercises:   total,
		Completed:   true,
		Workout:     r.state.Workout.Clone(),
	}
	ctx := r.runCtxLocked()
	r.mu.Unlock()

	r.log.Info("workout completed: %d exercises (run %s)", total, result.RunID)
	if r.history != nil {
		if err := r.history.Save(ctx, record); err != nil {
			r.log.Error("saving run %s to history: %v", record.ID, err)
		}
	}
	r.WorkoutCompleted.Notify(result)
}

// runCtxLocked returns the context the run was started under. Callers
// hold r.mu.
func (r *Runner) runCtxLocked() context.Context {
	if r.baseCtx != nil {
		return r.baseCtx
	}
	return context.Background()
}
