// Package timer implements the interval countdown engine. An Engine runs
// a single exercise through the phase sequence preparing -> working ->
// resting -> ... -> completed, driven by a ticker goroutine. Remaining
// time is derived from wall-clock samples minus accumulated pause time,
// so tick cadence only affects UI smoothness, never countdown accuracy.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/events"
	"github.com/hammamikhairi/repflow/internal/logger"
)

const defaultTickInterval = 100 * time.Millisecond

// Engine is the countdown state machine for one exercise at a time.
// All transport methods are safe for concurrent use, and notifications
// fire after the state mutation is complete, outside the engine lock,
// so handlers may call back into the engine.
type Engine struct {
	log          *logger.Logger
	clock        Clock
	tickInterval time.Duration

	mu      sync.Mutex
	cfg     domain.TimerConfig
	state   domain.TimerState
	running bool
	baseCtx context.Context
	cancel  context.CancelFunc

	// Notification surface. Every event carries a Snapshot of the state
	// at the moment of emission.
	Started           *events.CallbackEvent[domain.Snapshot]
	Paused            *events.CallbackEvent[domain.Snapshot]
	Resumed           *events.CallbackEvent[domain.Snapshot]
	Stopped           *events.CallbackEvent[domain.Snapshot]
	Ticked            *events.CallbackEvent[domain.Snapshot]
	PhaseChanged      *events.CallbackEvent[domain.Snapshot]
	CycleCompleted    *events.CallbackEvent[domain.Snapshot]
	SetCompleted      *events.CallbackEvent[domain.Snapshot]
	ExerciseCompleted *events.CallbackEvent[domain.Snapshot]
}

// Option configures an Engine.
type Option func(*Engine)

// WithTickInterval overrides how often the engine re-evaluates the
// countdown and emits tick notifications.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.tickInterval = d
		}
	}
}

// WithClock overrides the engine's time source.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// New creates an idle Engine with the given config.
func New(cfg domain.TimerConfig, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		log:          log,
		clock:        realClock{},
		tickInterval: defaultTickInterval,
		cfg:          cfg,
		state:        domain.TimerState{Phase: domain.PhaseIdle},

		Started:           events.NewCallbackEvent[domain.Snapshot](false),
		Paused:            events.NewCallbackEvent[domain.Snapshot](false),
		Resumed:           events.NewCallbackEvent[domain.Snapshot](false),
		Stopped:           events.NewCallbackEvent[domain.Snapshot](false),
		Ticked:            events.NewCallbackEvent[domain.Snapshot](false),
		PhaseChanged:      events.NewCallbackEvent[domain.Snapshot](true),
		CycleCompleted:    events.NewCallbackEvent[domain.Snapshot](false),
		SetCompleted:      events.NewCallbackEvent[domain.Snapshot](false),
		ExerciseCompleted: events.NewCallbackEvent[domain.Snapshot](false),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Start begins the countdown for one exercise, entering the preparing
// phase. It reports false if a countdown is already in progress or the
// config is unusable. The ticker goroutine lives until the exercise
// completes, Stop is called, or ctx is cancelled.
func (e *Engine) Start(ctx context.Context, ex domain.Exercise, index, total int) bool {
	e.mu.Lock()

	if e.running {
		e.log.Warn("start refused, countdown already running: %v", domain.ErrTimerState)
		e.mu.Unlock()
		return false
	}
	if err := ValidateConfig(e.cfg); err != nil {
		e.log.Error("start refused: %v", err)
		e.mu.Unlock()
		return false
	}

	now := e.clock.Now()
	e.state = domain.TimerState{
		Phase:          domain.PhasePreparing,
		Exercise:       ex,
		ExerciseIndex:  index,
		TotalExercises: total,
		CurrentSet:     1,
		CurrentCycle:   1,
		Total:          e.cfg.Prepare,
		Remaining:      e.cfg.Prepare,
		StartedAt:      now,
	}
	e.running = true
	e.baseCtx = ctx

	childCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	go e.loop(childCtx)

	snap := e.snapshotLocked(now)
	e.mu.Unlock()

	e.log.Info("countdown started for %q (%d/%d)", ex.Name, index+1, total)
	e.Started.Notify(snap)
	e.PhaseChanged.Notify(snap)
	return true
}

// Pause freezes the countdown. It reports false if nothing is running
// or the countdown is already paused.
func (e *Engine) Pause() bool {
	e.mu.Lock()

	if !e.running || e.state.Paused {
		e.mu.Unlock()
		return false
	}

	now := e.clock.Now()
	e.state.Remaining = e.remainingLocked(now)
	e.state.Paused = true
	e.state.PauseStartedAt = now

	snap := e.snapshotLocked(now)
	e.mu.Unlock()

	e.log.Debug("countdown paused at %s remaining", snap.Remaining)
	e.Paused.Notify(snap)
	return true
}

// Resume continues a paused countdown. Time spent paused is added to
// the pause accumulator so the remaining time picks up where it froze.
func (e *Engine) Resume() bool {
	e.mu.Lock()

	if !e.running || !e.state.Paused {
		e.mu.Unlock()
		return false
	}

	now := e.clock.Now()
	e.state.PausedAccum += now.Sub(e.state.PauseStartedAt)
	e.state.Paused = false
	e.state.PauseStartedAt = time.Time{}
	e.state.Remaining = e.remainingLocked(now)

	snap := e.snapshotLocked(now)
	e.mu.Unlock()

	e.log.Debug("countdown resumed with %s remaining", snap.Remaining)
	e.Resumed.Notify(snap)
	return true
}

// SkipPhase ends the current phase immediately and performs whatever
// transition the countdown would have made at expiry.
func (e *Engine) SkipPhase() bool {
	e.mu.Lock()

	if !e.running {
		e.mu.Unlock()
		return false
	}

	pending := e.advanceLocked(e.clock.Now())
	e.mu.Unlock()

	e.log.Debug("phase skipped")
	flush(pending)
	return true
}

// ResetExercise discards all progress on the current exercise and
// starts it over from the preparing phase.
func (e *Engine) ResetExercise() bool {
	e.mu.Lock()

	if !e.running && e.state.Phase != domain.PhaseCompleted {
		e.mu.Unlock()
		return false
	}

	ex := e.state.Exercise
	index := e.state.ExerciseIndex
	total := e.state.TotalExercises
	ctx := e.baseCtx
	e.haltLocked()
	e.mu.Unlock()

	e.log.Info("exercise %q reset", ex.Name)
	return e.Start(ctx, ex, index, total)
}

// Stop halts the countdown and resets the state to idle. It reports
// false when there is nothing to stop.
func (e *Engine) Stop() bool {
	e.mu.Lock()

	if !e.running && e.state.Phase == domain.PhaseIdle {
		e.mu.Unlock()
		return false
	}

	e.haltLocked()
	e.state = domain.TimerState{Phase: domain.PhaseIdle}
	snap := e.snapshotLocked(e.clock.Now())
	e.mu.Unlock()

	e.log.Info("countdown stopped")
	e.Stopped.Notify(snap)
	return true
}

// State returns a snapshot of the current timer state with the
// remaining time recomputed from the clock.
func (e *Engine) State() domain.TimerState {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state
	if e.running {
		st.Remaining = e.remainingLocked(e.clock.Now())
	}
	return st
}

// Phase returns the current countdown phase.
func (e *Engine) Phase() domain.Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Phase
}

// Remaining returns the time left in the current phase.
func (e *Engine) Remaining() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return e.state.Remaining
	}
	return e.remainingLocked(e.clock.Now())
}

// Progress returns how far the current phase has advanced, from 0 to 1.
// A completed exercise reports 1 even though its countdown is cleared.
func (e *Engine) Progress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Phase == domain.PhaseCompleted {
		return 1
	}
	if e.state.Total <= 0 {
		return 0
	}
	remaining := e.state.Remaining
	if e.running {
		remaining = e.remainingLocked(e.clock.Now())
	}
	return 1 - float64(remaining)/float64(e.state.Total)
}

// Config returns the active timer config.
func (e *Engine) Config() domain.TimerConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// SetConfig replaces the timer config. The config cannot change while a
// countdown is running; callers push new configs between exercises.
func (e *Engine) SetConfig(cfg domain.TimerConfig) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return fmt.Errorf("config change while countdown running: %w", domain.ErrTimerState)
	}
	e.cfg = cfg
	return nil
}

// ValidateConfig checks that a timer config can drive a countdown.
func ValidateConfig(cfg domain.TimerConfig) error {
	if cfg.CyclesPerSet < 1 || cfg.Sets < 1 {
		return fmt.Errorf("cycles per set and sets must be at least 1: %w", domain.ErrInvalidInput)
	}
	if cfg.Prepare < 0 || cfg.Work < 0 || cfg.Rest < 0 || cfg.RestBetweenSets < 0 {
		return fmt.Errorf("phase durations must not be negative: %w", domain.ErrInvalidInput)
	}
	return nil
}

func (e *Engine) loop(ctx context.Context) {
	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

// tick re-evaluates the countdown. While paused nothing moves, so ticks
// are swallowed entirely. A phase whose remaining time has reached zero
// transitions exactly once per tick, which means a zero-duration phase
// is still entered and observable for one tick interval.
func (e *Engine) tick() {
	e.mu.Lock()

	if !e.running || e.state.Paused {
		e.mu.Unlock()
		return
	}

	now := e.clock.Now()
	remaining := e.remainingLocked(now)
	e.state.Remaining = remaining

	var pending []emission
	if remaining > 0 {
		pending = append(pending, emission{e.Ticked, e.snapshotLocked(now)})
	} else {
		pending = e.advanceLocked(now)
	}
	e.mu.Unlock()

	flush(pending)
}

// emission pairs an event with the snapshot to deliver, so transitions
// can record notifications under the lock and fire them after release.
type emission struct {
	event *events.CallbackEvent[domain.Snapshot]
	snap  domain.Snapshot
}

func flush(pending []emission) {
	for _, em := range pending {
		em.event.Notify(em.snap)
	}
}

// advanceLocked performs the transition the countdown makes when the
// current phase expires. Callers hold e.mu.
func (e *Engine) advanceLocked(now time.Time) []emission {
	switch e.state.Phase {
	case domain.PhasePreparing:
		e.enterPhaseLocked(domain.PhaseWorking, e.cfg.Work, now)
		return []emission{{e.PhaseChanged, e.snapshotLocked(now)}}

	case domain.PhaseWorking:
		switch {
		case e.state.CurrentCycle < e.cfg.CyclesPerSet:
			e.state.CurrentCycle++
			e.enterPhaseLocked(domain.PhaseResting, e.cfg.Rest, now)
			snap := e.snapshotLocked(now)
			return []emission{{e.PhaseChanged, snap}, {e.CycleCompleted, snap}}

		case e.state.CurrentSet < e.cfg.Sets:
			e.state.CurrentCycle = 1
			e.state.CurrentSet++
			e.enterPhaseLocked(domain.PhaseResting, e.cfg.RestBetweenSets, now)
			snap := e.snapshotLocked(now)
			return []emission{{e.PhaseChanged, snap}, {e.SetCompleted, snap}}

		default:
			e.haltLocked()
			e.state.Phase = domain.PhaseCompleted
			e.state.Remaining = 0
			e.state.Total = 0
			e.state.Paused = false
			snap := e.snapshotLocked(now)
			return []emission{{e.PhaseChanged, snap}, {e.ExerciseCompleted, snap}}
		}

	case domain.PhaseResting:
		e.enterPhaseLocked(domain.PhaseWorking, e.cfg.Work, now)
		return []emission{{e.PhaseChanged, e.snapshotLocked(now)}}

	default:
		return nil
	}
}

// enterPhaseLocked resets the countdown bookkeeping for a new phase.
// Pause state carries across the transition, so skipping a phase while
// paused lands in the next phase still frozen at its full duration.
func (e *Engine) enterPhaseLocked(phase domain.Phase, total time.Duration, now time.Time) {
	e.state.Phase = phase
	e.state.Total = total
	e.state.Remaining = total
	e.state.StartedAt = now
	e.state.PausedAccum = 0
	if e.state.Paused {
		e.state.PauseStartedAt = now
	}
}

// remainingLocked derives the time left in the current phase from the
// clock. Callers hold e.mu.
func (e *Engine) remainingLocked(now time.Time) time.Duration {
	paused := e.state.PausedAccum
	if e.state.Paused {
		paused += now.Sub(e.state.PauseStartedAt)
	}

	elapsed := now.Sub(e.state.StartedAt) - paused
	remaining := e.state.Total - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (e *Engine) haltLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.running = false
}

func (e *Engine) snapshotLocked(now time.Time) domain.Snapshot {
	return domain.Snapshot{
		TimerState: e.state,
		Timestamp:  now,
	}
}
