package announce

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/logger"
	"github.com/hammamikhairi/repflow/internal/session"
)

// urgentSpeaker is implemented by voice providers that support queue
// priorities. Countdown words go through it so they jump ahead of any
// pending flavor lines.
type urgentSpeaker interface {
	SayUrgent(text string)
}

// Option configures the announcer.
type Option func(*Announcer)

// WithCountdownFrom sets the second at which the end-of-phase countdown
// begins. Default 3.
func WithCountdownFrom(secs int) Option {
	return func(a *Announcer) {
		a.countdownFrom = secs
	}
}

// Announcer translates timer and run events into user-facing output:
// printed messages, spoken lines, and audio cues. It subscribes to the
// runner's events and never drives the timer itself.
type Announcer struct {
	notifier domain.Notifier
	voice    domain.VoiceProvider
	cues     domain.CuePlayer
	log      *logger.Logger

	countdownFrom int

	mu            sync.Mutex
	lastCountdown map[string]int  // phase instance -> last announced second
	halfwaySaid   map[string]bool // work phase instance -> remark made
	stops         []func()

	cueCh chan domain.Cue
}

// New creates an announcer. All three output channels are required; pass
// the no-op implementations to silence one.
func New(notifier domain.Notifier, voice domain.VoiceProvider, cues domain.CuePlayer, log *logger.Logger, opts ...Option) *Announcer {
	a := &Announcer{
		notifier:      notifier,
		voice:         voice,
		cues:          cues,
		log:           log,
		countdownFrom: 3,
		lastCountdown: make(map[string]int),
		halfwaySaid:   make(map[string]bool),
		cueCh:         make(chan domain.Cue, 8),
	}
	for _, opt := range opts {
		opt(a)
	}
	go a.cueLoop()
	return a
}

// Attach subscribes the announcer to the runner's and its engine's events.
func (a *Announcer) Attach(r *session.Runner) {
	eng := r.Engine()

	a.stops = append(a.stops,
		eng.Started.Listen(a.onStarted),
		r.ExerciseChanged.Listen(a.onExerciseChanged),
		r.WorkoutCompleted.Listen(a.onWorkoutCompleted),
		eng.PhaseChanged.Listen(a.onPhaseChanged),
		eng.Ticked.Listen(a.onTicked),
		eng.Paused.Listen(a.onPaused),
		eng.Resumed.Listen(a.onResumed),
		eng.SetCompleted.Listen(func(snap domain.Snapshot) {
			a.onSetCompleted(snap, eng.Config().Sets)
		}),
		eng.ExerciseCompleted.Listen(a.onExerciseCompleted),
	)
}

// Detach unsubscribes from everything Attach wired up.
func (a *Announcer) Detach() {
	for _, stop := range a.stops {
		stop()
	}
	a.stops = nil
}

// onStarted fires on every exercise start, including resets and
// auto-advances. The trackers only describe the session that just
// ended, so dropping them lets a restarted exercise get its halfway
// remark again and keeps the maps from growing over a long workout.
func (a *Announcer) onStarted(snap domain.Snapshot) {
	a.resetTracking()
}

func (a *Announcer) onExerciseChanged(ch session.ExerciseChange) {
	a.resetTracking()
	a.say(LineExercise(ch.Index, ch.Total, ch.Exercise.Name))
}

func (a *Announcer) resetTracking() {
	a.mu.Lock()
	a.lastCountdown = make(map[string]int)
	a.halfwaySaid = make(map[string]bool)
	a.mu.Unlock()
}

func (a *Announcer) onPhaseChanged(snap domain.Snapshot) {
	// A fresh phase instance: reset its countdown tracker.
	key := phaseKey(snap)
	a.mu.Lock()
	delete(a.lastCountdown, key)
	a.mu.Unlock()

	switch snap.Phase {
	case domain.PhasePreparing:
		a.say(LineGetReady(snap.Exercise.Name, snap.Total))
	case domain.PhaseWorking:
		a.playCue(domain.CueWorkStart)
		a.say(LineWork(snap.Total))
	case domain.PhaseResting:
		a.playCue(domain.CueRestStart)
		a.say(LineRest(snap.Total))
	}
}

func (a *Announcer) onTicked(snap domain.Snapshot) {
	if snap.Paused {
		return
	}

	switch snap.Phase {
	case domain.PhasePreparing, domain.PhaseWorking, domain.PhaseResting:
	default:
		return
	}

	secs := ceilSeconds(snap.Remaining)
	if secs >= 1 && secs <= a.countdownFrom {
		a.countdown(phaseKey(snap), secs)
	}

	// A halfway nudge, work phase only, once per phase instance.
	if snap.Phase == domain.PhaseWorking && snap.Total >= 20*time.Second && snap.Remaining <= snap.Total/2 {
		key := phaseKey(snap)
		a.mu.Lock()
		said := a.halfwaySaid[key]
		a.halfwaySaid[key] = true
		a.mu.Unlock()
		if !said {
			a.speak(LineHalfway())
		}
	}
}

// countdown announces each countdown second exactly once per phase
// instance, even though ticks arrive far more often.
func (a *Announcer) countdown(key string, secs int) {
	a.mu.Lock()
	last, seen := a.lastCountdown[key]
	if seen && last <= secs {
		a.mu.Unlock()
		return
	}
	a.lastCountdown[key] = secs
	a.mu.Unlock()

	a.playCue(domain.CueCountdown)
	if us, ok := a.voice.(urgentSpeaker); ok {
		us.SayUrgent(LineCountdown(secs))
		return
	}
	a.speak(LineCountdown(secs))
}

func (a *Announcer) onPaused(snap domain.Snapshot) {
	a.say(LinePaused())
}

func (a *Announcer) onResumed(snap domain.Snapshot) {
	a.say(LineResumed())
}

func (a *Announcer) onSetCompleted(snap domain.Snapshot, totalSets int) {
	a.say(LineSetDone(snap.CurrentSet, totalSets))
}

func (a *Announcer) onExerciseCompleted(snap domain.Snapshot) {
	a.say(LineExerciseDone(snap.Exercise.Name))
}

func (a *Announcer) onWorkoutCompleted(res domain.WorkoutResult) {
	a.playCue(domain.CueComplete)
	if err := a.notifier.NotifyUrgent(context.Background(), LineWorkoutDone(res.TotalExercises)); err != nil {
		a.log.Error("announce: notify: %v", err)
	}
	a.speak(LineWorkoutDone(res.TotalExercises))
}

// say prints and speaks the same line.
func (a *Announcer) say(line string) {
	if err := a.notifier.Notify(context.Background(), line); err != nil {
		a.log.Error("announce: notify: %v", err)
	}
	a.speak(line)
}

// speak queues a line for voice only.
func (a *Announcer) speak(line string) {
	if err := a.voice.Speak(context.Background(), line); err != nil {
		a.log.Error("announce: speak: %v", err)
	}
}

// playCue hands a cue to the playback worker. Cue playback blocks for
// the beep's duration, which would stall the timer's tick loop, so it
// happens off the notification path — but on a single worker, since
// one goroutine per cue would let a rest beep overtake the work beep
// queued just before it.
func (a *Announcer) playCue(cue domain.Cue) {
	select {
	case a.cueCh <- cue:
	default:
		a.log.Warn("announce: cue queue full, dropping %s", cue)
	}
}

func (a *Announcer) cueLoop() {
	for cue := range a.cueCh {
		if err := a.cues.Play(context.Background(), cue); err != nil {
			a.log.Error("announce: cue %s: %v", cue, err)
		}
	}
}

// phaseKey identifies one phase instance within a run.
func phaseKey(snap domain.Snapshot) string {
	return fmt.Sprintf("%d:%d:%d:%s", snap.ExerciseIndex, snap.CurrentSet, snap.CurrentCycle, snap.Phase)
}

// ceilSeconds rounds a remaining duration up to whole seconds, so a
// remaining of 2.3s counts as the "3" countdown second.
func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
