package domain

import "context"

// ExerciseCatalog provides the read-only exercise library. Implementations
// must hand out defensive copies so callers cannot corrupt catalog state.
type ExerciseCatalog interface {
	ExercisesByGroup(group MuscleGroup) ([]Exercise, error)
	MuscleGroups() []MuscleGroup
	ExerciseByID(id string) (Exercise, bool)
}

// HistoryStore persists finished workout runs. Implementations can be
// in-memory, SQLite, or any other backend.
type HistoryStore interface {
	Save(ctx context.Context, rec *SessionRecord) error
	Get(ctx context.Context, id string) (*SessionRecord, error)
	List(ctx context.Context, limit int) ([]*SessionRecord, error)
}

// IntentParser converts raw command input into structured intents.
// Implementations can be keyword-based, regex, or anything richer.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}

// Notifier delivers messages to the user. Implementations can write to
// stdout, a TUI message log, or use text-to-speech.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// VoiceProvider speaks announcements aloud. The no-op implementation is
// used when voice is disabled or unconfigured.
type VoiceProvider interface {
	Speak(ctx context.Context, text string) error
}

// CuePlayer plays short audio cues marking phase boundaries.
type CuePlayer interface {
	Play(ctx context.Context, cue Cue) error
}

// Cue identifies an audio cue pattern.
type Cue int

const (
	CueWorkStart Cue = iota
	CueRestStart
	CueCountdown
	CueComplete
)

// String returns a human-readable cue name.
func (c Cue) String() string {
	switch c {
	case CueWorkStart:
		return "work_start"
	case CueRestStart:
		return "rest_start"
	case CueCountdown:
		return "countdown"
	case CueComplete:
		return "complete"
	default:
		return "unknown"
	}
}
