package domain

// IntentType classifies what the user wants the session to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentStart
	IntentPause
	IntentResume
	IntentSkip
	IntentNext
	IntentPrevious
	IntentReset
	IntentStop
	IntentShuffle
	IntentReplace
	IntentOptions
	IntentStatus
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentStart:
		return "start"
	case IntentPause:
		return "pause"
	case IntentResume:
		return "resume"
	case IntentSkip:
		return "skip"
	case IntentNext:
		return "next"
	case IntentPrevious:
		return "previous"
	case IntentReset:
		return "reset"
	case IntentStop:
		return "stop"
	case IntentShuffle:
		return "shuffle"
	case IntentReplace:
		return "replace"
	case IntentOptions:
		return "options"
	case IntentStatus:
		return "status"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user command.
type Intent struct {
	Type    IntentType
	Payload string // optional context, e.g. "3 incline-press" for replace
}

// intentNames maps snake_case names to IntentType values.
var intentNames = map[string]IntentType{
	"start":    IntentStart,
	"pause":    IntentPause,
	"resume":   IntentResume,
	"skip":     IntentSkip,
	"next":     IntentNext,
	"previous": IntentPrevious,
	"reset":    IntentReset,
	"stop":     IntentStop,
	"shuffle":  IntentShuffle,
	"replace":  IntentReplace,
	"options":  IntentOptions,
	"status":   IntentStatus,
	"help":     IntentHelp,
	"quit":     IntentQuit,
	"unknown":  IntentUnknown,
}

// IntentFromString converts a snake_case intent name to an IntentType.
// Returns IntentUnknown for unrecognized names.
func IntentFromString(name string) IntentType {
	if t, ok := intentNames[name]; ok {
		return t
	}
	return IntentUnknown
}
