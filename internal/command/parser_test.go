package command

import (
	"context"
	"testing"

	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	tests := []struct {
		input       string
		wantType    domain.IntentType
		wantPayload string
	}{
		// Start
		{"start", domain.IntentStart, ""},
		{"go", domain.IntentStart, ""},
		{"let's go", domain.IntentStart, ""},

		// Pause/Resume
		{"pause", domain.IntentPause, ""},
		{"hold", domain.IntentPause, ""},
		{"p", domain.IntentPause, ""},
		{"resume", domain.IntentResume, ""},
		{"continue", domain.IntentResume, ""},

		// Skip
		{"skip", domain.IntentSkip, ""},
		{"s", domain.IntentSkip, ""},

		// Navigation
		{"next", domain.IntentNext, ""},
		{"n", domain.IntentNext, ""},
		{"previous", domain.IntentPrevious, ""},
		{"back", domain.IntentPrevious, ""},
		{"b", domain.IntentPrevious, ""},

		// Reset/Stop
		{"reset", domain.IntentReset, ""},
		{"restart", domain.IntentReset, ""},
		{"stop", domain.IntentStop, ""},

		// Shuffle
		{"shuffle", domain.IntentShuffle, ""},
		{"mix", domain.IntentShuffle, ""},

		// Replace with payload
		{"replace 3 incline-press", domain.IntentReplace, "3 incline-press"},
		{"swap 1 squat", domain.IntentReplace, "1 squat"},
		{"replace", domain.IntentReplace, ""},

		// Options with payload
		{"options 2", domain.IntentOptions, "2"},
		{"alts 4", domain.IntentOptions, "4"},

		// Status
		{"status", domain.IntentStatus, ""},
		{"progress", domain.IntentStatus, ""},

		// Help
		{"help", domain.IntentHelp, ""},
		{"?", domain.IntentHelp, ""},

		// Quit
		{"quit", domain.IntentQuit, ""},
		{"exit", domain.IntentQuit, ""},
		{"q", domain.IntentQuit, ""},

		// Jump by number
		{"1", domain.IntentNext, "1"},
		{"12", domain.IntentNext, "12"},

		// Unknown
		{"burpee my cat", domain.IntentUnknown, "burpee my cat"},
		{"", domain.IntentUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, err := parser.Parse(ctx, tt.input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if intent.Type != tt.wantType {
				t.Errorf("Parse(%q) type = %s, want %s", tt.input, intent.Type, tt.wantType)
			}
			if intent.Payload != tt.wantPayload {
				t.Errorf("Parse(%q) payload = %q, want %q", tt.input, intent.Payload, tt.wantPayload)
			}
		})
	}
}

func TestKeywordParserCaseInsensitive(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	for _, input := range []string{"PAUSE", "Pause", "  pause  "} {
		intent, err := parser.Parse(ctx, input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		if intent.Type != domain.IntentPause {
			t.Errorf("Parse(%q) type = %s, want pause", input, intent.Type)
		}
	}
}
