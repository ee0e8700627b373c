// Package command provides intent parsing and user notification
// implementations for the interactive prompt.
package command

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches prompt input to intents using keywords and simple
// patterns.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex   *regexp.Regexp
	intent  domain.IntentType
	payload bool // carry the rest of the input as payload
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regex: regexp.MustCompile(`(?i)^(start|go|begin|let'?s go)$`), intent: domain.IntentStart},
		{regex: regexp.MustCompile(`(?i)^(pause|hold|wait|p)$`), intent: domain.IntentPause},
		{regex: regexp.MustCompile(`(?i)^(resume|continue|unpause)$`), intent: domain.IntentResume},
		{regex: regexp.MustCompile(`(?i)^(skip|s)$`), intent: domain.IntentSkip},
		{regex: regexp.MustCompile(`(?i)^(next|n|advance)$`), intent: domain.IntentNext},
		{regex: regexp.MustCompile(`(?i)^(previous|prev|back|b)$`), intent: domain.IntentPrevious},
		{regex: regexp.MustCompile(`(?i)^(reset|restart|redo)$`), intent: domain.IntentReset},
		{regex: regexp.MustCompile(`(?i)^(stop|halt)$`), intent: domain.IntentStop},
		{regex: regexp.MustCompile(`(?i)^(shuffle|mix|reorder)$`), intent: domain.IntentShuffle},
		{regex: regexp.MustCompile(`(?i)^(replace|swap|sub(stitute)?)\b`), intent: domain.IntentReplace, payload: true},
		{regex: regexp.MustCompile(`(?i)^(options|alternatives|alts)\b`), intent: domain.IntentOptions, payload: true},
		{regex: regexp.MustCompile(`(?i)^(status|where|progress|info)$`), intent: domain.IntentStatus},
		{regex: regexp.MustCompile(`(?i)^(help|h|\?)$`), intent: domain.IntentHelp},
		{regex: regexp.MustCompile(`(?i)^(quit|exit|q)$`), intent: domain.IntentQuit},
	}
	return p
}

// Parse converts prompt input into an intent. Payload-carrying intents
// keep everything after the keyword, e.g. "replace 3 incline-press"
// yields IntentReplace with payload "3 incline-press".
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	// A bare exercise number jumps to that exercise.
	if len(trimmed) <= 2 && isDigits(trimmed) {
		return &domain.Intent{Type: domain.IntentNext, Payload: trimmed}, nil
	}

	for _, rule := range p.patterns {
		if !rule.regex.MatchString(trimmed) {
			continue
		}
		p.log.Debug("matched intent: %s", rule.intent)
		if rule.payload {
			return &domain.Intent{Type: rule.intent, Payload: payloadAfterKeyword(trimmed)}, nil
		}
		return &domain.Intent{Type: rule.intent}, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

// payloadAfterKeyword strips the leading keyword from the input.
func payloadAfterKeyword(s string) string {
	parts := strings.SplitN(s, " ", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
