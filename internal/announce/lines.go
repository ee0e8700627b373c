// Package announce — lines.go centralises every spoken and printed
// announcement string. Edit this file to change RepFlow's personality.
// Keep lines short and direct; the TTS engine handles inflection.
package announce

import (
	"fmt"
	"math/rand"
	"time"
)

// ── Run lifecycle ────────────────────────────────────────────────

func LineExercise(index, total int, name string) string {
	return fmt.Sprintf("Exercise %d of %d: %s.", index+1, total, name)
}

func LineGetReady(name string, d time.Duration) string {
	return fmt.Sprintf("Get ready for %s. Starting in %s.", name, FormatDurationSpeech(d))
}

func LineWork(d time.Duration) string {
	return fmt.Sprintf("Go! %s of work.", FormatDurationSpeech(d))
}

func LineRest(d time.Duration) string {
	return fmt.Sprintf("Rest. %s.", FormatDurationSpeech(d))
}

func LineSetDone(set, totalSets int) string {
	if set >= totalSets {
		return "Last set done."
	}
	return fmt.Sprintf("Set %d done. %d to go.", set, totalSets-set)
}

func LineExerciseDone(name string) string {
	return fmt.Sprintf("%s done.", name)
}

func LineWorkoutDone(exercises int) string {
	return fmt.Sprintf("Workout complete. %d exercises. Well done.", exercises)
}

func LinePaused() string {
	return "Paused. Say resume when ready."
}

func LineResumed() string {
	return "Resumed."
}

func LineSkipped() string {
	return "Skipped."
}

func LineStopped() string {
	return "Timer stopped."
}

// ── Countdown ────────────────────────────────────────────────────

var countdownWords = map[int]string{
	1: "One.",
	2: "Two.",
	3: "Three.",
	4: "Four.",
	5: "Five.",
}

// LineCountdown returns the spoken form of a countdown second. Falls
// back to digits for values outside the word table.
func LineCountdown(secs int) string {
	if w, ok := countdownWords[secs]; ok {
		return w
	}
	return fmt.Sprintf("%d.", secs)
}

// ── Halfway remarks ──────────────────────────────────────────────
// Spoken once per work phase, randomized to avoid repetition.

var halfwayLines = []string{
	"Halfway there.",
	"Halfway. Keep it up.",
	"Half done. Stay on it.",
	"Halfway point. Breathe.",
}

func LineHalfway() string {
	return halfwayLines[rand.Intn(len(halfwayLines))]
}

// FixedLines returns every non-parameterized line so the TTS cache can
// be warmed at startup.
func FixedLines() []string {
	out := []string{
		LinePaused(),
		LineResumed(),
		LineSkipped(),
		LineStopped(),
	}
	for _, w := range countdownWords {
		out = append(out, w)
	}
	out = append(out, halfwayLines...)
	return out
}

// FormatDurationSpeech returns a human-friendly spoken duration.
func FormatDurationSpeech(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	switch {
	case m == 0:
		return fmt.Sprintf("%d seconds", s)
	case s == 0 && m == 1:
		return "1 minute"
	case s == 0:
		return fmt.Sprintf("%d minutes", m)
	default:
		return fmt.Sprintf("%d minutes %d seconds", m, s)
	}
}
