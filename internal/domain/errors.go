package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across layers.
var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrConstraintUnsatisfiable = errors.New("constraint unsatisfiable")
	ErrInsufficientExercises   = errors.New("not enough distinct exercises")
	ErrGenerationFailed        = errors.New("workout generation failed")
	ErrConstraintViolation     = errors.New("adjacency constraint violated")
	ErrIndexOutOfBounds        = errors.New("index out of bounds")
	ErrUnknownMuscleGroup      = errors.New("unknown muscle group")
	ErrTimerState              = errors.New("operation invalid for timer state")
	ErrNotFound                = errors.New("not found")
)

// ReplacementRule names the specific validation a replacement failed.
type ReplacementRule int

const (
	ReplacementGroupMismatch ReplacementRule = iota
	ReplacementDuplicate
	ReplacementNotInCatalog
	ReplacementAdjacency
)

// String returns a human-readable rule name.
func (r ReplacementRule) String() string {
	switch r {
	case ReplacementGroupMismatch:
		return "muscle group mismatch"
	case ReplacementDuplicate:
		return "duplicate in workout"
	case ReplacementNotInCatalog:
		return "not found in catalog"
	case ReplacementAdjacency:
		return "would violate adjacency"
	default:
		return "unknown"
	}
}

// ReplacementError reports which rule a replacement call broke.
type ReplacementError struct {
	Rule   ReplacementRule
	Detail string
}

// Error implements the error interface.
func (e *ReplacementError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("replacement rejected: %s", e.Rule)
	}
	return fmt.Sprintf("replacement rejected (%s): %s", e.Rule, e.Detail)
}
