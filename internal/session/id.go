package session

import "github.com/google/uuid"

// newRunID creates the identifier for a workout run. History records are
// keyed by it.
func newRunID() string {
	return uuid.NewString()
}
