package audio

import (
	"context"

	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/logger"
)

// Compile-time interface check.
var _ domain.CuePlayer = (*NoOp)(nil)

// NoOp is a cue player that does nothing. Used when sound is disabled or
// no audio device is available.
type NoOp struct {
	log *logger.Logger
}

// NewNoOp creates a no-op cue player.
func NewNoOp(log *logger.Logger) *NoOp {
	return &NoOp{log: log}
}

// Play does nothing.
func (n *NoOp) Play(ctx context.Context, cue domain.Cue) error {
	n.log.Debug("cue no-op: would play %s", cue)
	return nil
}
