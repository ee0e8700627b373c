package voice

import (
	"context"

	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/logger"
)

// Compile-time interface check.
var _ domain.VoiceProvider = (*NoOp)(nil)

// NoOp is a voice provider that does nothing. Used when voice is disabled
// or Azure credentials are not configured.
type NoOp struct {
	log *logger.Logger
}

// NewNoOp creates a no-op voice provider.
func NewNoOp(log *logger.Logger) *NoOp {
	return &NoOp{log: log}
}

// Speak does nothing.
func (n *NoOp) Speak(ctx context.Context, text string) error {
	n.log.Debug("voice no-op: would say %q", text)
	return nil
}
