// Package notify provides alert transports behind the gate's one-method
// Notifier contract. Retries and rate limiting stay out of scope here; the
// gate's cooldown is the only pacing mechanism.
package notify

import (
	"context"

	"github.com/okian/vigil/pkg/logger"
)

// LogNotifier writes alerts to the structured log. It is the default
// transport and the safe fallback when no external channel is configured.
type LogNotifier struct {
	logger logger.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: logger.Get().Named("notify")}
}

// Notify logs the alert message. It never fails.
func (n *LogNotifier) Notify(ctx context.Context, message string) error {
	n.logger.Warn(ctx, "ALERT", logger.String("message", message))
	return nil
}
