package notify

import (
	"context"
	"log/slog"

	"github.com/davr-ledger/davr-ledger/internal/reminders"
)

// LogNotifier writes notifications to the log. Used when no Telegram token
// is configured, and in development.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Send(ctx context.Context, externalRef string, n reminders.Notification) error {
	l.logger.Info("reminder notification",
		slog.String("external_ref", externalRef),
		slog.String("kind", string(n.Kind)),
		slog.String("message", Render(n)))
	return nil
}
