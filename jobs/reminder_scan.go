package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/davr-ledger/davr-ledger/internal/reminders"
)

// NewReminderScanHandler processes TaskTypeReminderScan tasks. Each tick
// notifies every owner whose reminder is due at the current business-time
// minute. Delivery failures are logged inside the scan and never retried;
// the next tick covers the next minute.
func NewReminderScanHandler(svc *reminders.Service, loc *time.Location, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		now := time.Now().In(loc)
		if err := svc.Scan(ctx, now); err != nil {
			logger.Error("reminder scan", slog.Any("error", err))
			return err
		}
		return nil
	}
}
