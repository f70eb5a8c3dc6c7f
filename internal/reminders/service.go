package reminders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/davr-ledger/davr-ledger/internal/periods"
	"github.com/davr-ledger/davr-ledger/internal/shared"
	"github.com/davr-ledger/davr-ledger/internal/transactions"
)

// Notifier delivers a notification to an owner's external reference.
// Delivery is purely observational: a transport failure is logged by the
// caller and never touches ledger state.
type Notifier interface {
	Send(ctx context.Context, externalRef string, n Notification) error
}

// PeriodSource resolves the owner's open period.
type PeriodSource interface {
	GetOpen(ctx context.Context, ownerID string) (*periods.Period, error)
}

// TotalsSource aggregates a period's transactions.
type TotalsSource interface {
	Totals(ctx context.Context, ownerID string, periodID int64) (transactions.Totals, error)
}

// scanConcurrency bounds the per-tick notification fan-out.
const scanConcurrency = 8

// Service manages reminder settings and runs the daily notification tick.
type Service struct {
	repo     Repository
	periods  PeriodSource
	totals   TotalsSource
	notifier Notifier
	logger   *slog.Logger
}

// NewService builds Service.
func NewService(repo Repository, periodSource PeriodSource, totalsSource TotalsSource, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, periods: periodSource, totals: totalsSource, notifier: notifier, logger: logger}
}

// GetSetting returns the owner's reminder setting, storing the default on
// first read.
func (s *Service) GetSetting(ctx context.Context, ownerID string) (Setting, error) {
	stored, err := s.repo.Get(ctx, ownerID)
	if err != nil {
		return Setting{}, err
	}
	if stored != nil {
		return *stored, nil
	}
	def := DefaultSetting(ownerID)
	if err := s.repo.Upsert(ctx, def); err != nil {
		return Setting{}, err
	}
	return def, nil
}

// SetSetting stores the owner's reminder preference.
func (s *Service) SetSetting(ctx context.Context, ownerID string, hour, minute int, enabled bool) (Setting, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Setting{}, fmt.Errorf("%w: reminder time must be a valid hh:mm", shared.ErrValidation)
	}
	setting := Setting{OwnerID: ownerID, Hour: hour, Minute: minute, Enabled: enabled}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return Setting{}, err
	}
	return setting, nil
}

// Tick decides and delivers the notification for one owner. The decision is
// returned so callers and tests can observe it; a delivery failure is logged
// and does not fail the tick.
func (s *Service) Tick(ctx context.Context, ownerID, externalRef string, today time.Time) (NotificationKind, error) {
	setting, err := s.GetSetting(ctx, ownerID)
	if err != nil {
		return KindNone, err
	}
	open, err := s.periods.GetOpen(ctx, ownerID)
	if err != nil {
		return KindNone, err
	}
	n := Decide(setting, open, today)
	if n.Kind == KindNone {
		return KindNone, nil
	}
	if open != nil {
		if totals, err := s.totals.Totals(ctx, ownerID, open.ID); err == nil {
			n.SalesToDate = totals.Cash + totals.Card
		}
	}
	if s.notifier != nil {
		if err := s.notifier.Send(ctx, externalRef, n); err != nil {
			s.logger.Warn("reminder delivery failed",
				slog.String("owner", ownerID),
				slog.String("kind", string(n.Kind)),
				slog.Any("error", err))
		}
	}
	return n.Kind, nil
}

// Scan runs the tick for every owner whose reminder is due at the given
// wall-clock minute. Per-owner failures are logged; the scan itself only
// fails when the due list cannot be loaded.
func (s *Service) Scan(ctx context.Context, now time.Time) error {
	due, err := s.repo.ListDue(ctx, now.Hour(), now.Minute())
	if err != nil {
		return fmt.Errorf("reminders: list due: %w", err)
	}
	today := shared.Midnight(now)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)
	for _, d := range due {
		g.Go(func() error {
			if _, err := s.Tick(ctx, d.Setting.OwnerID, d.ExternalRef, today); err != nil {
				s.logger.Warn("reminder tick failed",
					slog.String("owner", d.Setting.OwnerID),
					slog.Any("error", err))
			}
			return nil
		})
	}
	return g.Wait()
}
