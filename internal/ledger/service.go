// Package ledger is the transport-facing facade over the period engine,
// transaction recorder, report calculator and reminder settings.
package ledger

import (
	"context"
	"time"

	"github.com/davr-ledger/davr-ledger/internal/periods"
	"github.com/davr-ledger/davr-ledger/internal/reminders"
	"github.com/davr-ledger/davr-ledger/internal/reports"
	"github.com/davr-ledger/davr-ledger/internal/shared"
	"github.com/davr-ledger/davr-ledger/internal/transactions"
)

// Service exposes the ledger operations to chat and HTTP callers.
type Service struct {
	periods   *periods.Service
	recorder  *transactions.Service
	reports   *reports.Service
	reminders *reminders.Service
	cache     *reports.Cache
	clock     shared.Clock
}

// NewService builds Service. cache may be nil.
func NewService(
	periodService *periods.Service,
	recorder *transactions.Service,
	reportService *reports.Service,
	reminderService *reminders.Service,
	cache *reports.Cache,
	clock shared.Clock,
) *Service {
	return &Service{
		periods:   periodService,
		recorder:  recorder,
		reports:   reportService,
		reminders: reminderService,
		cache:     cache,
		clock:     clock,
	}
}

// StartLedger opens the owner's first period of a cycle, dated today.
func (s *Service) StartLedger(ctx context.Context, ownerID string, openingStockCost int64) (periods.Period, error) {
	return s.periods.Open(ctx, ownerID, openingStockCost, s.clock.Today())
}

// CurrentPeriod returns the owner's open period, or nil when none exists,
// which callers surface as a prompt to start one.
func (s *Service) CurrentPeriod(ctx context.Context, ownerID string) (*periods.Period, error) {
	return s.periods.GetOpen(ctx, ownerID)
}

func (s *Service) date(date *time.Time) time.Time {
	if date != nil {
		return *date
	}
	return s.clock.Today()
}

// RecordSale records (or corrects) the day's cash and card takings.
func (s *Service) RecordSale(ctx context.Context, ownerID string, date *time.Time, cash, card int64) (transactions.DailySale, error) {
	return s.recorder.RecordSale(ctx, ownerID, s.date(date), cash, card)
}

// RecordPurchase records an inventory purchase at cost.
func (s *Service) RecordPurchase(ctx context.Context, ownerID string, date *time.Time, totalCost int64, note string) (transactions.Purchase, error) {
	return s.recorder.RecordPurchase(ctx, ownerID, s.date(date), totalCost, note)
}

// RecordExpense records an operating expense.
func (s *Service) RecordExpense(ctx context.Context, ownerID string, date *time.Time, amount int64, note string) (transactions.Expense, error) {
	return s.recorder.RecordExpense(ctx, ownerID, s.date(date), amount, note)
}

// CloseAndRoll closes the open period with the given closing stock valuation
// and opens the follow-up period. It returns the closed period's final
// report and the new period.
func (s *Service) CloseAndRoll(ctx context.Context, ownerID string, closingStockCost int64) (reports.Report, periods.Period, error) {
	closed, next, err := s.periods.CloseAndRoll(ctx, ownerID, closingStockCost)
	if err != nil {
		return reports.Report{}, periods.Period{}, err
	}
	if s.cache != nil {
		_ = s.cache.Bump(ctx, ownerID)
	}
	totals, err := s.recorder.Totals(ctx, ownerID, closed.ID)
	if err != nil {
		return reports.Report{}, periods.Period{}, err
	}
	return reports.Summarize(closed, totals), next, nil
}

// Report summarises the owner's open period.
func (s *Service) Report(ctx context.Context, ownerID string) (reports.Report, error) {
	return s.reports.Current(ctx, ownerID)
}

// PreviewClose summarises the open period as if it were closed with the
// hypothetical closing stock valuation.
func (s *Service) PreviewClose(ctx context.Context, ownerID string, closingStockCost int64) (reports.Report, error) {
	return s.reports.PreviewClose(ctx, ownerID, closingStockCost)
}

// GetReminderSetting returns the owner's reminder setting, creating the
// default on first read.
func (s *Service) GetReminderSetting(ctx context.Context, ownerID string) (reminders.Setting, error) {
	return s.reminders.GetSetting(ctx, ownerID)
}

// SetReminderSetting stores the owner's reminder preference.
func (s *Service) SetReminderSetting(ctx context.Context, ownerID string, hour, minute int, enabled bool) (reminders.Setting, error) {
	return s.reminders.SetSetting(ctx, ownerID, hour, minute, enabled)
}
