package transactions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/davr-ledger/davr-ledger/internal/periods"
	"github.com/davr-ledger/davr-ledger/internal/shared"
)

// PeriodSource resolves the owner's open period.
type PeriodSource interface {
	GetOpen(ctx context.Context, ownerID string) (*periods.Period, error)
}

// CachePort invalidates cached report views after a write. Best effort: a
// cache failure never fails the write.
type CachePort interface {
	Bump(ctx context.Context, ownerID string) error
}

// Service validates and records sales, purchases and expenses against the
// owner's open period. It is the sole writer of transaction rows.
type Service struct {
	repo    Repository
	periods PeriodSource
	cache   CachePort
}

// NewService builds Service. cache may be nil.
func NewService(repo Repository, periodSource PeriodSource, cache CachePort) *Service {
	return &Service{repo: repo, periods: periodSource, cache: cache}
}

func (s *Service) requireOpen(ctx context.Context, ownerID string) (*periods.Period, error) {
	open, err := s.periods.GetOpen(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, fmt.Errorf("%w: owner %s", shared.ErrNoOpenPeriod, ownerID)
	}
	return open, nil
}

func (s *Service) bump(ctx context.Context, ownerID string) {
	if s.cache != nil {
		_ = s.cache.Bump(ctx, ownerID)
	}
}

// RecordSale upserts the daily sale row for the given date. Re-entering a
// date replaces the prior amounts, which supports same-day correction.
func (s *Service) RecordSale(ctx context.Context, ownerID string, date time.Time, cash, card int64) (DailySale, error) {
	if cash < 0 || card < 0 {
		return DailySale{}, fmt.Errorf("%w: sale amounts must be >= 0", shared.ErrValidation)
	}
	open, err := s.requireOpen(ctx, ownerID)
	if err != nil {
		return DailySale{}, err
	}
	sale, err := s.repo.UpsertDailySale(ctx, DailySale{
		OwnerID:    ownerID,
		PeriodID:   open.ID,
		SaleDate:   shared.Midnight(date),
		CashAmount: cash,
		CardAmount: card,
	})
	if err != nil {
		return DailySale{}, err
	}
	s.bump(ctx, ownerID)
	return sale, nil
}

// RecordPurchase appends an inventory acquisition. Multiple purchases per
// day are independent events and are all retained.
func (s *Service) RecordPurchase(ctx context.Context, ownerID string, date time.Time, totalCost int64, note string) (Purchase, error) {
	if totalCost < 0 {
		return Purchase{}, fmt.Errorf("%w: purchase cost must be >= 0", shared.ErrValidation)
	}
	open, err := s.requireOpen(ctx, ownerID)
	if err != nil {
		return Purchase{}, err
	}
	purchase, err := s.repo.AppendPurchase(ctx, Purchase{
		Code:         uuid.NewString(),
		OwnerID:      ownerID,
		PeriodID:     open.ID,
		PurchaseDate: shared.Midnight(date),
		TotalCost:    totalCost,
		Note:         note,
	})
	if err != nil {
		return Purchase{}, err
	}
	s.bump(ctx, ownerID)
	return purchase, nil
}

// RecordExpense appends an operating cost event.
func (s *Service) RecordExpense(ctx context.Context, ownerID string, date time.Time, amount int64, note string) (Expense, error) {
	if amount < 0 {
		return Expense{}, fmt.Errorf("%w: expense amount must be >= 0", shared.ErrValidation)
	}
	open, err := s.requireOpen(ctx, ownerID)
	if err != nil {
		return Expense{}, err
	}
	expense, err := s.repo.AppendExpense(ctx, Expense{
		Code:        uuid.NewString(),
		OwnerID:     ownerID,
		PeriodID:    open.ID,
		ExpenseDate: shared.Midnight(date),
		Amount:      amount,
		Note:        note,
	})
	if err != nil {
		return Expense{}, err
	}
	s.bump(ctx, ownerID)
	return expense, nil
}

// Totals aggregates all committed rows of the period.
func (s *Service) Totals(ctx context.Context, ownerID string, periodID int64) (Totals, error) {
	return s.repo.SumTotals(ctx, ownerID, periodID)
}
