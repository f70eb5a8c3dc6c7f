package periods

import (
	"context"
	"fmt"
	"time"

	"github.com/davr-ledger/davr-ledger/internal/shared"
)

// Service owns the period lifecycle: open, close and roll-forward. It is the
// sole authority over status and closing stock transitions.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Open starts a new 15-day period at referenceDate. It fails with a conflict
// when the owner already has an open period.
func (s *Service) Open(ctx context.Context, ownerID string, openingStockCost int64, referenceDate time.Time) (Period, error) {
	if openingStockCost < 0 {
		return Period{}, fmt.Errorf("%w: opening stock cost must be >= 0", shared.ErrValidation)
	}
	open, err := s.repo.GetOpen(ctx, ownerID)
	if err != nil {
		return Period{}, err
	}
	if open != nil {
		return Period{}, fmt.Errorf("%w: an open period already exists for owner %s", shared.ErrConflict, ownerID)
	}
	start := shared.Midnight(referenceDate)
	// The unique index catches the race where two opens pass the check above.
	return s.repo.Insert(ctx, Period{
		OwnerID:          ownerID,
		StartDate:        start,
		EndDate:          EndFor(start),
		OpeningStockCost: openingStockCost,
		Status:           StatusOpen,
	})
}

// GetOpen returns the owner's open period, or nil when none exists.
func (s *Service) GetOpen(ctx context.Context, ownerID string) (*Period, error) {
	return s.repo.GetOpen(ctx, ownerID)
}

// SetOpeningStock overwrites the opening stock valuation of a period.
// Callers should only invoke this right after creation; changing it later
// silently rewrites historical COGS.
func (s *Service) SetOpeningStock(ctx context.Context, periodID int64, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: opening stock cost must be >= 0", shared.ErrValidation)
	}
	return s.repo.SetOpeningStock(ctx, periodID, amount)
}

// Close records the closing stock valuation and marks the period CLOSED.
// Closing an already closed period is always rejected so that a closed
// period's financials never change.
func (s *Service) Close(ctx context.Context, periodID int64, closingStockCost int64) (Period, error) {
	if closingStockCost < 0 {
		return Period{}, fmt.Errorf("%w: closing stock cost must be >= 0", shared.ErrValidation)
	}
	var closed Period
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		p, err := tx.GetByIDForUpdate(ctx, periodID)
		if err != nil {
			return err
		}
		if p.Closed() {
			return fmt.Errorf("%w: period %d is already closed", shared.ErrConflict, periodID)
		}
		if err := tx.MarkClosed(ctx, p.ID, closingStockCost); err != nil {
			return err
		}
		closed = p
		closed.Status = StatusClosed
		closed.ClosingStockCost = &closingStockCost
		return nil
	})
	if err != nil {
		return Period{}, err
	}
	return closed, nil
}

// CloseAndRoll closes the owner's open period and opens the follow-up period
// in the same transaction, carrying the closing stock valuation forward as
// the new opening valuation. The owner is never left without an open period
// by a crash between the two steps.
func (s *Service) CloseAndRoll(ctx context.Context, ownerID string, closingStockCost int64) (closed Period, next Period, err error) {
	if closingStockCost < 0 {
		return Period{}, Period{}, fmt.Errorf("%w: closing stock cost must be >= 0", shared.ErrValidation)
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		open, err := tx.GetOpenForUpdate(ctx, ownerID)
		if err != nil {
			return err
		}
		if open == nil {
			return fmt.Errorf("%w: owner %s", shared.ErrNoOpenPeriod, ownerID)
		}
		if err := tx.MarkClosed(ctx, open.ID, closingStockCost); err != nil {
			return err
		}
		closed = *open
		closed.Status = StatusClosed
		closed.ClosingStockCost = &closingStockCost

		start := closed.NextStart()
		next, err = tx.Insert(ctx, Period{
			OwnerID:          ownerID,
			StartDate:        start,
			EndDate:          EndFor(start),
			OpeningStockCost: closingStockCost,
			Status:           StatusOpen,
		})
		return err
	})
	if err != nil {
		return Period{}, Period{}, err
	}
	return closed, next, nil
}
