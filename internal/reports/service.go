package reports

import (
	"context"
	"fmt"

	"github.com/davr-ledger/davr-ledger/internal/periods"
	"github.com/davr-ledger/davr-ledger/internal/shared"
	"github.com/davr-ledger/davr-ledger/internal/transactions"
)

// PeriodSource resolves the owner's open period.
type PeriodSource interface {
	GetOpen(ctx context.Context, ownerID string) (*periods.Period, error)
}

// TotalsSource aggregates a period's transactions.
type TotalsSource interface {
	Totals(ctx context.Context, ownerID string, periodID int64) (transactions.Totals, error)
}

// Service assembles reports for the owner's current period.
type Service struct {
	periods PeriodSource
	totals  TotalsSource
	cache   *Cache
}

// NewService builds Service. cache may be nil.
func NewService(periodSource PeriodSource, totalsSource TotalsSource, cache *Cache) *Service {
	return &Service{periods: periodSource, totals: totalsSource, cache: cache}
}

// Current returns the report for the owner's open period. The result is a
// partial report until a closing stock valuation is recorded.
func (s *Service) Current(ctx context.Context, ownerID string) (Report, error) {
	return s.cache.Fetch(ctx, ownerID, func(ctx context.Context) (Report, error) {
		p, totals, err := s.load(ctx, ownerID)
		if err != nil {
			return Report{}, err
		}
		return Summarize(p, totals), nil
	})
}

// PreviewClose returns the final report the owner would get if the open
// period were closed with the hypothetical closing stock valuation. Nothing
// is written.
func (s *Service) PreviewClose(ctx context.Context, ownerID string, closingStockCost int64) (Report, error) {
	if closingStockCost < 0 {
		return Report{}, fmt.Errorf("%w: closing stock cost must be >= 0", shared.ErrValidation)
	}
	p, totals, err := s.load(ctx, ownerID)
	if err != nil {
		return Report{}, err
	}
	return SummarizeWithClosing(p, totals, closingStockCost), nil
}

func (s *Service) load(ctx context.Context, ownerID string) (periods.Period, transactions.Totals, error) {
	open, err := s.periods.GetOpen(ctx, ownerID)
	if err != nil {
		return periods.Period{}, transactions.Totals{}, err
	}
	if open == nil {
		return periods.Period{}, transactions.Totals{}, fmt.Errorf("%w: owner %s", shared.ErrNoOpenPeriod, ownerID)
	}
	totals, err := s.totals.Totals(ctx, ownerID, open.ID)
	if err != nil {
		return periods.Period{}, transactions.Totals{}, err
	}
	return *open, totals, nil
}
