package transactions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davr-ledger/davr-ledger/internal/periods"
	"github.com/davr-ledger/davr-ledger/internal/shared"
)

type memoryRepo struct {
	sales     map[string]DailySale
	purchases []Purchase
	expenses  []Expense
	nextID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sales: make(map[string]DailySale)}
}

func saleKey(s DailySale) string {
	return s.OwnerID + "|" + s.SaleDate.Format("2006-01-02")
}

func (r *memoryRepo) UpsertDailySale(ctx context.Context, sale DailySale) (DailySale, error) {
	key := saleKey(sale)
	if existing, ok := r.sales[key]; ok {
		sale.ID = existing.ID
	} else {
		r.nextID++
		sale.ID = r.nextID
	}
	r.sales[key] = sale
	return sale, nil
}

func (r *memoryRepo) AppendPurchase(ctx context.Context, purchase Purchase) (Purchase, error) {
	r.nextID++
	purchase.ID = r.nextID
	r.purchases = append(r.purchases, purchase)
	return purchase, nil
}

func (r *memoryRepo) AppendExpense(ctx context.Context, expense Expense) (Expense, error) {
	r.nextID++
	expense.ID = r.nextID
	r.expenses = append(r.expenses, expense)
	return expense, nil
}

func (r *memoryRepo) SumTotals(ctx context.Context, ownerID string, periodID int64) (Totals, error) {
	var t Totals
	for _, s := range r.sales {
		if s.OwnerID == ownerID && s.PeriodID == periodID {
			t.Cash += s.CashAmount
			t.Card += s.CardAmount
		}
	}
	for _, p := range r.purchases {
		if p.OwnerID == ownerID && p.PeriodID == periodID {
			t.Purchases += p.TotalCost
		}
	}
	for _, e := range r.expenses {
		if e.OwnerID == ownerID && e.PeriodID == periodID {
			t.Expenses += e.Amount
		}
	}
	return t, nil
}

type stubPeriods struct {
	open *periods.Period
}

func (s *stubPeriods) GetOpen(ctx context.Context, ownerID string) (*periods.Period, error) {
	return s.open, nil
}

type countingCache struct {
	bumps int
}

func (c *countingCache) Bump(ctx context.Context, ownerID string) error {
	c.bumps++
	return nil
}

func openPeriod() *periods.Period {
	return &periods.Period{
		ID:        7,
		OwnerID:   "owner-1",
		StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Status:    periods.StatusOpen,
	}
}

func TestRecordSaleReplacesSameDate(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, &stubPeriods{open: openPeriod()}, nil)
	ctx := context.Background()
	day := time.Date(2024, time.January, 3, 15, 30, 0, 0, time.UTC)

	_, err := svc.RecordSale(ctx, "owner-1", day, 100, 40)
	require.NoError(t, err)

	// A second entry for the same date corrects, not accumulates.
	_, err = svc.RecordSale(ctx, "owner-1", day, 50, 10)
	require.NoError(t, err)

	totals, err := svc.Totals(ctx, "owner-1", 7)
	require.NoError(t, err)
	require.Equal(t, int64(50), totals.Cash)
	require.Equal(t, int64(10), totals.Card)
	require.Len(t, repo.sales, 1)
}

func TestRecordPurchasesSameDateAllRetained(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, &stubPeriods{open: openPeriod()}, nil)
	ctx := context.Background()
	day := time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)

	first, err := svc.RecordPurchase(ctx, "owner-1", day, 300_000, "restock")
	require.NoError(t, err)
	second, err := svc.RecordPurchase(ctx, "owner-1", day, 200_000, "extra stock")
	require.NoError(t, err)
	require.NotEqual(t, first.Code, second.Code)

	totals, err := svc.Totals(ctx, "owner-1", 7)
	require.NoError(t, err)
	require.Equal(t, int64(500_000), totals.Purchases)
	require.Len(t, repo.purchases, 2)
}

func TestRecordExpenseAppends(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, &stubPeriods{open: openPeriod()}, nil)
	ctx := context.Background()
	day := time.Date(2024, time.January, 4, 0, 0, 0, 0, time.UTC)

	_, err := svc.RecordExpense(ctx, "owner-1", day, 120_000, "rent")
	require.NoError(t, err)
	_, err = svc.RecordExpense(ctx, "owner-1", day, 80_000, "electricity")
	require.NoError(t, err)

	totals, err := svc.Totals(ctx, "owner-1", 7)
	require.NoError(t, err)
	require.Equal(t, int64(200_000), totals.Expenses)
}

func TestWritesRequireOpenPeriod(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, &stubPeriods{open: nil}, nil)
	ctx := context.Background()
	day := time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)

	_, err := svc.RecordSale(ctx, "owner-1", day, 100, 0)
	require.ErrorIs(t, err, shared.ErrNoOpenPeriod)
	_, err = svc.RecordPurchase(ctx, "owner-1", day, 100, "")
	require.ErrorIs(t, err, shared.ErrNoOpenPeriod)
	_, err = svc.RecordExpense(ctx, "owner-1", day, 100, "")
	require.ErrorIs(t, err, shared.ErrNoOpenPeriod)

	// Nothing may reach storage when there is no open period.
	require.Empty(t, repo.sales)
	require.Empty(t, repo.purchases)
	require.Empty(t, repo.expenses)
}

func TestNegativeAmountsRejected(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, &stubPeriods{open: openPeriod()}, nil)
	ctx := context.Background()
	day := time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)

	_, err := svc.RecordSale(ctx, "owner-1", day, -1, 0)
	require.ErrorIs(t, err, shared.ErrValidation)
	_, err = svc.RecordSale(ctx, "owner-1", day, 0, -1)
	require.ErrorIs(t, err, shared.ErrValidation)
	_, err = svc.RecordPurchase(ctx, "owner-1", day, -1, "")
	require.ErrorIs(t, err, shared.ErrValidation)
	_, err = svc.RecordExpense(ctx, "owner-1", day, -1, "")
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Empty(t, repo.sales)
}

func TestZeroAmountsAccepted(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, &stubPeriods{open: openPeriod()}, nil)
	ctx := context.Background()
	day := time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)

	sale, err := svc.RecordSale(ctx, "owner-1", day, 0, 0)
	require.NoError(t, err)
	require.Zero(t, sale.CashAmount)
	require.Zero(t, sale.CardAmount)
}

func TestWritesBumpReportCache(t *testing.T) {
	cache := &countingCache{}
	svc := NewService(newMemoryRepo(), &stubPeriods{open: openPeriod()}, cache)
	ctx := context.Background()
	day := time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)

	_, err := svc.RecordSale(ctx, "owner-1", day, 100, 0)
	require.NoError(t, err)
	_, err = svc.RecordPurchase(ctx, "owner-1", day, 100, "")
	require.NoError(t, err)
	_, err = svc.RecordExpense(ctx, "owner-1", day, 100, "")
	require.NoError(t, err)
	require.Equal(t, 3, cache.bumps)
}

func TestSaleDateNormalizedToMidnight(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, &stubPeriods{open: openPeriod()}, nil)
	ctx := context.Background()

	sale, err := svc.RecordSale(ctx, "owner-1", time.Date(2024, time.January, 3, 23, 59, 59, 0, time.UTC), 100, 0)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC), sale.SaleDate)
}
