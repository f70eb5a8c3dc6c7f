package transactions

import "context"

// Repository persists ledger transactions. UpsertDailySale replaces the row
// keyed by (owner, period, date); purchases and expenses append.
type Repository interface {
	UpsertDailySale(ctx context.Context, sale DailySale) (DailySale, error)
	AppendPurchase(ctx context.Context, purchase Purchase) (Purchase, error)
	AppendExpense(ctx context.Context, expense Expense) (Expense, error)
	SumTotals(ctx context.Context, ownerID string, periodID int64) (Totals, error)
}
