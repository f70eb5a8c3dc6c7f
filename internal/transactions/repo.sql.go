package transactions

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLRepository persists transactions in PostgreSQL.
type SQLRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs SQLRepository.
func NewRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{pool: pool}
}

func (r *SQLRepository) UpsertDailySale(ctx context.Context, sale DailySale) (DailySale, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO daily_sales (owner_id, period_id, sale_date, cash_amount, card_amount)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (owner_id, period_id, sale_date)
DO UPDATE SET cash_amount=EXCLUDED.cash_amount, card_amount=EXCLUDED.card_amount
RETURNING id`, sale.OwnerID, sale.PeriodID, sale.SaleDate, sale.CashAmount, sale.CardAmount)
	if err := row.Scan(&sale.ID); err != nil {
		return DailySale{}, err
	}
	return sale, nil
}

func (r *SQLRepository) AppendPurchase(ctx context.Context, purchase Purchase) (Purchase, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO purchases (code, owner_id, period_id, purchase_date, total_cost, note)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id`, purchase.Code, purchase.OwnerID, purchase.PeriodID, purchase.PurchaseDate, purchase.TotalCost, purchase.Note)
	if err := row.Scan(&purchase.ID); err != nil {
		return Purchase{}, err
	}
	return purchase, nil
}

func (r *SQLRepository) AppendExpense(ctx context.Context, expense Expense) (Expense, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO expenses (code, owner_id, period_id, expense_date, amount, note)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id`, expense.Code, expense.OwnerID, expense.PeriodID, expense.ExpenseDate, expense.Amount, expense.Note)
	if err := row.Scan(&expense.ID); err != nil {
		return Expense{}, err
	}
	return expense, nil
}

// SumTotals aggregates committed rows at call time.
func (r *SQLRepository) SumTotals(ctx context.Context, ownerID string, periodID int64) (Totals, error) {
	var t Totals
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(cash_amount),0), COALESCE(SUM(card_amount),0)
FROM daily_sales WHERE owner_id=$1 AND period_id=$2`, ownerID, periodID).Scan(&t.Cash, &t.Card)
	if err != nil {
		return Totals{}, err
	}
	err = r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(total_cost),0)
FROM purchases WHERE owner_id=$1 AND period_id=$2`, ownerID, periodID).Scan(&t.Purchases)
	if err != nil {
		return Totals{}, err
	}
	err = r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount),0)
FROM expenses WHERE owner_id=$1 AND period_id=$2`, ownerID, periodID).Scan(&t.Expenses)
	if err != nil {
		return Totals{}, err
	}
	return t, nil
}
