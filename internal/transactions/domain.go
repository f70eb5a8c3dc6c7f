package transactions

import "time"

// DailySale holds one row per (owner, period, calendar date). Re-entering
// the same date replaces the prior amounts, it never accumulates.
type DailySale struct {
	ID         int64
	OwnerID    string
	PeriodID   int64
	SaleDate   time.Time
	CashAmount int64
	CardAmount int64
}

// Purchase is an append-only inventory acquisition event.
type Purchase struct {
	ID           int64
	Code         string
	OwnerID      string
	PeriodID     int64
	PurchaseDate time.Time
	TotalCost    int64
	Note         string
}

// Expense is an append-only operating cost event.
type Expense struct {
	ID          int64
	Code        string
	OwnerID     string
	PeriodID    int64
	ExpenseDate time.Time
	Amount      int64
	Note        string
}

// Totals aggregates all committed rows of a period. Derived, never stored.
type Totals struct {
	Cash      int64 `json:"cash"`
	Card      int64 `json:"card"`
	Purchases int64 `json:"purchases"`
	Expenses  int64 `json:"expenses"`
}
