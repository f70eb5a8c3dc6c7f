package periods

import "context"

// TxRepository exposes the transactional operations used by close-and-roll.
type TxRepository interface {
	GetOpenForUpdate(ctx context.Context, ownerID string) (*Period, error)
	GetByIDForUpdate(ctx context.Context, id int64) (Period, error)
	MarkClosed(ctx context.Context, id int64, closingStockCost int64) error
	Insert(ctx context.Context, p Period) (Period, error)
}

// Repository persists periods. Insert must surface a conflict when a second
// OPEN period would be created for the same owner; the storage layer enforces
// this atomically so concurrent opens cannot both succeed.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Insert(ctx context.Context, p Period) (Period, error)
	GetOpen(ctx context.Context, ownerID string) (*Period, error)
	GetByID(ctx context.Context, id int64) (Period, error)
	SetOpeningStock(ctx context.Context, id int64, amount int64) error
}
