package periods

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davr-ledger/davr-ledger/internal/shared"
)

// SQLRepository persists periods in PostgreSQL. A partial unique index on
// (owner_id) WHERE status='OPEN' backs the at-most-one-open invariant.
type SQLRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs SQLRepository.
func NewRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{pool: pool}
}

const periodColumns = `id, owner_id, start_date, end_date, opening_stock_cost, closing_stock_cost, status, created_at, updated_at`

func scanPeriod(row pgx.Row) (Period, error) {
	var p Period
	err := row.Scan(&p.ID, &p.OwnerID, &p.StartDate, &p.EndDate, &p.OpeningStockCost, &p.ClosingStockCost, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// WithTx executes fn inside a repeatable-read transaction.
func (r *SQLRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("periods: begin tx: %w", err)
	}
	if err := fn(ctx, &txRepository{tx: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("periods: commit tx: %w", err)
	}
	return nil
}

func (r *SQLRepository) Insert(ctx context.Context, p Period) (Period, error) {
	return insertPeriod(ctx, r.pool, p)
}

func (r *SQLRepository) GetOpen(ctx context.Context, ownerID string) (*Period, error) {
	return getOpen(ctx, r.pool, ownerID, "")
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (Period, error) {
	p, err := scanPeriod(r.pool.QueryRow(ctx, `SELECT `+periodColumns+` FROM periods WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Period{}, fmt.Errorf("%w: period %d", shared.ErrNotFound, id)
	}
	return p, err
}

func (r *SQLRepository) SetOpeningStock(ctx context.Context, id int64, amount int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE periods SET opening_stock_cost=$1, updated_at=NOW() WHERE id=$2`, amount, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: period %d", shared.ErrNotFound, id)
	}
	return nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertPeriod(ctx context.Context, q querier, p Period) (Period, error) {
	row := q.QueryRow(ctx, `INSERT INTO periods (owner_id, start_date, end_date, opening_stock_cost, closing_stock_cost, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
RETURNING `+periodColumns, p.OwnerID, p.StartDate, p.EndDate, p.OpeningStockCost, p.ClosingStockCost, p.Status)
	inserted, err := scanPeriod(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Period{}, fmt.Errorf("%w: an open period already exists for owner %s", shared.ErrConflict, p.OwnerID)
		}
		return Period{}, err
	}
	return inserted, nil
}

// getOpen selects the open period. The highest id wins if the store ever
// holds more than one open row for the same owner.
func getOpen(ctx context.Context, q querier, ownerID, lock string) (*Period, error) {
	row := q.QueryRow(ctx, `SELECT `+periodColumns+` FROM periods
WHERE owner_id=$1 AND status='OPEN'
ORDER BY id DESC LIMIT 1`+lock, ownerID)
	p, err := scanPeriod(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) GetOpenForUpdate(ctx context.Context, ownerID string) (*Period, error) {
	return getOpen(ctx, r.tx, ownerID, " FOR UPDATE")
}

func (r *txRepository) GetByIDForUpdate(ctx context.Context, id int64) (Period, error) {
	p, err := scanPeriod(r.tx.QueryRow(ctx, `SELECT `+periodColumns+` FROM periods WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Period{}, fmt.Errorf("%w: period %d", shared.ErrNotFound, id)
	}
	return p, err
}

func (r *txRepository) MarkClosed(ctx context.Context, id int64, closingStockCost int64) error {
	tag, err := r.tx.Exec(ctx, `UPDATE periods SET closing_stock_cost=$1, status='CLOSED', updated_at=NOW()
WHERE id=$2 AND status='OPEN'`, closingStockCost, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: period %d is not open", shared.ErrConflict, id)
	}
	return nil
}

func (r *txRepository) Insert(ctx context.Context, p Period) (Period, error) {
	return insertPeriod(ctx, r.tx, p)
}
