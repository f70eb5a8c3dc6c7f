package owners

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davr-ledger/davr-ledger/internal/shared"
)

// SQLRepository persists owners in PostgreSQL.
type SQLRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs SQLRepository.
func NewRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{pool: pool}
}

func (r *SQLRepository) EnsureByExternalRef(ctx context.Context, externalRef string) (Owner, error) {
	if externalRef == "" {
		return Owner{}, fmt.Errorf("%w: external reference required", shared.ErrValidation)
	}
	var o Owner
	err := r.pool.QueryRow(ctx, `INSERT INTO owners (id, external_ref, created_at)
VALUES ($1, $2, NOW())
ON CONFLICT (external_ref) DO UPDATE SET external_ref=EXCLUDED.external_ref
RETURNING id, external_ref, created_at`, uuid.NewString(), externalRef).
		Scan(&o.ID, &o.ExternalRef, &o.CreatedAt)
	if err != nil {
		return Owner{}, err
	}
	return o, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (Owner, error) {
	var o Owner
	err := r.pool.QueryRow(ctx, `SELECT id, external_ref, created_at FROM owners WHERE id=$1`, id).
		Scan(&o.ID, &o.ExternalRef, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Owner{}, fmt.Errorf("%w: owner %s", shared.ErrNotFound, id)
		}
		return Owner{}, err
	}
	return o, nil
}
