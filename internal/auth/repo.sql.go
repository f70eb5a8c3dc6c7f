package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davr-ledger/davr-ledger/internal/shared"
)

// SQLRepository persists API keys in PostgreSQL.
type SQLRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs SQLRepository.
func NewRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{pool: pool}
}

func (r *SQLRepository) InsertKey(ctx context.Context, key APIKey) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO api_keys (id, owner_id, key_hash, created_at)
VALUES ($1,$2,$3,NOW())`, key.ID, key.OwnerID, key.KeyHash)
	return err
}

func (r *SQLRepository) GetKey(ctx context.Context, id string) (APIKey, error) {
	var key APIKey
	err := r.pool.QueryRow(ctx, `SELECT id, owner_id, key_hash, created_at FROM api_keys WHERE id=$1`, id).
		Scan(&key.ID, &key.OwnerID, &key.KeyHash, &key.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return APIKey{}, fmt.Errorf("%w: unknown api key", shared.ErrUnauthorized)
		}
		return APIKey{}, err
	}
	return key, nil
}
