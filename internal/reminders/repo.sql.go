package reminders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLRepository persists reminder settings in PostgreSQL.
type SQLRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs SQLRepository.
func NewRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{pool: pool}
}

func (r *SQLRepository) Get(ctx context.Context, ownerID string) (*Setting, error) {
	var s Setting
	s.OwnerID = ownerID
	err := r.pool.QueryRow(ctx, `SELECT hour, minute, enabled FROM reminder_settings WHERE owner_id=$1`, ownerID).
		Scan(&s.Hour, &s.Minute, &s.Enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SQLRepository) Upsert(ctx context.Context, setting Setting) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO reminder_settings (owner_id, hour, minute, enabled)
VALUES ($1,$2,$3,$4)
ON CONFLICT (owner_id) DO UPDATE SET hour=EXCLUDED.hour, minute=EXCLUDED.minute, enabled=EXCLUDED.enabled`,
		setting.OwnerID, setting.Hour, setting.Minute, setting.Enabled)
	return err
}

func (r *SQLRepository) ListDue(ctx context.Context, hour, minute int) ([]DueOwner, error) {
	rows, err := r.pool.Query(ctx, `SELECT rs.owner_id, rs.hour, rs.minute, rs.enabled, o.external_ref
FROM reminder_settings rs
JOIN owners o ON o.id = rs.owner_id
WHERE rs.enabled AND rs.hour=$1 AND rs.minute=$2`, hour, minute)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	due := []DueOwner{}
	for rows.Next() {
		var d DueOwner
		if err := rows.Scan(&d.Setting.OwnerID, &d.Setting.Hour, &d.Setting.Minute, &d.Setting.Enabled, &d.ExternalRef); err != nil {
			return nil, err
		}
		due = append(due, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return due, nil
}
