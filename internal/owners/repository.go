package owners

import "context"

// Repository persists owners.
type Repository interface {
	// EnsureByExternalRef returns the owner for the external reference,
	// creating it on first use.
	EnsureByExternalRef(ctx context.Context, externalRef string) (Owner, error)
	GetByID(ctx context.Context, id string) (Owner, error)
}
