package auth

import "context"

// Repository persists API keys.
type Repository interface {
	InsertKey(ctx context.Context, key APIKey) error
	GetKey(ctx context.Context, id string) (APIKey, error)
}
