package shared

import "context"

type ownerContextKey struct{}

// ContextWithOwner stores the authenticated owner id in context.
func ContextWithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerContextKey{}, ownerID)
}

// OwnerFromContext extracts the authenticated owner id from context.
func OwnerFromContext(ctx context.Context) string {
	ownerID, _ := ctx.Value(ownerContextKey{}).(string)
	return ownerID
}
