// Package auth layers owner authorization outside the ledger core. Every
// API key maps to exactly one owner; the core only ever sees owner ids.
package auth

import "time"

// APIKey stores a bcrypt hash of the key secret, never the secret itself.
type APIKey struct {
	ID        string
	OwnerID   string
	KeyHash   string
	CreatedAt time.Time
}
