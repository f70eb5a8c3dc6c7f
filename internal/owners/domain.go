// Package owners tracks ledger owners. An owner is created implicitly the
// first time an external reference (e.g. a Telegram chat id) shows up.
package owners

import "time"

// Owner is one ledger owner.
type Owner struct {
	ID          string
	ExternalRef string
	CreatedAt   time.Time
}
