package reminders

import "context"

// DueOwner pairs a setting with the owner's delivery reference.
type DueOwner struct {
	Setting     Setting
	ExternalRef string
}

// Repository persists reminder settings.
type Repository interface {
	// Get returns the owner's setting, or nil when none has been stored yet.
	Get(ctx context.Context, ownerID string) (*Setting, error)
	Upsert(ctx context.Context, setting Setting) error
	// ListDue returns enabled settings scheduled for the given wall-clock
	// minute, joined with each owner's external reference.
	ListDue(ctx context.Context, hour, minute int) ([]DueOwner, error)
}
