package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/davr-ledger/davr-ledger/internal/owners"
	"github.com/davr-ledger/davr-ledger/internal/shared"
)

// Service issues and verifies API keys. A key token has the form
// "<key id>.<secret>"; only the bcrypt hash of the secret is stored.
type Service struct {
	repo   Repository
	owners owners.Repository
}

// NewService builds Service.
func NewService(repo Repository, ownerRepo owners.Repository) *Service {
	return &Service{repo: repo, owners: ownerRepo}
}

// Issue creates an owner for the external reference when needed and returns
// a fresh key token. The token is shown exactly once.
func (s *Service) Issue(ctx context.Context, externalRef string) (string, owners.Owner, error) {
	owner, err := s.owners.EnsureByExternalRef(ctx, externalRef)
	if err != nil {
		return "", owners.Owner{}, err
	}
	secret := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", owners.Owner{}, fmt.Errorf("auth: hash secret: %w", err)
	}
	key := APIKey{ID: uuid.NewString(), OwnerID: owner.ID, KeyHash: string(hash)}
	if err := s.repo.InsertKey(ctx, key); err != nil {
		return "", owners.Owner{}, err
	}
	return key.ID + "." + secret, owner, nil
}

// dummyHash is compared on the unknown-key path so a miss costs the same
// bcrypt work as a real comparison and key-id validity does not leak
// through response timing.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Authenticate resolves a key token to an owner id.
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	keyID, secret, ok := strings.Cut(token, ".")
	if !ok || keyID == "" || secret == "" {
		return "", fmt.Errorf("%w: malformed api key", shared.ErrUnauthorized)
	}
	key, err := s.repo.GetKey(ctx, keyID)
	if err != nil {
		if errors.Is(err, shared.ErrUnauthorized) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(secret))
			return "", fmt.Errorf("%w: invalid api key", shared.ErrUnauthorized)
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(key.KeyHash), []byte(secret)); err != nil {
		return "", fmt.Errorf("%w: invalid api key", shared.ErrUnauthorized)
	}
	return key.OwnerID, nil
}
