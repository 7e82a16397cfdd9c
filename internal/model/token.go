package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultSecretLength is the number of random bytes in a token secret.
const DefaultSecretLength = 40

// TokenStore defines persistence operations for verification tokens.
// Implementations must scope every owner-qualified call strictly to the
// given owner: a colliding token ID belonging to another owner is a miss.
type TokenStore interface {
	Create(ctx context.Context, token Token) (Token, error)
	GetByID(ctx context.Context, id uuid.UUID) (Token, error)
	GetByOwner(ctx context.Context, ownerID, id uuid.UUID) (Token, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Token, error)
	DeleteByOwner(ctx context.Context, ownerID, id uuid.UUID) (int64, error)
	DeleteAllByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	LastCreatedAtByOwner(ctx context.Context, ownerID uuid.UUID) (*time.Time, error)
}

// Token represents a stored single-use verification token. Only the hash of
// the random secret is persisted; the secret itself exists solely inside the
// public value handed to the owner. A persisted token is immutable, rotation
// is delete-and-recreate.
type Token struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	Email      string // empty for password-reset tokens
	SecretHash []byte
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Expired reports whether the token is past its expiry at the given instant.
func (t Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
