package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OwnerStore defines persistence operations for token owners (accounts).
// GetForUpdate and GetPendingForUpdate take an exclusive row lock and must be
// called inside a transaction started with TxRunner.WithTx.
type OwnerStore interface {
	Create(ctx context.Context, owner Owner) (Owner, error)
	GetByID(ctx context.Context, id uuid.UUID) (Owner, error)
	GetByEmail(ctx context.Context, email string) (Owner, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (Owner, error)
	GetPendingForUpdate(ctx context.Context, id uuid.UUID, email string) (Owner, error)
	Update(ctx context.Context, owner Owner) error
}

// Owner represents an account that tokens are issued for.
//
// UnverifiedEmail is nil exactly when no email change is pending. It equals
// Email right after registration, before the seed address is confirmed.
// Email is unique at the storage layer; UnverifiedEmail deliberately is not,
// so two owners may race to claim the same pending address and the loser's
// confirmation fails at promote time.
type Owner struct {
	ID              uuid.UUID
	Email           string
	UnverifiedEmail *string
	PasswordHash    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PendingEmail returns the address an email change request is compared
// against: the unverified address when one is set, the confirmed one
// otherwise.
func (o Owner) PendingEmail() string {
	if o.UnverifiedEmail != nil {
		return *o.UnverifiedEmail
	}
	return o.Email
}

// PasswordHasher is the delegated credential-hashing facility. The core
// never sees or stores a plaintext password beyond this call.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// TxRunner executes fn inside a storage transaction. Store calls made with
// the context passed to fn join that transaction; the transaction commits
// when fn returns nil and rolls back otherwise.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
