package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/osokin/verity/internal/logger"
	"github.com/osokin/verity/internal/model"
)

// PasswordReset issues reset tokens and applies password resets. Hashing of
// the new credential is delegated to the configured PasswordHasher; this
// service never stores a plaintext password.
type PasswordReset struct {
	owners model.OwnerStore
	tokens *Verification
	hasher model.PasswordHasher
	tx     model.TxRunner
	logger *logger.Logger
}

func NewPasswordReset(owners model.OwnerStore, tokens *Verification, hasher model.PasswordHasher, tx model.TxRunner, logger *logger.Logger) *PasswordReset {
	return &PasswordReset{
		owners: owners,
		tokens: tokens,
		hasher: hasher,
		tx:     tx,
		logger: logger,
	}
}

// Request issues a reset token for the owner, throttled by the default
// cooldown. Inside the cooldown window it is a silent no-op returning
// (nil, nil).
func (s *PasswordReset) Request(ctx context.Context, ownerID uuid.UUID) (*IssuedToken, error) {
	return s.tokens.IssueThrottled(ctx, ownerID, "", 0)
}

// Reset verifies the presented token and sets the new password under an
// exclusive lock on the owner row. An invalid token or a vanished owner
// yields model.ErrInvalidToken with no partial state change; the remaining
// reset tokens are cleared in the same transaction as the password write.
func (s *PasswordReset) Reset(ctx context.Context, value, newPassword string) error {
	verified, err := s.tokens.Verify(ctx, value)
	if err != nil {
		return err
	}
	if verified == nil {
		return model.ErrInvalidToken
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		owner, err := s.owners.GetForUpdate(ctx, verified.OwnerID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.ErrInvalidToken
			}
			return fmt.Errorf("failed to lock owner: %w", err)
		}

		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		owner.PasswordHash = hash
		if err := s.owners.Update(ctx, owner); err != nil {
			return fmt.Errorf("failed to save owner: %w", err)
		}
		if _, err := s.tokens.DeleteAll(ctx, owner.ID); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Password reset service: password reset",
		"owner_id", verified.OwnerID)

	return nil
}
