package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osokin/verity/internal/logger"
	"github.com/osokin/verity/internal/model"
	"github.com/osokin/verity/internal/token"
)

// Verification issues and verifies single-use opaque tokens against one
// token store. Two instances back the two token kinds: one over the email
// verification table, one over the password reset table.
type Verification struct {
	store        model.TokenStore
	throttle     *Throttle
	ttl          time.Duration
	secretLength int
	logger       *logger.Logger
	now          func() time.Time
}

// IssuedToken carries a freshly persisted token together with its one-time
// public value. The value exists only here; the store keeps the secret hash.
type IssuedToken struct {
	Token model.Token
	Value string
}

func NewVerification(store model.TokenStore, throttle *Throttle, ttl time.Duration, secretLength int, logger *logger.Logger) *Verification {
	if secretLength <= 0 {
		secretLength = model.DefaultSecretLength
	}
	return &Verification{
		store:        store,
		throttle:     throttle,
		ttl:          ttl,
		secretLength: secretLength,
		logger:       logger,
		now:          time.Now,
	}
}

// Issue creates a token for the owner. The email is carried on email
// verification tokens and empty for password resets. The raw secret is
// discarded once the public value is rendered.
func (s *Verification) Issue(ctx context.Context, ownerID uuid.UUID, email string) (*IssuedToken, error) {
	if ownerID == uuid.Nil {
		return nil, model.ErrInvalidOwner
	}

	secret, err := token.GenerateSecret(s.secretLength)
	if err != nil {
		return nil, err
	}
	defer token.Zero(secret)

	now := s.now()
	saved, err := s.store.Create(ctx, model.Token{
		OwnerID:    ownerID,
		Email:      email,
		SecretHash: token.HashSecret(secret),
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	})
	if err != nil {
		s.logger.Error("Verification service: failed to persist token",
			"owner_id", ownerID,
			"error", err.Error())
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}

	s.logger.Info("Verification service: token issued",
		"owner_id", ownerID,
		"token_id", saved.ID,
		"expires_at", saved.ExpiresAt)

	return &IssuedToken{Token: saved, Value: token.Encode(saved.ID, secret)}, nil
}

// IssueThrottled issues a token unless the owner's last issuance is still
// inside the cooldown window, in which case it is a silent no-op returning
// (nil, nil) with no store mutation. A non-positive cooldown uses the
// throttle's default.
func (s *Verification) IssueThrottled(ctx context.Context, ownerID uuid.UUID, email string, cooldown time.Duration) (*IssuedToken, error) {
	if ownerID == uuid.Nil {
		return nil, model.ErrInvalidOwner
	}

	lastIssuedAt, err := s.store.LastCreatedAtByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get last issuance time: %w", err)
	}

	if !s.throttle.ShouldIssue(lastIssuedAt, cooldown) {
		s.logger.Debug("Verification service: issuance throttled",
			"owner_id", ownerID)
		return nil, nil
	}

	return s.Issue(ctx, ownerID, email)
}

// Verify resolves a presented public value to its stored token. It returns
// (nil, nil) for every invalid input: malformed value, unknown identifier,
// secret mismatch, or expiry. The cases are deliberately indistinguishable.
// Both the hash comparison and the expiry check always run. Only storage
// failures surface as errors.
func (s *Verification) Verify(ctx context.Context, value string) (*model.Token, error) {
	id, secret, err := token.Decode(value)
	if err != nil {
		return nil, nil
	}
	defer token.Zero(secret)

	stored, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	secretOK := token.VerifySecret(stored.SecretHash, secret)
	expired := stored.Expired(s.now())
	if !secretOK || expired {
		return nil, nil
	}

	return &stored, nil
}

// Find returns the owner's token with the given id, or nil when the owner
// holds no such token.
func (s *Verification) Find(ctx context.Context, ownerID, id uuid.UUID) (*model.Token, error) {
	stored, err := s.store.GetByOwner(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find token: %w", err)
	}
	return &stored, nil
}

// List returns the owner's tokens, newest first.
func (s *Verification) List(ctx context.Context, ownerID uuid.UUID) ([]model.Token, error) {
	tokens, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	return tokens, nil
}

// Delete revokes one of the owner's tokens and returns the number of rows
// removed.
func (s *Verification) Delete(ctx context.Context, ownerID, id uuid.UUID) (int64, error) {
	count, err := s.store.DeleteByOwner(ctx, ownerID, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete token: %w", err)
	}
	return count, nil
}

// DeleteAll revokes every token the owner holds.
func (s *Verification) DeleteAll(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	count, err := s.store.DeleteAllByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tokens: %w", err)
	}
	return count, nil
}

// LastIssuedAt returns the creation time of the owner's newest token, nil
// when none exist.
func (s *Verification) LastIssuedAt(ctx context.Context, ownerID uuid.UUID) (*time.Time, error) {
	lastIssuedAt, err := s.store.LastCreatedAtByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get last issuance time: %w", err)
	}
	return lastIssuedAt, nil
}
