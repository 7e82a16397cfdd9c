package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/osokin/verity/internal/logger"
	"github.com/osokin/verity/internal/model"
)

// EmailChangeOutcome names the result of an email change request.
type EmailChangeOutcome string

const (
	// EmailChangeSkipped means the requested address already is the
	// effective pending one; nothing was mutated and no token was created.
	EmailChangeSkipped EmailChangeOutcome = "skipped"
	// EmailChangeReverted means a pending change back to the confirmed
	// address was abandoned; outstanding tokens were cleared.
	EmailChangeReverted EmailChangeOutcome = "reverted"
	// EmailChangeIssued means a new pending address was recorded and a
	// fresh verification token issued for it.
	EmailChangeIssued EmailChangeOutcome = "issued_token"
)

// EmailChangeResult is what a change request produced. Token is set only for
// EmailChangeIssued.
type EmailChangeResult struct {
	Outcome EmailChangeOutcome
	Token   *IssuedToken
}

// EmailChange reconciles an owner's email state on change requests and
// confirms pending addresses. Every decide-and-mutate sequence runs inside a
// transaction holding an exclusive lock on the owner row, so concurrent
// requests for the same owner serialize instead of both acting on stale
// state.
type EmailChange struct {
	owners model.OwnerStore
	tokens *Verification
	tx     model.TxRunner
	logger *logger.Logger
}

func NewEmailChange(owners model.OwnerStore, tokens *Verification, tx model.TxRunner, logger *logger.Logger) *EmailChange {
	return &EmailChange{
		owners: owners,
		tokens: tokens,
		tx:     tx,
		logger: logger,
	}
}

// Change applies an email change request. Decision order: unchanged →
// skipped; back to the confirmed address while a change is pending →
// reverted; anything else records the new pending address, clears the
// owner's outstanding tokens and issues a fresh, non-throttled one. Deleting
// before reissuing guarantees at most one live token corresponds to the
// current pending address, so a token for an abandoned address can never
// succeed later.
func (s *EmailChange) Change(ctx context.Context, ownerID uuid.UUID, newEmail string) (EmailChangeResult, error) {
	s.logger.Debug("Email change service: change requested",
		"owner_id", ownerID)

	var result EmailChangeResult
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		owner, err := s.owners.GetForUpdate(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("failed to lock owner: %w", err)
		}

		switch {
		case owner.PendingEmail() == newEmail:
			if err := s.owners.Update(ctx, owner); err != nil {
				return fmt.Errorf("failed to save owner: %w", err)
			}
			result = EmailChangeResult{Outcome: EmailChangeSkipped}

		case owner.UnverifiedEmail != nil && newEmail == owner.Email:
			owner.UnverifiedEmail = nil
			if _, err := s.tokens.DeleteAll(ctx, owner.ID); err != nil {
				return err
			}
			if err := s.owners.Update(ctx, owner); err != nil {
				return fmt.Errorf("failed to save owner: %w", err)
			}
			result = EmailChangeResult{Outcome: EmailChangeReverted}

		default:
			// Before the very first confirmation the confirmed column still
			// holds the seed address; moving on from it moves both columns.
			firstEmail := owner.UnverifiedEmail != nil && *owner.UnverifiedEmail == owner.Email

			pending := newEmail
			owner.UnverifiedEmail = &pending
			if firstEmail {
				owner.Email = newEmail
			}

			if _, err := s.tokens.DeleteAll(ctx, owner.ID); err != nil {
				return err
			}
			if err := s.owners.Update(ctx, owner); err != nil {
				return fmt.Errorf("failed to save owner: %w", err)
			}

			issued, err := s.tokens.Issue(ctx, owner.ID, newEmail)
			if err != nil {
				return err
			}
			result = EmailChangeResult{Outcome: EmailChangeIssued, Token: issued}
		}

		return nil
	})
	if err != nil {
		return EmailChangeResult{}, err
	}

	s.logger.Info("Email change service: change reconciled",
		"owner_id", ownerID,
		"outcome", string(result.Outcome))

	return result, nil
}

// Request re-issues a verification token for the owner's current pending
// address, throttled by the default cooldown. It returns (nil, nil) when no
// change is pending or the cooldown has not elapsed.
func (s *EmailChange) Request(ctx context.Context, ownerID uuid.UUID) (*IssuedToken, error) {
	owner, err := s.owners.GetByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	if owner.UnverifiedEmail == nil {
		return nil, nil
	}

	return s.tokens.IssueThrottled(ctx, owner.ID, *owner.UnverifiedEmail, 0)
}

// Confirm promotes a pending address given a presented token value. The
// token must verify, no other owner may already hold the address as their
// confirmed email, and the owner's pending address must still equal the
// token's. Every failure collapses into model.ErrInvalidToken so an attacker
// cannot learn which check failed, in particular whether the address exists.
func (s *EmailChange) Confirm(ctx context.Context, value string) (model.Owner, error) {
	verified, err := s.tokens.Verify(ctx, value)
	if err != nil {
		return model.Owner{}, err
	}
	if verified == nil {
		return model.Owner{}, model.ErrInvalidToken
	}

	var confirmed model.Owner
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		holder, err := s.owners.GetByEmail(ctx, verified.Email)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("failed to check email holder: %w", err)
		}
		if err == nil && holder.ID != verified.OwnerID {
			return model.ErrInvalidToken
		}

		owner, err := s.owners.GetPendingForUpdate(ctx, verified.OwnerID, verified.Email)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				// Pending email moved on since issuance, or the owner is gone.
				return model.ErrInvalidToken
			}
			return fmt.Errorf("failed to lock owner: %w", err)
		}

		owner.Email = verified.Email
		owner.UnverifiedEmail = nil
		if err := s.owners.Update(ctx, owner); err != nil {
			return fmt.Errorf("failed to save owner: %w", err)
		}
		if _, err := s.tokens.DeleteAll(ctx, owner.ID); err != nil {
			return err
		}

		confirmed = owner
		return nil
	})
	if err != nil {
		return model.Owner{}, err
	}

	s.logger.Info("Email change service: email confirmed",
		"owner_id", confirmed.ID)

	return confirmed, nil
}
