package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osokin/verity/internal/logger"
	"github.com/osokin/verity/internal/model"
)

// Accounts creates owners in the seed state the email reconciler builds on:
// right after registration the unverified address equals the confirmed one,
// and the first real change request moves both columns together.
type Accounts struct {
	owners model.OwnerStore
	tokens *Verification
	hasher model.PasswordHasher
	tx     model.TxRunner
	logger *logger.Logger
}

func NewAccounts(owners model.OwnerStore, tokens *Verification, hasher model.PasswordHasher, tx model.TxRunner, logger *logger.Logger) *Accounts {
	return &Accounts{
		owners: owners,
		tokens: tokens,
		hasher: hasher,
		tx:     tx,
		logger: logger,
	}
}

// Register creates an owner with email = unverified_email = seed and issues
// the initial verification token. Owner row and token are written in one
// transaction.
func (s *Accounts) Register(ctx context.Context, email, password string) (model.Owner, *IssuedToken, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return model.Owner{}, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var owner model.Owner
	var issued *IssuedToken
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		seed := email
		now := time.Now()
		saved, err := s.owners.Create(ctx, model.Owner{
			ID:              uuid.New(),
			Email:           email,
			UnverifiedEmail: &seed,
			PasswordHash:    hash,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return fmt.Errorf("failed to create owner: %w", err)
		}

		issued, err = s.tokens.Issue(ctx, saved.ID, email)
		if err != nil {
			return err
		}

		owner = saved
		return nil
	})
	if err != nil {
		return model.Owner{}, nil, err
	}

	s.logger.Info("Accounts service: owner registered",
		"owner_id", owner.ID)

	return owner, issued, nil
}
