// Package verity issues, stores, and verifies single-use opaque tokens that
// authorize email confirmation and password reset. The public token value is
// "<base64url(id)>.<base64url(secret)>"; only the secret's hash is persisted.
// Delivery of the value to the user (email, SMS) is the application's job.
package verity

import (
	"context"

	"github.com/osokin/verity/internal/config"
	"github.com/osokin/verity/internal/logger"
	"github.com/osokin/verity/internal/model"
	"github.com/osokin/verity/internal/repository/postgres"
	"github.com/osokin/verity/internal/service"
)

// Aliases exposing the model and service types the application layer works
// with.
type (
	Token              = model.Token
	Owner              = model.Owner
	PasswordHasher     = model.PasswordHasher
	IssuedToken        = service.IssuedToken
	EmailChangeResult  = service.EmailChangeResult
	EmailChangeOutcome = service.EmailChangeOutcome
)

const (
	EmailChangeSkipped  = service.EmailChangeSkipped
	EmailChangeReverted = service.EmailChangeReverted
	EmailChangeIssued   = service.EmailChangeIssued
)

var (
	ErrNotFound     = model.ErrNotFound
	ErrInvalidToken = model.ErrInvalidToken
	ErrInvalidOwner = model.ErrInvalidOwner
)

// Config holds the library settings.
type Config = config.Config

// LoadConfig loads settings from the environment.
func LoadConfig() (*Config, error) {
	return config.NewConfig()
}

// Service wires the token stores and reconciliation services over one
// database connection. The password hasher is the caller's credential
// facility; tokens never depend on it.
type Service struct {
	EmailTokens   *service.Verification
	ResetTokens   *service.Verification
	EmailChange   *service.EmailChange
	PasswordReset *service.PasswordReset
	Accounts      *service.Accounts

	db *postgres.Connection
}

// New connects to the database at cfg.Database.DSN, applies migrations, and
// assembles the services.
func New(ctx context.Context, cfg *Config, hasher PasswordHasher) (*Service, error) {
	log := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	ownerRepo := postgres.NewOwnerRepository(db)
	throttle := service.NewThrottle(cfg.Token.IssueCooldown)

	emailTokens := service.NewVerification(
		postgres.NewEmailTokenRepository(db), throttle, cfg.Token.EmailTTL, cfg.Token.SecretLength, log)
	resetTokens := service.NewVerification(
		postgres.NewResetTokenRepository(db), throttle, cfg.Token.ResetTTL, cfg.Token.SecretLength, log)

	return &Service{
		EmailTokens:   emailTokens,
		ResetTokens:   resetTokens,
		EmailChange:   service.NewEmailChange(ownerRepo, emailTokens, db, log),
		PasswordReset: service.NewPasswordReset(ownerRepo, resetTokens, hasher, db, log),
		Accounts:      service.NewAccounts(ownerRepo, emailTokens, hasher, db, log),
		db:            db,
	}, nil
}

// Close releases the database connection.
func (s *Service) Close() error {
	return s.db.Close()
}
