// Package mocks provides testify mocks for the model interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/osokin/verity/internal/model"
)

var _ model.TokenStore = (*TokenStore)(nil)

// TokenStore is a mock implementation of model.TokenStore.
type TokenStore struct {
	mock.Mock
}

func (m *TokenStore) Create(ctx context.Context, token model.Token) (model.Token, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.Token), args.Error(1)
}

func (m *TokenStore) GetByID(ctx context.Context, id uuid.UUID) (model.Token, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Token), args.Error(1)
}

func (m *TokenStore) GetByOwner(ctx context.Context, ownerID, id uuid.UUID) (model.Token, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Get(0).(model.Token), args.Error(1)
}

func (m *TokenStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Token, error) {
	args := m.Called(ctx, ownerID)
	var tokens []model.Token
	if v := args.Get(0); v != nil {
		tokens = v.([]model.Token)
	}
	return tokens, args.Error(1)
}

func (m *TokenStore) DeleteByOwner(ctx context.Context, ownerID, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TokenStore) DeleteAllByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TokenStore) LastCreatedAtByOwner(ctx context.Context, ownerID uuid.UUID) (*time.Time, error) {
	args := m.Called(ctx, ownerID)
	var last *time.Time
	if v := args.Get(0); v != nil {
		last = v.(*time.Time)
	}
	return last, args.Error(1)
}
