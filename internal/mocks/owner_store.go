package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/osokin/verity/internal/model"
)

var _ model.OwnerStore = (*OwnerStore)(nil)

// OwnerStore is a mock implementation of model.OwnerStore.
type OwnerStore struct {
	mock.Mock
}

func (m *OwnerStore) Create(ctx context.Context, owner model.Owner) (model.Owner, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(model.Owner), args.Error(1)
}

func (m *OwnerStore) GetByID(ctx context.Context, id uuid.UUID) (model.Owner, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Owner), args.Error(1)
}

func (m *OwnerStore) GetByEmail(ctx context.Context, email string) (model.Owner, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.Owner), args.Error(1)
}

func (m *OwnerStore) GetForUpdate(ctx context.Context, id uuid.UUID) (model.Owner, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Owner), args.Error(1)
}

func (m *OwnerStore) GetPendingForUpdate(ctx context.Context, id uuid.UUID, email string) (model.Owner, error) {
	args := m.Called(ctx, id, email)
	return args.Get(0).(model.Owner), args.Error(1)
}

func (m *OwnerStore) Update(ctx context.Context, owner model.Owner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}
