package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/osokin/verity/internal/model"
)

var _ model.PasswordHasher = (*PasswordHasher)(nil)

// PasswordHasher is a mock implementation of model.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}
