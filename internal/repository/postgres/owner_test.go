package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOwnerRepository(t *testing.T) {
	db := &Connection{}
	repo := NewOwnerRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}
