package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osokin/verity/internal/mocks"
	"github.com/osokin/verity/internal/model"
	"github.com/osokin/verity/internal/testutil"
)

type passwordResetHarness struct {
	owners *memOwnerStore
	store  *memTokenStore
	svc    *PasswordReset
	clock  *time.Time
}

func newPasswordResetHarness(t *testing.T) *passwordResetHarness {
	t.Helper()
	clock := time.Now()
	owners := newMemOwnerStore()
	store := newMemTokenStore()
	tokens := newTestVerification(store, 20*time.Minute, &clock)
	return &passwordResetHarness{
		owners: owners,
		store:  store,
		svc:    NewPasswordReset(owners, tokens, fakeHasher{}, fakeTx{}, testutil.MakeNoopLogger()),
		clock:  &clock,
	}
}

func TestPasswordReset_RequestAndReset(t *testing.T) {
	ctx := context.Background()
	h := newPasswordResetHarness(t)
	owner, err := h.owners.Create(ctx, model.Owner{ID: uuid.New(), Email: "a@x.com", PasswordHash: "hashed:old"})
	require.NoError(t, err)

	issued, err := h.svc.Request(ctx, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, issued)
	assert.Empty(t, issued.Token.Email)

	err = h.svc.Reset(ctx, issued.Value, "new-password")
	require.NoError(t, err)

	got, err := h.owners.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed:new-password", got.PasswordHash)
	assert.Zero(t, h.store.count(owner.ID))

	// Single use: the same value fails once consumed.
	err = h.svc.Reset(ctx, issued.Value, "another")
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestPasswordReset_Request_Throttled(t *testing.T) {
	ctx := context.Background()
	h := newPasswordResetHarness(t)
	owner, err := h.owners.Create(ctx, model.Owner{ID: uuid.New(), Email: "a@x.com"})
	require.NoError(t, err)

	first, err := h.svc.Request(ctx, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := h.svc.Request(ctx, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, second)
	assert.Equal(t, 1, h.store.count(owner.ID))

	*h.clock = h.clock.Add(61 * time.Second)
	third, err := h.svc.Request(ctx, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, third)
}

func TestPasswordReset_Reset_InvalidToken(t *testing.T) {
	ctx := context.Background()
	h := newPasswordResetHarness(t)

	err := h.svc.Reset(ctx, "garbage", "new-password")
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestPasswordReset_Reset_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	h := newPasswordResetHarness(t)
	owner, err := h.owners.Create(ctx, model.Owner{ID: uuid.New(), Email: "a@x.com", PasswordHash: "hashed:old"})
	require.NoError(t, err)

	issued, err := h.svc.Request(ctx, owner.ID)
	require.NoError(t, err)

	*h.clock = h.clock.Add(21 * time.Minute)
	err = h.svc.Reset(ctx, issued.Value, "new-password")
	require.ErrorIs(t, err, model.ErrInvalidToken)

	got, err := h.owners.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed:old", got.PasswordHash)
}

func TestPasswordReset_Reset_OwnerVanished(t *testing.T) {
	ctx := context.Background()
	clock := time.Now()
	store := newMemTokenStore()
	tokens := newTestVerification(store, 20*time.Minute, &clock)

	// Token exists but its owner row does not.
	svc := NewPasswordReset(newMemOwnerStore(), tokens, fakeHasher{}, fakeTx{}, testutil.MakeNoopLogger())
	issued, err := tokens.Issue(ctx, uuid.New(), "")
	require.NoError(t, err)

	err = svc.Reset(ctx, issued.Value, "new-password")
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestPasswordReset_Reset_HasherFailure(t *testing.T) {
	ctx := context.Background()
	clock := time.Now()
	owners := newMemOwnerStore()
	store := newMemTokenStore()
	tokens := newTestVerification(store, 20*time.Minute, &clock)

	hasher := &mocks.PasswordHasher{}
	hasher.On("Hash", "new-password").Return("", assert.AnError).Once()

	svc := NewPasswordReset(owners, tokens, hasher, fakeTx{}, testutil.MakeNoopLogger())
	owner, err := owners.Create(ctx, model.Owner{ID: uuid.New(), Email: "a@x.com", PasswordHash: "hashed:old"})
	require.NoError(t, err)

	issued, err := svc.Request(ctx, owner.ID)
	require.NoError(t, err)

	err = svc.Reset(ctx, issued.Value, "new-password")
	require.Error(t, err)
	require.NotErrorIs(t, err, model.ErrInvalidToken)

	got, err := owners.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed:old", got.PasswordHash)
}
