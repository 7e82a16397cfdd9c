package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osokin/verity/internal/model"
)

// In-memory stores for scenario tests that need real state across calls.
// Simple error-path tests use the testify mocks from internal/mocks instead.

type memTokenStore struct {
	mu     sync.Mutex
	tokens []model.Token
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{}
}

func (s *memTokenStore) Create(_ context.Context, token model.Token) (model.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	s.tokens = append(s.tokens, token)
	return token, nil
}

func (s *memTokenStore) GetByID(_ context.Context, id uuid.UUID) (model.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Token{}, model.ErrNotFound
}

func (s *memTokenStore) GetByOwner(_ context.Context, ownerID, id uuid.UUID) (model.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.OwnerID == ownerID && t.ID == id {
			return t, nil
		}
	}
	return model.Token{}, model.ErrNotFound
}

func (s *memTokenStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Token
	for i := len(s.tokens) - 1; i >= 0; i-- {
		if s.tokens[i].OwnerID == ownerID {
			out = append(out, s.tokens[i])
		}
	}
	return out, nil
}

func (s *memTokenStore) DeleteByOwner(_ context.Context, ownerID, id uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []model.Token
	var deleted int64
	for _, t := range s.tokens {
		if t.OwnerID == ownerID && t.ID == id {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	s.tokens = kept
	return deleted, nil
}

func (s *memTokenStore) DeleteAllByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []model.Token
	var deleted int64
	for _, t := range s.tokens {
		if t.OwnerID == ownerID {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	s.tokens = kept
	return deleted, nil
}

func (s *memTokenStore) LastCreatedAtByOwner(_ context.Context, ownerID uuid.UUID) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var last *time.Time
	for _, t := range s.tokens {
		if t.OwnerID != ownerID {
			continue
		}
		createdAt := t.CreatedAt
		if last == nil || createdAt.After(*last) {
			last = &createdAt
		}
	}
	return last, nil
}

func (s *memTokenStore) count(ownerID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tokens {
		if t.OwnerID == ownerID {
			n++
		}
	}
	return n
}

type memOwnerStore struct {
	mu     sync.Mutex
	owners map[uuid.UUID]model.Owner
}

func newMemOwnerStore() *memOwnerStore {
	return &memOwnerStore{owners: make(map[uuid.UUID]model.Owner)}
}

func copyOwner(o model.Owner) model.Owner {
	if o.UnverifiedEmail != nil {
		email := *o.UnverifiedEmail
		o.UnverifiedEmail = &email
	}
	return o
}

func (s *memOwnerStore) Create(_ context.Context, owner model.Owner) (model.Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if owner.ID == uuid.Nil {
		owner.ID = uuid.New()
	}
	s.owners[owner.ID] = copyOwner(owner)
	return owner, nil
}

func (s *memOwnerStore) GetByID(_ context.Context, id uuid.UUID) (model.Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.owners[id]
	if !ok {
		return model.Owner{}, model.ErrNotFound
	}
	return copyOwner(owner), nil
}

func (s *memOwnerStore) GetByEmail(_ context.Context, email string) (model.Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, owner := range s.owners {
		if owner.Email == email {
			return copyOwner(owner), nil
		}
	}
	return model.Owner{}, model.ErrNotFound
}

func (s *memOwnerStore) GetForUpdate(ctx context.Context, id uuid.UUID) (model.Owner, error) {
	return s.GetByID(ctx, id)
}

func (s *memOwnerStore) GetPendingForUpdate(_ context.Context, id uuid.UUID, email string) (model.Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.owners[id]
	if !ok || owner.UnverifiedEmail == nil || *owner.UnverifiedEmail != email {
		return model.Owner{}, model.ErrNotFound
	}
	return copyOwner(owner), nil
}

func (s *memOwnerStore) Update(_ context.Context, owner model.Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.owners[owner.ID]; !ok {
		return model.ErrNotFound
	}
	s.owners[owner.ID] = copyOwner(owner)
	return nil
}

// fakeTx satisfies model.TxRunner without a database; fn runs directly.
type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeHasher stands in for the delegated credential facility.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}
