package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/osokin/verity/internal/model"
)

var _ model.OwnerStore = (*OwnerRepository)(nil)

const ownerColumns = "id, email, unverified_email, password, created_at, updated_at"

// OwnerRepository persists token owners. The FOR UPDATE variants take an
// exclusive row lock and only make sense inside Connection.WithTx; outside a
// transaction the lock is released as soon as the statement completes.
type OwnerRepository struct {
	db *Connection
}

func NewOwnerRepository(db *Connection) *OwnerRepository {
	return &OwnerRepository{
		db: db,
	}
}

func scanOwner(row pgx.Row) (model.Owner, error) {
	var o model.Owner
	err := row.Scan(&o.ID, &o.Email, &o.UnverifiedEmail, &o.PasswordHash, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r *OwnerRepository) Create(ctx context.Context, owner model.Owner) (model.Owner, error) {
	if owner.ID == uuid.Nil {
		owner.ID = uuid.New()
	}

	query := `INSERT INTO users (id, email, unverified_email, password, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + ownerColumns

	saved, err := scanOwner(r.db.q(ctx).QueryRow(ctx, query,
		owner.ID, owner.Email, owner.UnverifiedEmail, owner.PasswordHash, owner.CreatedAt, owner.UpdatedAt,
	))
	if err != nil {
		return model.Owner{}, fmt.Errorf("failed to create owner: %w", err)
	}

	return saved, nil
}

func (r *OwnerRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM users WHERE id = $1`

	owner, err := scanOwner(r.db.q(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Owner{}, model.ErrNotFound
		}
		return model.Owner{}, fmt.Errorf("failed to get owner by id: %w", err)
	}

	return owner, nil
}

func (r *OwnerRepository) GetByEmail(ctx context.Context, email string) (model.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM users WHERE email = $1`

	owner, err := scanOwner(r.db.q(ctx).QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Owner{}, model.ErrNotFound
		}
		return model.Owner{}, fmt.Errorf("failed to get owner by email: %w", err)
	}

	return owner, nil
}

func (r *OwnerRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (model.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	owner, err := scanOwner(r.db.q(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Owner{}, model.ErrNotFound
		}
		return model.Owner{}, fmt.Errorf("failed to lock owner row: %w", err)
	}

	return owner, nil
}

// GetPendingForUpdate locks the owner row only when its pending address still
// equals email. A miss means the pending email moved on since the token was
// issued.
func (r *OwnerRepository) GetPendingForUpdate(ctx context.Context, id uuid.UUID, email string) (model.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM users WHERE id = $1 AND unverified_email = $2 FOR UPDATE`

	owner, err := scanOwner(r.db.q(ctx).QueryRow(ctx, query, id, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Owner{}, model.ErrNotFound
		}
		return model.Owner{}, fmt.Errorf("failed to lock pending owner row: %w", err)
	}

	return owner, nil
}

func (r *OwnerRepository) Update(ctx context.Context, owner model.Owner) error {
	query := `UPDATE users SET email = $2, unverified_email = $3, password = $4, updated_at = NOW()
			  WHERE id = $1`

	tag, err := r.db.q(ctx).Exec(ctx, query,
		owner.ID, owner.Email, owner.UnverifiedEmail, owner.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update owner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
