package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/osokin/verity/internal/model"
)

var _ model.TokenStore = (*TokenRepository)(nil)

// TokenRepository persists verification tokens. One implementation covers
// both tables: email_verification_tokens carries the address being confirmed,
// password_reset_tokens has no email column. Rows are insert-and-delete only,
// there is no update path.
type TokenRepository struct {
	db        *Connection
	table     string
	withEmail bool
}

// NewEmailTokenRepository returns the store backing email confirmation
// tokens.
func NewEmailTokenRepository(db *Connection) *TokenRepository {
	return &TokenRepository{db: db, table: "email_verification_tokens", withEmail: true}
}

// NewResetTokenRepository returns the store backing password reset tokens.
func NewResetTokenRepository(db *Connection) *TokenRepository {
	return &TokenRepository{db: db, table: "password_reset_tokens", withEmail: false}
}

func (r *TokenRepository) columns() string {
	if r.withEmail {
		return "id, tokenable_id, email, hash, created_at, expires_at"
	}
	return "id, tokenable_id, hash, created_at, expires_at"
}

func (r *TokenRepository) scan(row pgx.Row) (model.Token, error) {
	var t model.Token
	var err error
	if r.withEmail {
		err = row.Scan(&t.ID, &t.OwnerID, &t.Email, &t.SecretHash, &t.CreatedAt, &t.ExpiresAt)
	} else {
		err = row.Scan(&t.ID, &t.OwnerID, &t.SecretHash, &t.CreatedAt, &t.ExpiresAt)
	}
	return t, err
}

func (r *TokenRepository) Create(ctx context.Context, token model.Token) (model.Token, error) {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	var err error
	if r.withEmail {
		query := fmt.Sprintf(`INSERT INTO %s (id, tokenable_id, email, hash, created_at, expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`, r.table)
		_, err = r.db.q(ctx).Exec(ctx, query,
			token.ID, token.OwnerID, token.Email, token.SecretHash, token.CreatedAt, token.ExpiresAt,
		)
	} else {
		query := fmt.Sprintf(`INSERT INTO %s (id, tokenable_id, hash, created_at, expires_at)
			  VALUES ($1, $2, $3, $4, $5)`, r.table)
		_, err = r.db.q(ctx).Exec(ctx, query,
			token.ID, token.OwnerID, token.SecretHash, token.CreatedAt, token.ExpiresAt,
		)
	}
	if err != nil {
		return model.Token{}, fmt.Errorf("failed to create token: %w", err)
	}

	return token, nil
}

func (r *TokenRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Token, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, r.columns(), r.table)

	t, err := r.scan(r.db.q(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Token{}, model.ErrNotFound
		}
		return model.Token{}, fmt.Errorf("failed to get token by id: %w", err)
	}

	return t, nil
}

func (r *TokenRepository) GetByOwner(ctx context.Context, ownerID, id uuid.UUID) (model.Token, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE tokenable_id = $1 AND id = $2`, r.columns(), r.table)

	t, err := r.scan(r.db.q(ctx).QueryRow(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Token{}, model.ErrNotFound
		}
		return model.Token{}, fmt.Errorf("failed to get token by owner: %w", err)
	}

	return t, nil
}

func (r *TokenRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Token, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE tokenable_id = $1 ORDER BY created_at DESC`, r.columns(), r.table)

	rows, err := r.db.q(ctx).Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens by owner: %w", err)
	}
	defer rows.Close()

	var tokens []model.Token
	for rows.Next() {
		t, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tokens by owner: %w", err)
	}

	return tokens, nil
}

func (r *TokenRepository) DeleteByOwner(ctx context.Context, ownerID, id uuid.UUID) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE tokenable_id = $1 AND id = $2`, r.table)

	tag, err := r.db.q(ctx).Exec(ctx, query, ownerID, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete token: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *TokenRepository) DeleteAllByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE tokenable_id = $1`, r.table)

	tag, err := r.db.q(ctx).Exec(ctx, query, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tokens by owner: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *TokenRepository) LastCreatedAtByOwner(ctx context.Context, ownerID uuid.UUID) (*time.Time, error) {
	query := fmt.Sprintf(`SELECT created_at FROM %s WHERE tokenable_id = $1 ORDER BY created_at DESC LIMIT 1`, r.table)

	var createdAt time.Time
	err := r.db.q(ctx).QueryRow(ctx, query, ownerID).Scan(&createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last token creation time: %w", err)
	}

	return &createdAt, nil
}
