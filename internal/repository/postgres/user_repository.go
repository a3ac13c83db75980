package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blogapp/backend/internal/domain"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, refresh_tokens, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.RefreshTokens,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, refresh_tokens, created_at, updated_at)
		VALUES ($1, $2, $3, '{}', $4, $5)
	`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.RefreshTokens,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET email = $2, updated_at = $3 WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := r.db.Exec(ctx, query, user.ID, user.Email, user.UpdatedAt)
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *UserRepository) AppendRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	query := `UPDATE users SET refresh_tokens = array_append(refresh_tokens, $2) WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, token)
	return err
}

// RemoveRefreshToken removes token from the user's set. The membership
// guard makes the check-and-remove a single atomic statement; the result
// reports whether the token was present when the update ran.
func (r *UserRepository) RemoveRefreshToken(ctx context.Context, id uuid.UUID, token string) (bool, error) {
	query := `
		UPDATE users SET refresh_tokens = array_remove(refresh_tokens, $2)
		WHERE id = $1 AND $2 = ANY(refresh_tokens)
	`
	tag, err := r.db.Exec(ctx, query, id, token)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// RotateRefreshToken swaps oldToken for newToken in one statement, guarded
// on oldToken still being a member. Two racing redemptions of the same
// token cannot both succeed.
func (r *UserRepository) RotateRefreshToken(ctx context.Context, id uuid.UUID, oldToken, newToken string) (bool, error) {
	query := `
		UPDATE users SET refresh_tokens = array_append(array_remove(refresh_tokens, $2), $3)
		WHERE id = $1 AND $2 = ANY(refresh_tokens)
	`
	tag, err := r.db.Exec(ctx, query, id, oldToken, newToken)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepository) ClearRefreshTokens(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET refresh_tokens = '{}' WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
