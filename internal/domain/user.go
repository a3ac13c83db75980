package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID `json:"_id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	RefreshTokens []string  `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserRepository is the credential store. Refresh-token mutations are
// conditional set operations: the membership check and the removal run as a
// single statement, and the bool result reports whether the token was
// actually present when the update executed.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error

	AppendRefreshToken(ctx context.Context, id uuid.UUID, token string) error
	RemoveRefreshToken(ctx context.Context, id uuid.UUID, token string) (bool, error)
	RotateRefreshToken(ctx context.Context, id uuid.UUID, oldToken, newToken string) (bool, error)
	ClearRefreshTokens(ctx context.Context, id uuid.UUID) error
}
