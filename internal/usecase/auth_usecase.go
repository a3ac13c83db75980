package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/blogapp/backend/internal/domain"
	"github.com/blogapp/backend/internal/token"
)

var (
	ErrInvalidCredentials = errors.New("user or password incorrect")
	ErrEmailExists        = errors.New("email already exists")
	ErrMissingToken       = errors.New("refresh token is required")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenReused        = errors.New("refresh token not in active set")
	ErrUserNotFound       = errors.New("user not found")
	ErrMisconfigured      = errors.New("server misconfigured")
)

const uniqueViolation = "23505"

type AuthUsecase struct {
	userRepo domain.UserRepository
	tokens   *token.Service
	log      *zap.Logger
}

func NewAuthUsecase(userRepo domain.UserRepository, tokens *token.Service, log *zap.Logger) *AuthUsecase {
	return &AuthUsecase{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log,
	}
}

type LoginResult struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	UserID       uuid.UUID `json:"_id"`
}

// Register stores a new user with a bcrypt-hashed password. Email
// uniqueness is enforced by the store's constraint rather than a lookup, so
// two concurrent registrations cannot both pass a pre-check.
func (u *AuthUsecase) Register(ctx context.Context, email, password string) (*domain.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hashed),
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and appends a fresh refresh token to the
// user's set. An unknown email and a wrong password are indistinguishable
// to the caller.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	pair, err := u.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, ErrMisconfigured
	}

	// Append, not replace: the user may hold sessions on several devices.
	if err := u.userRepo.AppendRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserID:       user.ID,
	}, nil
}

// tokenState classifies a submitted refresh token from the server's point
// of view.
type tokenState int

const (
	tokenInvalid tokenState = iota
	tokenReused
	tokenValid
)

// classify verifies signature and expiry, resolves the claimed owner and
// checks set membership. A structurally valid token that is absent from its
// owner's set is classified as reused: the strongest available signal that
// the token leaked and was replayed.
func (u *AuthUsecase) classify(ctx context.Context, raw string) (*domain.User, tokenState, error) {
	claims, err := u.tokens.Verify(raw)
	if err != nil {
		if errors.Is(err, token.ErrMisconfigured) {
			return nil, tokenInvalid, ErrMisconfigured
		}
		return nil, tokenInvalid, ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, tokenInvalid, ErrInvalidToken
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, tokenInvalid, err
	}
	if user == nil {
		return nil, tokenInvalid, ErrUserNotFound
	}

	for _, t := range user.RefreshTokens {
		if t == raw {
			return user, tokenValid, nil
		}
	}
	return user, tokenReused, nil
}

// revokeAll clears the user's entire refresh-token set, ending every active
// session. Called on replay detection before the error is returned, so the
// security consequence is never skipped.
func (u *AuthUsecase) revokeAll(ctx context.Context, user *domain.User) {
	if err := u.userRepo.ClearRefreshTokens(ctx, user.ID); err != nil {
		u.log.Error("failed to revoke sessions", zap.String("user_id", user.ID.String()), zap.Error(err))
		return
	}
	u.log.Warn("refresh token replay detected, all sessions revoked",
		zap.String("user_id", user.ID.String()))
}

// Logout removes the submitted refresh token from its owner's set. A token
// that verifies but is not in the set triggers revocation of all of the
// owner's sessions.
func (u *AuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrMissingToken
	}

	user, state, err := u.classify(ctx, refreshToken)
	if err != nil {
		return err
	}

	switch state {
	case tokenReused:
		u.revokeAll(ctx, user)
		return ErrTokenReused
	case tokenValid:
		removed, err := u.userRepo.RemoveRefreshToken(ctx, user.ID, refreshToken)
		if err != nil {
			return err
		}
		if !removed {
			// Lost the race to a concurrent redemption of the same token.
			u.revokeAll(ctx, user)
			return ErrTokenReused
		}
		return nil
	default:
		return ErrInvalidToken
	}
}

// Refresh redeems a refresh token for a new pair, rotating the stored token
// in a single conditional swap. Each issued refresh token can be redeemed
// exactly once; a replay revokes every session of the owner.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*token.Pair, error) {
	if refreshToken == "" {
		return nil, ErrMissingToken
	}

	user, state, err := u.classify(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	switch state {
	case tokenReused:
		u.revokeAll(ctx, user)
		return nil, ErrTokenReused
	case tokenValid:
		pair, err := u.tokens.IssuePair(user.ID)
		if err != nil {
			u.revokeAll(ctx, user)
			return nil, ErrMisconfigured
		}

		swapped, err := u.userRepo.RotateRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken)
		if err != nil {
			return nil, err
		}
		if !swapped {
			u.revokeAll(ctx, user)
			return nil, ErrTokenReused
		}
		return pair, nil
	default:
		return nil, ErrInvalidToken
	}
}

// VerifyAccessToken checks an access token and returns the authenticated
// principal. Used by the authorization middleware.
func (u *AuthUsecase) VerifyAccessToken(raw string) (uuid.UUID, error) {
	claims, err := u.tokens.Verify(raw)
	if err != nil {
		if errors.Is(err, token.ErrMisconfigured) {
			return uuid.Nil, ErrMisconfigured
		}
		return uuid.Nil, ErrInvalidToken
	}
	id, err := claims.UserID()
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

func (u *AuthUsecase) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return u.userRepo.List(ctx)
}

func (u *AuthUsecase) UpdateUser(ctx context.Context, user *domain.User) error {
	return u.userRepo.Update(ctx, user)
}

func (u *AuthUsecase) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return u.userRepo.Delete(ctx, id)
}
