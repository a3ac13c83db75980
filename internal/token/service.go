package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/blogapp/backend/internal/config"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMisconfigured = errors.New("jwt secret or expiry not configured")
)

// Claims is the payload shared by access and refresh tokens. Nonce
// distinguishes pairs issued in the same instant for the same subject.
type Claims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Service struct {
	cfg *config.JWTConfig
}

func NewService(cfg *config.JWTConfig) *Service {
	return &Service{cfg: cfg}
}

// IssuePair signs an access/refresh token pair for userID with a shared
// random nonce and distinct lifetimes. Returns ErrMisconfigured when the
// secret or either TTL is absent; that is an operator error, not a
// per-request one.
func (s *Service) IssuePair(userID uuid.UUID) (*Pair, error) {
	if s.cfg.Secret == "" || s.cfg.AccessTTL <= 0 || s.cfg.RefreshTTL <= 0 {
		return nil, ErrMisconfigured
	}

	nonce := uuid.NewString()

	access, err := s.sign(userID, nonce, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(userID, nonce, s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}

	return &Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) sign(userID uuid.UUID, nonce string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}

// Verify checks signature and expiry and returns the claims. Any parse or
// validation failure collapses to ErrInvalidToken.
func (s *Service) Verify(raw string) (*Claims, error) {
	if s.cfg.Secret == "" {
		return nil, ErrMisconfigured
	}

	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Subject parses the claim subject as a user ID.
func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
