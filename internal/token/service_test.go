package token_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/blogapp/backend/internal/config"
	"github.com/blogapp/backend/internal/token"
)

func newService(secret string) *token.Service {
	return token.NewService(&config.JWTConfig{
		Secret:     secret,
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})
}

func TestIssuePair(t *testing.T) {
	svc := newService("test-secret")
	userID := uuid.New()

	pair, err := svc.IssuePair(userID)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := svc.Verify(pair.AccessToken)
	require.NoError(t, err)
	refresh, err := svc.Verify(pair.RefreshToken)
	require.NoError(t, err)

	require.Equal(t, userID.String(), access.Subject)
	require.Equal(t, userID.String(), refresh.Subject)

	// One nonce per pair: concurrently issued pairs never collide.
	require.NotEmpty(t, access.Nonce)
	require.Equal(t, access.Nonce, refresh.Nonce)

	id, err := access.UserID()
	require.NoError(t, err)
	require.Equal(t, userID, id)
}

func TestIssuePairDistinctNonces(t *testing.T) {
	svc := newService("test-secret")
	userID := uuid.New()

	first, err := svc.IssuePair(userID)
	require.NoError(t, err)
	second, err := svc.IssuePair(userID)
	require.NoError(t, err)

	require.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestIssuePairMisconfigured(t *testing.T) {
	cases := []config.JWTConfig{
		{Secret: "", AccessTTL: time.Minute, RefreshTTL: time.Hour},
		{Secret: "s", AccessTTL: 0, RefreshTTL: time.Hour},
		{Secret: "s", AccessTTL: time.Minute, RefreshTTL: 0},
	}
	for _, cfg := range cases {
		svc := token.NewService(&cfg)
		_, err := svc.IssuePair(uuid.New())
		require.ErrorIs(t, err, token.ErrMisconfigured)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := newService("test-secret")
	_, err := svc.Verify("not-a-jwt")
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	pair, err := newService("secret-a").IssuePair(uuid.New())
	require.NoError(t, err)

	_, err = newService("secret-b").Verify(pair.AccessToken)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	svc := token.NewService(&config.JWTConfig{
		Secret:     "test-secret",
		AccessTTL:  time.Nanosecond,
		RefreshTTL: time.Hour,
	})

	pair, err := svc.IssuePair(uuid.New())
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	_, err = svc.Verify(pair.AccessToken)
	require.ErrorIs(t, err, token.ErrInvalidToken)

	// The refresh token of the same pair is still good.
	_, err = svc.Verify(pair.RefreshToken)
	require.NoError(t, err)
}

func TestVerifyMissingSecret(t *testing.T) {
	svc := newService("")
	_, err := svc.Verify("anything")
	require.ErrorIs(t, err, token.ErrMisconfigured)
}
