package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/blogapp/backend/internal/config"
	"github.com/blogapp/backend/internal/middleware"
	"github.com/blogapp/backend/internal/token"
	"github.com/blogapp/backend/internal/usecase"
)

func newMiddleware(cfg *config.JWTConfig) (*middleware.AuthMiddleware, *token.Service) {
	svc := token.NewService(cfg)
	auth := usecase.NewAuthUsecase(nil, svc, zap.NewNop())
	return middleware.NewAuthMiddleware(auth), svc
}

func protected(t *testing.T, m *middleware.AuthMiddleware) (http.Handler, *uuid.UUID) {
	t.Helper()
	var captured uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.GetUserID(r.Context())
		require.True(t, ok)
		captured = id
		w.WriteHeader(http.StatusOK)
	})
	return m.Authenticate(next), &captured
}

func request(header string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/posts", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	return req
}

func TestAuthenticateBindsPrincipal(t *testing.T) {
	m, svc := newMiddleware(&config.JWTConfig{
		Secret: "test-secret", AccessTTL: time.Minute, RefreshTTL: time.Hour,
	})
	userID := uuid.New()
	pair, err := svc.IssuePair(userID)
	require.NoError(t, err)

	handler, captured := protected(t, m)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request("Bearer "+pair.AccessToken))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, userID, *captured)
}

func TestAuthenticateIgnoresSchemeText(t *testing.T) {
	m, svc := newMiddleware(&config.JWTConfig{
		Secret: "test-secret", AccessTTL: time.Minute, RefreshTTL: time.Hour,
	})
	pair, err := svc.IssuePair(uuid.New())
	require.NoError(t, err)

	handler, _ := protected(t, m)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request("JWT "+pair.AccessToken))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateMissingHeader(t *testing.T) {
	m, _ := newMiddleware(&config.JWTConfig{
		Secret: "test-secret", AccessTTL: time.Minute, RefreshTTL: time.Hour,
	})

	handler, _ := protected(t, m)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request(""))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	m, _ := newMiddleware(&config.JWTConfig{
		Secret: "test-secret", AccessTTL: time.Minute, RefreshTTL: time.Hour,
	})

	handler, _ := protected(t, m)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request("Bearer"))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	m, _ := newMiddleware(&config.JWTConfig{
		Secret: "test-secret", AccessTTL: time.Minute, RefreshTTL: time.Hour,
	})

	handler, _ := protected(t, m)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request("Bearer garbage"))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	m, svc := newMiddleware(&config.JWTConfig{
		Secret: "test-secret", AccessTTL: time.Nanosecond, RefreshTTL: time.Hour,
	})
	pair, err := svc.IssuePair(uuid.New())
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	// The stale access token is rejected here; the client is expected to
	// redeem its still-valid refresh token instead.
	handler, _ := protected(t, m)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request("Bearer "+pair.AccessToken))

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	_, err = svc.Verify(pair.RefreshToken)
	require.NoError(t, err)
}

func TestAuthenticateMissingSecret(t *testing.T) {
	m, _ := newMiddleware(&config.JWTConfig{
		AccessTTL: time.Minute, RefreshTTL: time.Hour,
	})

	handler, _ := protected(t, m)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request("Bearer anything"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
