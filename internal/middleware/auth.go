package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/blogapp/backend/internal/usecase"
)

type contextKey string

const UserIDKey contextKey = "userID"

type AuthMiddleware struct {
	authUsecase *usecase.AuthUsecase
}

func NewAuthMiddleware(authUsecase *usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUsecase: authUsecase}
}

// Authenticate gates protected routes. The scheme text in the Authorization
// header is ignored; only the second whitespace-separated segment is used
// as the token. On success the verified subject is bound into the request
// context for downstream handlers.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "authorization header required")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) < 2 {
			writeError(w, http.StatusUnauthorized, "malformed authorization header")
			return
		}

		userID, err := m.authUsecase.VerifyAccessToken(parts[1])
		if err != nil {
			if errors.Is(err, usecase.ErrMisconfigured) {
				writeError(w, http.StatusInternalServerError, "server error")
				return
			}
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
