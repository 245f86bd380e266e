package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/promptpix/promptpix/internal/domain"
	"github.com/promptpix/promptpix/internal/service"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if no user is authenticated.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

// RequireAuth is middleware that protects routes requiring authentication.
// It accepts a Bearer token in the Authorization header with an auth_token
// cookie fallback, validates the JWT, loads the user, and injects it into
// the request context. Unauthenticated requests get a 401 envelope.
func RequireAuth(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := authenticateRequest(r, auth)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Not authorized. Login again.")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func authenticateRequest(r *http.Request, auth *service.AuthService) (*domain.User, error) {
	token := ""

	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		token = strings.TrimPrefix(header, "Bearer ")
	}

	if token == "" {
		cookie, err := r.Cookie("auth_token")
		if err != nil {
			return nil, err
		}
		token = cookie.Value
	}

	userID, err := auth.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	return auth.GetUserByID(r.Context(), userID)
}
