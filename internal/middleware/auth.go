// internal/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/adstation/campaign-backend/internal/auth"
	"github.com/adstation/campaign-backend/internal/model"
	"github.com/adstation/campaign-backend/internal/repository"
)

type contextKey string

const userContextKey contextKey = "current_user"

// RequireAuth parses the bearer token and loads the current user row into the
// request context. Authorization decisions always run against the fresh user
// row, not the token claims.
func RequireAuth(jwtSecret string, users repository.UserRepositoryInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			userID, err := auth.ParseToken(jwtSecret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			user, err := users.GetByID(userID)
			if err != nil {
				http.Error(w, "unknown user", http.StatusUnauthorized)
				return
			}
			if !user.IsActive {
				http.Error(w, "account disabled", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the authenticated user placed by RequireAuth.
func CurrentUser(r *http.Request) *model.User {
	user, _ := r.Context().Value(userContextKey).(*model.User)
	return user
}

// WithUser injects a user into a request context. Used by tests and internal
// calls that bypass the HTTP middleware.
func WithUser(r *http.Request, u *model.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userContextKey, u))
}
