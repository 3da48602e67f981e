// Package middleware gates protected routes behind the session cookie
// and makes the authenticated user available on the request context.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/snapit-dev/snapit-backend/internal/httpx"
	"github.com/snapit-dev/snapit-backend/internal/models"
	"github.com/snapit-dev/snapit-backend/internal/store"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "jwt-snapit"

// TokenVerifier checks a session token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserStore loads the user a verified token refers to. The password
// hash must be excluded from the returned record.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type ctxKey int

const userKey ctxKey = iota

// UserFromContext returns the user RequireAuth attached, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok
}

// ContextWithUser attaches a user to the context. Exposed so handler
// tests can run without the middleware.
func ContextWithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// RequireAuth validates the session cookie, loads the referenced user
// and injects it into the request context. A missing or bad token is
// a 401; a valid token for an account that no longer exists is a 404,
// deliberately distinct.
func RequireAuth(tokens TokenVerifier, users UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				httpx.WriteMessage(w, http.StatusUnauthorized, "Unauthorized - You must be logged in")
				return
			}

			userID, err := tokens.Verify(cookie.Value)
			if err != nil {
				httpx.WriteMessage(w, http.StatusUnauthorized, "Unauthorized - Invalid token")
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if errors.Is(err, store.ErrNotFound) {
				httpx.WriteMessage(w, http.StatusNotFound, "User not found")
				return
			}
			if err != nil {
				httpx.WriteMessage(w, http.StatusInternalServerError, "Internal Server Error")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}
