// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenVerifier resolves a bearer token to the e-mail it was issued for.
type TokenVerifier interface {
	Authenticate(token string) (string, error)
}

// BearerAuth rejects requests without a valid "Authorization: Bearer <token>"
// header with 401. On success the user's e-mail is stored in the request
// context for GetUserEmailFromContext.
func BearerAuth(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			email, err := v.Authenticate(strings.TrimSpace(token))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserEmail(r.Context(), email)))
		})
	}
}

// WithUserEmail returns a copy of ctx carrying the authenticated e-mail.
func WithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userKey, email)
}

// GetUserEmailFromContext extracts the authenticated e-mail from the request
// context. Returns an empty string if not found.
func GetUserEmailFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
