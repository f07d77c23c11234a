package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/veiling/veiling-be/internal/auth"
	"github.com/veiling/veiling-be/internal/http/respond"
)

// TokenParser validates a raw session token.
type TokenParser interface {
	Parse(raw string) (auth.Claims, error)
}

type claimsKey struct{}

// RequireBearer rejects requests without a valid "Authorization: Bearer"
// token and stores the parsed claims in the request context.
func RequireBearer(tokens TokenParser, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respond.Error(w, http.StatusUnauthorized, "missing authorization header")
			return
		}
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(raw) == "" {
			respond.Error(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}
		claims, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

// ClaimsFromContext returns the claims stored by RequireBearer.
func ClaimsFromContext(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(auth.Claims)
	return c, ok
}
