package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/vestibule-auth/vestibule/internal/models"
)

// contextKey is a custom type for context keys
type contextKey string

// ClaimsContextKey is the key for storing token claims in context
const ClaimsContextKey contextKey = "claims"

// RequestToucher is the hook the middleware calls on every
// authenticated request so the account's last_request_at bookkeeping
// can run. The allowed predicate carries the request layer's veto.
type RequestToucher interface {
	TouchAccount(ctx context.Context, accountID string, allowed func() bool) error
}

// ClaimsFromContext returns the token claims stored by Middleware.
func ClaimsFromContext(ctx context.Context) (*models.TokenClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*models.TokenClaims)
	return claims, ok
}

// TouchExemptPaths builds a veto predicate from a set of request paths
// that must never bump last_request_at: non-interactive polling
// endpoints whose traffic says nothing about the user being present.
func TouchExemptPaths(paths ...string) func(r *http.Request) bool {
	exempt := make(map[string]bool, len(paths))
	for _, p := range paths {
		exempt[p] = true
	}
	return func(r *http.Request) bool {
		return exempt[r.URL.Path]
	}
}

// Middleware validates bearer tokens, injects claims into the request
// context and runs last-request bookkeeping through the toucher (nil
// disables touching). touchExempt is the request layer's veto; nil
// means no request is exempt. Touch failures are not fatal to the
// request; the toucher is expected to log them.
func Middleware(tm *TokenManager, toucher RequestToucher, touchExempt func(r *http.Request) bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := tm.ValidateToken(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			// Refresh tokens are only good for the refresh endpoint.
			if claims.Type == "refresh" {
				http.Error(w, "refresh tokens cannot be used for API access", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)

			if toucher != nil {
				_ = toucher.TouchAccount(ctx, claims.AccountID, func() bool {
					return touchExempt == nil || !touchExempt(r)
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
