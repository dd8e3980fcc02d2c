// Package api implements the Daymark REST API using chi.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/mirrwin/daymark/internal/auth"
	"github.com/mirrwin/daymark/internal/models"
)

type ctxKey int

const claimsKey ctxKey = iota

// RequireAuth returns middleware that validates a Bearer JWT and stores its
// claims in the request context.
func RequireAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFrom returns the authenticated claims stored by RequireAuth, or nil.
func ClaimsFrom(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// UserGetter looks up users for role checks.
type UserGetter interface {
	GetUser(id string) (*models.User, error)
}

// RequireAdmin gates a route group to ADMIN users. The role is re-read from
// the store so demotion takes effect before the token expires.
func RequireAdmin(users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFrom(r.Context())
			if claims == nil {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			u, err := users.GetUser(claims.UserID)
			if err != nil || u.Role != models.RoleAdmin {
				writeJSON(w, http.StatusForbidden, errorBody("admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
