package auth

import (
	"context"
	"net/http"
	"strings"

	"ShopEase/pkg/kit"
)

type ctxKey string

const claimsKey ctxKey = "claims"

func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(claimsKey).(Claims)
	return c, ok
}

// AuthJWT requires a valid bearer token and stores its claims in the request context.
func AuthJWT(jwt *TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
				return
			}

			claims, err := jwt.Parse(raw)
			if err != nil {
				kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole runs after AuthJWT and rejects tokens issued for another role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := ClaimsFromContext(r.Context())
			if !ok {
				kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
				return
			}
			if c.Role != role {
				kit.WriteError(w, r, http.StatusForbidden, "forbidden", map[string]any{"required_role": role})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin combines AuthJWT and RequireRole(RoleAdmin).
func RequireAdmin(jwt *TokenMaker) func(http.Handler) http.Handler {
	authn, authz := AuthJWT(jwt), RequireRole(RoleAdmin)
	return func(next http.Handler) http.Handler {
		return authn(authz(next))
	}
}
