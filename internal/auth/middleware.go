package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey struct{}

var principalKey contextKey

// PrincipalFrom returns the authenticated principal attached to the context,
// if any.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}

// Authenticator parses a Bearer token when present and attaches the verified
// principal to the request context. Requests without a token pass through
// anonymously; gating happens in RequireRole.
func Authenticator(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(header, "Bearer "); ok {
				if principal, err := tokens.Verify(token); err == nil {
					ctx := context.WithValue(r.Context(), principalKey, principal)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects requests without a verified principal (401) or whose
// role is not in the allowed set (403). An empty set allows any
// authenticated principal.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				http.Error(w, "Unauthorized: missing or invalid token", http.StatusUnauthorized)
				return
			}
			if len(allowed) > 0 {
				if _, ok := allowed[principal.Role]; !ok {
					http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
