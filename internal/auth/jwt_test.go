package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(ttl time.Duration) *TokenService {
	return NewTokenService("test-secret", "TestIssuer", "TestAudience", ttl)
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := newTestTokenService(time.Hour)

	signed, expires, err := tokens.Generate("admin", RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	principal, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "admin", principal.Name)
	assert.Equal(t, RoleAdmin, principal.Role)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tokens := newTestTokenService(-time.Minute)

	signed, _, err := tokens.Generate("user", RoleUser)
	require.NoError(t, err)

	_, err = tokens.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tokens := newTestTokenService(time.Hour)
	other := NewTokenService("other-secret", "TestIssuer", "TestAudience", time.Hour)

	signed, _, err := other.Generate("user", RoleUser)
	require.NoError(t, err)

	_, err = tokens.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tokens := newTestTokenService(time.Hour)
	_, err := tokens.Verify("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func callProtected(t *testing.T, tokens *TokenService, authHeader string, roles ...string) *httptest.ResponseRecorder {
	t.Helper()
	handler := Authenticator(tokens)(RequireRole(roles...)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRequireRole(t *testing.T) {
	tokens := newTestTokenService(time.Hour)

	adminToken, _, err := tokens.Generate("admin", RoleAdmin)
	require.NoError(t, err)
	userToken, _, err := tokens.Generate("user", RoleUser)
	require.NoError(t, err)

	// No token at all.
	rec := callProtected(t, tokens, "", RoleAdmin)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Wrong role.
	rec = callProtected(t, tokens, "Bearer "+userToken, RoleAdmin)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Matching role.
	rec = callProtected(t, tokens, "Bearer "+adminToken, RoleAdmin)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Empty role set allows any authenticated principal.
	rec = callProtected(t, tokens, "Bearer "+userToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Garbage token stays anonymous.
	rec = callProtected(t, tokens, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
