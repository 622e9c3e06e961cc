package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuthorizer_RoundTrip(t *testing.T) {
	authz := NewJWTAuthorizer("test-secret")

	token, err := IssueToken("test-secret", "user-1", "admin", time.Hour)
	require.NoError(t, err)

	actor, err := authz.Authorize(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", actor.UserID)
	assert.True(t, actor.IsAdmin())
}

func TestJWTAuthorizer_Rejects(t *testing.T) {
	authz := NewJWTAuthorizer("test-secret")

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"wrong secret": mustToken(t, "other-secret", "user-1", time.Hour),
		"expired":      mustToken(t, "test-secret", "user-1", -time.Minute),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := authz.Authorize(context.Background(), token)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func mustToken(t *testing.T, secret, userID string, ttl time.Duration) string {
	t.Helper()
	token, err := IssueToken(secret, userID, "user", ttl)
	require.NoError(t, err)
	return token
}

func TestMiddleware(t *testing.T) {
	authz := NewJWTAuthorizer("test-secret")
	var seen *ActorInfo
	h := Middleware(authz)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// No token: rejected before the handler runs.
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/feed", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Nil(t, seen)

	// Header token.
	token := mustToken(t, "test-secret", "user-1", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.UserID)

	// Query token, as used by websocket handshakes.
	seen = nil
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, seen)
}
