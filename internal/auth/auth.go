// Package auth validates bearer tokens and exposes the acting user to
// handlers through the request context.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// ActorInfo identifies the authenticated caller.
type ActorInfo struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the actor may perform privileged operations.
func (a *ActorInfo) IsAdmin() bool { return a.Role == "admin" }

// Authorizer validates a raw bearer token and resolves the actor.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*ActorInfo, error)
}

// ErrUnauthorized is returned for missing, malformed, or expired tokens.
var ErrUnauthorized = errors.New("auth: unauthorized")

// JWTAuthorizer validates HMAC-signed JWTs. Claims: "sub" carries the
// user ID, "role" the role.
type JWTAuthorizer struct {
	secret []byte
}

// NewJWTAuthorizer creates an authorizer for the given signing secret.
func NewJWTAuthorizer(secret string) *JWTAuthorizer {
	return &JWTAuthorizer{secret: []byte(secret)}
}

func (a *JWTAuthorizer) Authorize(_ context.Context, token string) (*ActorInfo, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrUnauthorized
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthorized
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrUnauthorized
	}
	role, _ := claims["role"].(string)
	if role == "" {
		role = "user"
	}
	return &ActorInfo{UserID: sub, Role: role}, nil
}

// IssueToken signs a token for the given user. Used by tests and the
// CLI's local-dev login helper.
func IssueToken(secret, userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	return tok.SignedString([]byte(secret))
}

// TokenFromRequest extracts the bearer token from the Authorization
// header, falling back to the "token" query parameter for websocket
// handshakes where browsers cannot set headers.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

type ctxKey struct{}

// WithActor stores the actor on the context.
func WithActor(ctx context.Context, actor *ActorInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor)
}

// ActorFromContext returns the actor set by Middleware, or nil.
func ActorFromContext(ctx context.Context) *ActorInfo {
	actor, _ := ctx.Value(ctxKey{}).(*ActorInfo)
	return actor
}

// Middleware rejects requests without a valid token and injects the
// actor into the request context.
func Middleware(authz Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := authz.Authorize(r.Context(), TokenFromRequest(r))
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}
