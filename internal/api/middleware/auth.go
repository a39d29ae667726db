package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dom/profile-feed/internal/auth"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TokenCookieName is the cookie carrying the session token.
const TokenCookieName = "token"

type contextKey string

const (
	IdentityKey contextKey = "identity"
)

// Identity is the verified caller of a request. It only enters a request
// context through Auth or OptionalAuth.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// TokenVerifier resolves a session token to its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Auth rejects requests without a valid session cookie.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(TokenCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w, "Authentication token missing")
				return
			}

			identity, err := verify(verifier, cookie.Value)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("session token rejected")
				unauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// OptionalAuth attaches the caller's identity when the session cookie is
// valid and lets every request through.
func OptionalAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
				if identity, err := verify(verifier, cookie.Value); err == nil {
					r = r.WithContext(WithIdentity(r.Context(), identity))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func verify(verifier TokenVerifier, token string) (Identity, error) {
	claims, err := verifier.Verify(token)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: claims.UserUUID(), Email: claims.Email}, nil
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

func GetIdentity(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(Identity)
	return identity, ok
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
