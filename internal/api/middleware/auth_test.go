package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/profile-feed/internal/api/middleware"
	"github.com/dom/profile-feed/internal/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCodec(t *testing.T, secret string) *auth.TokenCodec {
	t.Helper()
	codec, err := auth.NewTokenCodec(secret, time.Hour)
	require.NoError(t, err)
	return codec
}

// echoIdentity reports whether an identity reached the handler.
func echoIdentity(got *middleware.Identity, reached *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		if id, ok := middleware.GetIdentity(r.Context()); ok {
			*got = id
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuth(t *testing.T) {
	codec := newCodec(t, "secret")
	userID := uuid.New()
	valid, err := codec.Issue(userID, "a@x.com")
	require.NoError(t, err)
	foreign, err := newCodec(t, "other-secret").Issue(userID, "a@x.com")
	require.NoError(t, err)

	tests := []struct {
		name        string
		cookie      string
		wantStatus  int
		wantMessage string
	}{
		{
			name:       "valid token",
			cookie:     valid,
			wantStatus: http.StatusNoContent,
		},
		{
			name:        "missing cookie",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Authentication token missing",
		},
		{
			name:        "garbage token",
			cookie:      "not-a-token",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid or expired token",
		},
		{
			name:        "token signed with another secret",
			cookie:      foreign,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid or expired token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var identity middleware.Identity
			var reached bool
			handler := middleware.Auth(codec)(echoIdentity(&identity, &reached))

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middleware.TokenCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMessage != "" {
				assert.False(t, reached, "handler must not run")
				assert.JSONEq(t, `{"error":"`+tt.wantMessage+`"}`, rec.Body.String())
				return
			}
			assert.True(t, reached)
			assert.Equal(t, userID, identity.UserID)
			assert.Equal(t, "a@x.com", identity.Email)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	codec := newCodec(t, "secret")
	userID := uuid.New()
	valid, err := codec.Issue(userID, "b@x.com")
	require.NoError(t, err)

	tests := []struct {
		name         string
		cookie       string
		wantIdentity bool
	}{
		{name: "valid token", cookie: valid, wantIdentity: true},
		{name: "no cookie"},
		{name: "invalid token", cookie: "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var identity middleware.Identity
			var reached bool
			handler := middleware.OptionalAuth(codec)(echoIdentity(&identity, &reached))

			req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middleware.TokenCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.True(t, reached)
			assert.Equal(t, http.StatusNoContent, rec.Code)
			if tt.wantIdentity {
				assert.Equal(t, userID, identity.UserID)
			} else {
				assert.Equal(t, uuid.Nil, identity.UserID)
			}
		})
	}
}

func TestGetIdentity_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := middleware.GetIdentity(req.Context())
	assert.False(t, ok)
}
