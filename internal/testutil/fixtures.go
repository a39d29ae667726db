package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/dom/profile-feed/internal/api/middleware"
	"github.com/dom/profile-feed/internal/auth"
	"github.com/dom/profile-feed/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultPassword satisfies the password strength rules
const DefaultPassword = "TestPass1!"

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		email:    fmt.Sprintf("user_%s@example.com", uuid.New().String()[:8]),
		password: DefaultPassword,
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hash, err := auth.HashPassword(b.password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        b.email,
		PasswordHash: hash,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API signup/login response
type AuthResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// BuildAndAuthenticate signs the user up via the API and returns the user and
// the session token taken from the Set-Cookie header
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"email":    b.email,
		"password": b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/signup"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to sign up user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	token := TokenFromResponse(resp)
	if token == "" {
		t.Fatalf("signup response carried no %s cookie", middleware.TokenCookieName)
	}

	userID, _ := uuid.Parse(authResp.ID)
	user := &domain.User{
		ID:    userID,
		Email: authResp.Email,
	}

	return user, token
}

// TokenFromResponse returns the session cookie value set by resp, if any
func TokenFromResponse(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.TokenCookieName {
			return c.Value
		}
	}
	return ""
}

// ProfileBuilder creates test profiles with a builder pattern
type ProfileBuilder struct {
	user      *domain.User
	name      string
	bio       string
	headline  string
	photoURL  *string
	interests []string
}

// NewProfileBuilder creates a new ProfileBuilder with default values
func NewProfileBuilder() *ProfileBuilder {
	return &ProfileBuilder{
		name:      "Test User",
		bio:       "Just testing.",
		headline:  "Tester",
		interests: []string{"go", "climbing"},
	}
}

// WithUser sets the owning user
func (b *ProfileBuilder) WithUser(user *domain.User) *ProfileBuilder {
	b.user = user
	return b
}

// WithName sets the display name
func (b *ProfileBuilder) WithName(name string) *ProfileBuilder {
	b.name = name
	return b
}

// WithHeadline sets the headline
func (b *ProfileBuilder) WithHeadline(headline string) *ProfileBuilder {
	b.headline = headline
	return b
}

// WithPhotoURL sets the photo URL
func (b *ProfileBuilder) WithPhotoURL(url string) *ProfileBuilder {
	b.photoURL = &url
	return b
}

// WithInterests sets the interest labels
func (b *ProfileBuilder) WithInterests(labels ...string) *ProfileBuilder {
	b.interests = labels
	return b
}

// Build creates the profile and its interests in the database
func (b *ProfileBuilder) Build(t *testing.T, db *gorm.DB) *domain.Profile {
	t.Helper()

	if b.user == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.user = user
	}

	profile := &domain.Profile{
		ID:       uuid.New(),
		UserID:   b.user.ID,
		Name:     b.name,
		Bio:      b.bio,
		Headline: b.headline,
		PhotoURL: b.photoURL,
	}
	profile.Interests = domain.NewInterests(profile.ID, b.interests)

	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	return profile
}

// CreateAuthenticatedRequest creates an HTTP request carrying the session cookie
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookieName, Value: token})
	}

	return req
}

// Do sends req with the default client and closes the body on cleanup
func Do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", req.Method, req.URL, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
