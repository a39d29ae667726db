package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/dom/profile-feed/internal/api/middleware"
	"github.com/dom/profile-feed/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies the status and the {"error": ...} body
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var body struct {
		Error string `json:"error"`
	}
	AssertJSONResponse(t, resp, &body)
	assert.Contains(t, body.Error, expectedMessage, "error message mismatch")
}

// AssertNoPasswordHash fails if a raw response body leaks password material
func AssertNoPasswordHash(t *testing.T, body []byte) {
	t.Helper()
	assert.NotContains(t, string(body), "passwordHash")
	assert.NotContains(t, string(body), "password_hash")
	assert.NotContains(t, string(body), "$2a$")
}

// AssertLabels verifies the profile carries exactly labels, in order
func AssertLabels(t *testing.T, profile *domain.Profile, labels ...string) {
	t.Helper()
	if len(labels) == 0 {
		assert.Empty(t, profile.Labels(), "expected no interests")
		return
	}
	assert.Equal(t, labels, profile.Labels(), "unexpected interests")
}

// AssertSessionCleared verifies resp expires the session cookie
func AssertSessionCleared(t *testing.T, resp *http.Response) {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == middleware.TokenCookieName {
			assert.Empty(t, c.Value, "session cookie should be emptied")
			assert.True(t, c.MaxAge < 0, "session cookie should expire immediately")
			return
		}
	}
	t.Errorf("response did not clear the session cookie")
}

// RequireNoError fails immediately if err is not nil
func RequireNoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	require.NoError(t, err, msgAndArgs...)
}
