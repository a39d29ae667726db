package handlers_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/dom/profile-feed/internal/domain"
	"github.com/dom/profile-feed/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileResponse struct {
	domain.Profile
	User *domain.PublicUser `json:"user"`
}

func TestProfileHandler_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		body           map[string]interface{}
		existing       bool
		anonymous      bool
		expectedStatus int
		expectedError  string
	}{
		{
			name: "successful creation",
			body: map[string]interface{}{
				"name":      "Ada",
				"bio":       "Engines.",
				"headline":  "Analyst",
				"photoUrl":  "https://example.com/ada.png",
				"interests": []string{"math", "poetry"},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing name",
			body:           map[string]interface{}{"bio": "no name"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "name is required",
		},
		{
			name:           "already has a profile",
			body:           map[string]interface{}{"name": "Ada"},
			existing:       true,
			expectedStatus: http.StatusConflict,
			expectedError:  "Profile already exists",
		},
		{
			name:           "no session",
			body:           map[string]interface{}{"name": "Ada"},
			anonymous:      true,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Authentication token missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)
			user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
			if tt.existing {
				testutil.NewProfileBuilder().WithUser(user).Build(t, ts.DB.DB)
			}
			if tt.anonymous {
				token = ""
			}

			req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/profile"), tt.body, token)
			resp := testutil.Do(t, req)

			if tt.expectedError != "" {
				testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedError)
				if !tt.existing {
					assert.EqualValues(t, 0, ts.DB.Count(t, "profiles"))
				}
				return
			}

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			var got profileResponse
			testutil.AssertJSONResponse(t, resp, &got)
			assert.Equal(t, user.ID, got.UserID)
			assert.Equal(t, "Ada", got.Name)
			testutil.AssertLabels(t, &got.Profile, "math", "poetry")
		})
	}
}

func TestProfileHandler_Get(t *testing.T) {
	ts := testutil.NewTestServer(t)

	owner, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	testutil.NewProfileBuilder().WithUser(owner).WithInterests("go").Build(t, ts.DB.DB)
	_, lonelyToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	tests := []struct {
		name           string
		token          string
		body           interface{}
		expectedStatus int
	}{
		{name: "session owner", token: token, expectedStatus: http.StatusOK},
		{name: "user id in body", body: map[string]string{"userId": owner.ID.String()}, expectedStatus: http.StatusOK},
		{name: "malformed user id in body", body: map[string]string{"userId": "nope"}, expectedStatus: http.StatusBadRequest},
		{name: "no identity", expectedStatus: http.StatusUnauthorized},
		{name: "session without profile", token: lonelyToken, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/profile"), tt.body, tt.token)
			resp := testutil.Do(t, req)

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var got profileResponse
			testutil.AssertJSONResponse(t, resp, &got)
			assert.Equal(t, owner.ID, got.UserID)
			require.NotNil(t, got.User)
			assert.Equal(t, owner.Email, got.User.Email)
			testutil.AssertLabels(t, &got.Profile, "go")
		})
	}
}

func TestProfileHandler_GetByID(t *testing.T) {
	ts := testutil.NewTestServer(t)
	profile := testutil.NewProfileBuilder().Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{name: "existing profile", id: profile.UserID.String(), expectedStatus: http.StatusOK},
		{name: "malformed id", id: "not-a-uuid", expectedStatus: http.StatusBadRequest},
		{name: "unknown user", id: uuid.New().String(), expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.APIURL("/profile/" + tt.id))
			require.NoError(t, err)
			defer resp.Body.Close()

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var got profileResponse
				testutil.AssertJSONResponse(t, resp, &got)
				assert.Equal(t, profile.ID, got.ID)
				assert.Nil(t, got.User, "public view carries no account fields")
			}
		})
	}
}

func TestProfileHandler_Update(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	testutil.NewProfileBuilder().WithUser(user).WithInterests("x", "y", "z").Build(t, ts.DB.DB)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodPut, ts.APIURL("/profile"),
		map[string]interface{}{"headline": "Principal", "interests": []string{"A", "B"}}, token)
	resp := testutil.Do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var updated profileResponse
	testutil.AssertJSONResponse(t, resp, &updated)
	assert.Equal(t, "Principal", updated.Headline)
	assert.Equal(t, "Test User", updated.Name)
	testutil.AssertLabels(t, &updated.Profile, "A", "B")

	// A later read sees exactly the new set.
	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/profile"), nil, token))
	var got profileResponse
	testutil.AssertJSONResponse(t, resp, &got)
	testutil.AssertLabels(t, &got.Profile, "A", "B")

	t.Run("without session", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPut, ts.APIURL("/profile"),
			map[string]interface{}{"interests": []string{}}, "")
		resp := testutil.Do(t, req)
		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
		assert.EqualValues(t, 2, ts.DB.Count(t, "interests"), "no mutation without a session")
	})

	t.Run("user without profile", func(t *testing.T) {
		_, otherToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPut, ts.APIURL("/profile"),
			map[string]interface{}{"name": "Nobody"}, otherToken)
		resp := testutil.Do(t, req)
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Profile not found")
	})
}

func TestProfileHandler_Delete(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	testutil.NewProfileBuilder().WithUser(user).Build(t, ts.DB.DB)

	resp := testutil.Do(t, testutil.CreateAuthenticatedRequest(t, http.MethodDelete, ts.APIURL("/profile"), nil, ""))
	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	assert.EqualValues(t, 1, ts.DB.Count(t, "profiles"))

	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, http.MethodDelete, ts.APIURL("/profile"), nil, token))
	testutil.AssertStatusCode(t, resp, http.StatusNoContent)
	assert.EqualValues(t, 0, ts.DB.Count(t, "profiles"))
	assert.EqualValues(t, 0, ts.DB.Count(t, "interests"))

	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/profile"), nil, token))
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)

	resp = testutil.Do(t, testutil.CreateAuthenticatedRequest(t, http.MethodDelete, ts.APIURL("/profile"), nil, token))
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func TestProfileHandler_Feed(t *testing.T) {
	ts := testutil.NewTestServer(t)
	me, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	testutil.NewProfileBuilder().WithUser(me).Build(t, ts.DB.DB)
	for i := 0; i < 3; i++ {
		testutil.NewProfileBuilder().Build(t, ts.DB.DB)
	}

	tests := []struct {
		name     string
		query    string
		token    string
		expected int
	}{
		{name: "anonymous sees everyone", expected: 4},
		{name: "caller is excluded", token: token, expected: 3},
		{name: "limit", query: "?limit=2", expected: 2},
		{name: "offset", query: "?offset=3", expected: 1},
		{name: "malformed paging falls back", query: "?limit=abc&offset=-1", expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/feed"+tt.query), nil, tt.token)
			resp := testutil.Do(t, req)
			testutil.AssertStatusCode(t, resp, http.StatusOK)

			var profiles []domain.Profile
			testutil.AssertJSONResponse(t, resp, &profiles)
			assert.Len(t, profiles, tt.expected)
			for _, p := range profiles {
				if tt.token != "" {
					assert.NotEqual(t, me.ID, p.UserID)
				}
			}
		})
	}
}

func TestHealth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, ts.BaseURL()+"/health", bytes.NewBuffer(nil))
	require.NoError(t, err)
	resp := testutil.Do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
}
