package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestServer()
	app := newTestApp(s)

	resp, raw := doJSON(t, app, http.MethodPost, "/api/users", map[string]string{
		"username": "alice",
		"email":    "alice@x.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decode[userResponse](t, raw)
	assert.Equal(t, "alice", created.Username)
	assert.NotEmpty(t, created.ID)
	assert.Zero(t, created.FriendCount)
	assert.Zero(t, created.ThoughtCount)

	resp, raw = doJSON(t, app, http.MethodGet, "/api/users/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[userResponse](t, raw)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "alice@x.com", got.Email)
}

func TestCreateUserRejectsInvalidInput(t *testing.T) {
	s := newTestServer()
	app := newTestApp(s)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing username", map[string]string{"email": "x@y.com"}},
		{"malformed email", map[string]string{"username": "bob", "email": "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, app, http.MethodPost, "/api/users", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	s := newTestServer()
	app := newTestApp(s)

	body := map[string]string{"username": "alice", "email": "alice@x.com"}
	resp, _ := doJSON(t, app, http.MethodPost, "/api/users", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body["email"] = "other@x.com"
	resp, _ = doJSON(t, app, http.MethodPost, "/api/users", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestServer()
	app := newTestApp(s)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/users/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListUsers(t *testing.T) {
	s := newTestServer()
	app := newTestApp(s)

	for _, u := range []map[string]string{
		{"username": "a", "email": "a@x.com"},
		{"username": "b", "email": "b@x.com"},
	} {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/users", u)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, raw := doJSON(t, app, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	users := decode[[]userResponse](t, raw)
	assert.Len(t, users, 2)
}

func TestUpdateUser(t *testing.T) {
	s := newTestServer()
	app := newTestApp(s)

	resp, raw := doJSON(t, app, http.MethodPost, "/api/users", map[string]string{
		"username": "alice", "email": "alice@x.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[userResponse](t, raw)

	resp, raw = doJSON(t, app, http.MethodPut, "/api/users/"+created.ID, map[string]string{
		"email": "fresh@x.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[userResponse](t, raw)
	assert.Equal(t, "alice", updated.Username)
	assert.Equal(t, "fresh@x.com", updated.Email)

	resp, _ = doJSON(t, app, http.MethodPut, "/api/users/missing", map[string]string{"email": "x@y.com"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteUserCascadesOverHTTP(t *testing.T) {
	s := newTestServer()
	app := newTestApp(s)

	resp, raw := doJSON(t, app, http.MethodPost, "/api/users", map[string]string{
		"username": "owner", "email": "owner@x.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	owner := decode[userResponse](t, raw)

	resp, raw = doJSON(t, app, http.MethodPost, "/api/users", map[string]string{
		"username": "viewer", "email": "viewer@x.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	viewer := decode[userResponse](t, raw)

	resp, raw = doJSON(t, app, http.MethodPost, "/api/thoughts", map[string]string{
		"thoughtText": "soon gone", "username": "owner", "userId": owner.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	thought := decode[createThoughtResponse](t, raw)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/users/"+viewer.ID+"/friends/"+owner.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = doJSON(t, app, http.MethodDelete, "/api/users/"+owner.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	deleted := decode[deleteUserResponse](t, raw)
	assert.EqualValues(t, 1, deleted.FriendRefsScrubbed)
	assert.EqualValues(t, 1, deleted.ThoughtsDeleted)
	assert.Empty(t, deleted.Failures)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/thoughts/"+thought.Thought.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = doJSON(t, app, http.MethodGet, "/api/users/"+viewer.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	gotViewer := decode[userResponse](t, raw)
	assert.Zero(t, gotViewer.FriendCount)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/users/"+owner.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
