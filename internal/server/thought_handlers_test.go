package server

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, app *fiber.App, username, email string) userResponse {
	t.Helper()
	resp, raw := doJSON(t, app, http.MethodPost, "/api/users", map[string]string{
		"username": username, "email": email,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[userResponse](t, raw)
}

func seedThought(t *testing.T, app *fiber.App, userID, username, text string) createThoughtResponse {
	t.Helper()
	resp, raw := doJSON(t, app, http.MethodPost, "/api/thoughts", map[string]string{
		"thoughtText": text, "username": username, "userId": userID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[createThoughtResponse](t, raw)
}

func TestCreateAndGetThought(t *testing.T) {
	s := newTestServer()
	app := newTestApp(s)

	author := seedUser(t, app, "alice", "alice@x.com")
	created := seedThought(t, app, author.ID, "alice", "hello世界")
	assert.Nil(t, created.DanglingOwner)

	resp, raw := doJSON(t, app, http.MethodGet, "/api/thoughts/"+created.Thought.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[thoughtResponse](t, raw)
	assert.Equal(t, "hello世界", got.ThoughtText)
	assert.Equal(t, "alice", got.Username)
	assert.Zero(t, got.ReactionCount)

	// The author's thoughts list gained the id.
	resp, raw = doJSON(t, app, http.MethodGet, "/api/users/"+author.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	gotAuthor := decode[userResponse](t, raw)
	assert.Equal(t, 1, gotAuthor.ThoughtCount)
}

func TestCreateThoughtUnknownAuthorReports404(t *testing.T) {
	s := newTestServer()
	app := newTestApp(s)

	resp, raw := doJSON(t, app, http.MethodPost, "/api/thoughts", map[string]string{
		"thoughtText": "into the void", "username": "ghost", "userId": "no-such-user",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	created := decode[createThoughtResponse](t, raw)
	require.NotNil(t, created.DanglingOwner)
	assert.Equal(t, "no-such-user", created.DanglingOwner.OwnerID)

	// The thought was still created.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/thoughts/"+created.Thought.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateThoughtValidation(t *testing.T) {
	s := newTestServer()
	app := newTestApp(s)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/thoughts", map[string]string{
		"thoughtText": "", "username": "alice", "userId": "u1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateThought(t *testing.T) {
	s := newTestServer()
	app := newTestApp(s)

	author := seedUser(t, app, "alice", "alice@x.com")
	created := seedThought(t, app, author.ID, "alice", "before")

	resp, raw := doJSON(t, app, http.MethodPut, "/api/thoughts/"+created.Thought.ID, map[string]string{
		"thoughtText": "after",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[thoughtResponse](t, raw)
	assert.Equal(t, "after", got.ThoughtText)

	resp, _ = doJSON(t, app, http.MethodPut, "/api/thoughts/missing", map[string]string{
		"thoughtText": "after",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteThoughtScrubsOwner(t *testing.T) {
	s := newTestServer()
	app := newTestApp(s)

	author := seedUser(t, app, "alice", "alice@x.com")
	created := seedThought(t, app, author.ID, "alice", "fleeting")

	resp, raw := doJSON(t, app, http.MethodDelete, "/api/thoughts/"+created.Thought.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	deleted := decode[deleteThoughtResponse](t, raw)
	assert.EqualValues(t, 1, deleted.OwnersScrubbed)
	assert.Nil(t, deleted.Failure)

	resp, raw = doJSON(t, app, http.MethodGet, "/api/users/"+author.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	gotAuthor := decode[userResponse](t, raw)
	assert.Zero(t, gotAuthor.ThoughtCount)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/thoughts/"+created.Thought.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListThoughts(t *testing.T) {
	s := newTestServer()
	app := newTestApp(s)

	author := seedUser(t, app, "alice", "alice@x.com")
	seedThought(t, app, author.ID, "alice", "one")
	seedThought(t, app, author.ID, "alice", "two")

	resp, raw := doJSON(t, app, http.MethodGet, "/api/thoughts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	thoughts := decode[[]thoughtResponse](t, raw)
	assert.Len(t, thoughts, 2)
}
