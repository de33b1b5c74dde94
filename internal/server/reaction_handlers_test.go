package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndRemoveReaction(t *testing.T) {
	s := newTestServer()
	app := newTestApp(s)

	author := seedUser(t, app, "alice", "alice@x.com")
	created := seedThought(t, app, author.ID, "alice", "react to me")

	resp, raw := doJSON(t, app, http.MethodPost, "/api/thoughts/"+created.Thought.ID+"/reactions", map[string]string{
		"reactionBody": "nice", "username": "bob",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	got := decode[thoughtResponse](t, raw)
	require.Equal(t, 1, got.ReactionCount)
	reactionID := got.Reactions[0].ReactionID
	require.NotEmpty(t, reactionID)

	resp, raw = doJSON(t, app, http.MethodDelete, "/api/thoughts/"+created.Thought.ID+"/reactions/"+reactionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got = decode[thoughtResponse](t, raw)
	assert.Zero(t, got.ReactionCount)
}

func TestAddReactionErrors(t *testing.T) {
	s := newTestServer()
	app := newTestApp(s)

	author := seedUser(t, app, "alice", "alice@x.com")
	created := seedThought(t, app, author.ID, "alice", "strict")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/thoughts/"+created.Thought.ID+"/reactions", map[string]string{
		"reactionBody": "", "username": "bob",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/thoughts/missing/reactions", map[string]string{
		"reactionBody": "hello", "username": "bob",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRemoveReactionUnknownID(t *testing.T) {
	s := newTestServer()
	app := newTestApp(s)

	author := seedUser(t, app, "alice", "alice@x.com")
	created := seedThought(t, app, author.ID, "alice", "calm")

	// Unknown reaction id on an existing thought is a 200 no-op.
	resp, raw := doJSON(t, app, http.MethodDelete, "/api/thoughts/"+created.Thought.ID+"/reactions/never-existed", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[thoughtResponse](t, raw)
	assert.Zero(t, got.ReactionCount)

	// Unknown thought is still a 404.
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/thoughts/missing/reactions/whatever", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
