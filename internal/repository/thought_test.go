package repository

import (
	"context"
	"testing"
	"time"

	"murmur/internal/models"
	"murmur/internal/store"

	"github.com/stretchr/testify/require"
)

func newThoughtRepo() ThoughtRepository {
	return NewThoughtRepository(store.NewMemory(Collections()...))
}

func TestThoughtRepositoryCreateRoundTrip(t *testing.T) {
	repo := newThoughtRepo()
	ctx := context.Background()

	created := time.Now().UTC()
	thought := &models.Thought{
		ThoughtText: "here's a great thought",
		Username:    "alice",
		CreatedAt:   created,
	}
	require.NoError(t, repo.Create(ctx, thought))
	require.NotEmpty(t, thought.ID)

	got, err := repo.GetByID(ctx, thought.ID)
	require.NoError(t, err)
	require.Equal(t, "here's a great thought", got.ThoughtText)
	require.Equal(t, "alice", got.Username)
	require.True(t, got.CreatedAt.Equal(created))
	require.NotNil(t, got.Reactions)
	require.Zero(t, got.ReactionCount())
}

func TestThoughtRepositoryReactions(t *testing.T) {
	repo := newThoughtRepo()
	ctx := context.Background()

	thought := &models.Thought{ThoughtText: "hi", Username: "alice"}
	require.NoError(t, repo.Create(ctx, thought))

	got, err := repo.PushReaction(ctx, thought.ID, models.Reaction{
		ReactionID:   "r1",
		ReactionBody: "nice one",
		Username:     "bob",
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	require.Equal(t, 1, got.ReactionCount())
	require.Equal(t, "r1", got.Reactions[0].ReactionID)

	got, err = repo.PullReaction(ctx, thought.ID, "r1")
	require.NoError(t, err)
	require.Zero(t, got.ReactionCount())

	// Pulling an unknown reaction id is an idempotent no-op.
	got, err = repo.PullReaction(ctx, thought.ID, "never-existed")
	require.NoError(t, err)
	require.Zero(t, got.ReactionCount())
}

func TestThoughtRepositoryPullReactionMissingThought(t *testing.T) {
	repo := newThoughtRepo()

	_, err := repo.PullReaction(context.Background(), "missing", "r1")
	require.Error(t, err)
	require.True(t, models.IsNotFound(err))
}

func TestThoughtRepositoryDeleteByIDs(t *testing.T) {
	repo := newThoughtRepo()
	ctx := context.Background()

	var ids []string
	for _, text := range []string{"one", "two", "three"} {
		th := &models.Thought{ThoughtText: text, Username: "alice"}
		require.NoError(t, repo.Create(ctx, th))
		ids = append(ids, th.ID)
	}

	n, err := repo.DeleteByIDs(ctx, ids[:2])
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	n, err = repo.DeleteByIDs(ctx, nil)
	require.NoError(t, err)
	require.Zero(t, n)

	remaining, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, "three", remaining[0].ThoughtText)
}
