package repository

import (
	"context"
	"testing"

	"murmur/internal/models"
	"murmur/internal/store"

	"github.com/stretchr/testify/require"
)

func newUserRepo() UserRepository {
	return NewUserRepository(store.NewMemory(Collections()...))
}

func TestUserRepositoryCreateDefaults(t *testing.T) {
	repo := newUserRepo()
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@x.com"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)
	require.NotNil(t, got.Thoughts)
	require.NotNil(t, got.Friends)
	require.Zero(t, got.FriendCount())
	require.Zero(t, got.ThoughtCount())
}

func TestUserRepositoryCreateDuplicateUsername(t *testing.T) {
	repo := newUserRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "alice", Email: "alice@x.com"}))

	err := repo.Create(ctx, &models.User{Username: "alice", Email: "other@x.com"})
	require.Error(t, err)
	require.True(t, models.IsValidation(err), "expected validation error, got %v", err)
}

func TestUserRepositoryGetByIDNotFound(t *testing.T) {
	repo := newUserRepo()

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	require.True(t, models.IsNotFound(err), "expected not-found error, got %v", err)
}

func TestUserRepositoryGetByUsername(t *testing.T) {
	repo := newUserRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "alice", Email: "alice@x.com"}))

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "alice@x.com", got.Email)

	// Absence is not an error for username lookups.
	got, err = repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestUserRepositoryFriendSetSemantics(t *testing.T) {
	repo := newUserRepo()
	ctx := context.Background()

	alice := &models.User{Username: "alice", Email: "alice@x.com"}
	require.NoError(t, repo.Create(ctx, alice))

	got, err := repo.AddFriend(ctx, alice.ID, "bob-id")
	require.NoError(t, err)
	require.Equal(t, []string{"bob-id"}, got.Friends)

	// Adding the same friend twice keeps the set semantics.
	got, err = repo.AddFriend(ctx, alice.ID, "bob-id")
	require.NoError(t, err)
	require.Equal(t, []string{"bob-id"}, got.Friends)

	got, err = repo.RemoveFriend(ctx, alice.ID, "bob-id")
	require.NoError(t, err)
	require.Empty(t, got.Friends)

	// Removing an absent friend is a no-op, not an error.
	got, err = repo.RemoveFriend(ctx, alice.ID, "bob-id")
	require.NoError(t, err)
	require.Empty(t, got.Friends)
}

func TestUserRepositoryPullFriendAll(t *testing.T) {
	mem := store.NewMemory(Collections()...)
	repo := NewUserRepository(mem)
	ctx := context.Background()

	gone := &models.User{Username: "gone", Email: "gone@x.com"}
	require.NoError(t, repo.Create(ctx, gone))

	for _, name := range []string{"a", "b"} {
		u := &models.User{Username: name, Email: name + "@x.com"}
		require.NoError(t, repo.Create(ctx, u))
		_, err := repo.AddFriend(ctx, u.ID, gone.ID)
		require.NoError(t, err)
	}

	n, err := repo.PullFriendAll(ctx, gone.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	for _, u := range users {
		require.False(t, u.HasFriend(gone.ID), "user %s still references deleted friend", u.Username)
	}
}

func TestUserRepositoryUpdateFieldsDuplicateEmail(t *testing.T) {
	repo := newUserRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "alice", Email: "alice@x.com"}))
	bob := &models.User{Username: "bob", Email: "bob@x.com"}
	require.NoError(t, repo.Create(ctx, bob))

	_, err := repo.UpdateFields(ctx, bob.ID, map[string]any{"email": "alice@x.com"})
	require.Error(t, err)
	require.True(t, models.IsValidation(err), "expected validation error, got %v", err)
}
