// Package seed provides helpers to create demo data for development and
// testing. All writes go through the service layer so denormalized
// references stay consistent with live traffic.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"murmur/internal/repository"
	"murmur/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

// Options configuration for the seeder
type Options struct {
	NumUsers       int
	NumThoughts    int
	NumReactions   int
	FriendsPerUser int
	// Seed fixes the random source; zero means non-deterministic.
	Seed int64
}

// Summary reports what a seeding run created.
type Summary struct {
	Users     int
	Thoughts  int
	Reactions int
	Friends   int
}

// Seeder populates a store with generated social-graph data.
type Seeder struct {
	users     *service.UserService
	thoughts  *service.ThoughtService
	reactions *service.ReactionService
	friends   *service.FriendService
	rng       *rand.Rand
}

// NewSeeder creates a Seeder over the given repositories.
func NewSeeder(userRepo repository.UserRepository, thoughtRepo repository.ThoughtRepository, opts Options) *Seeder {
	src := opts.Seed
	if src == 0 {
		src = time.Now().UnixNano()
	}
	gofakeit.Seed(src)

	return &Seeder{
		users:     service.NewUserService(userRepo, thoughtRepo),
		thoughts:  service.NewThoughtService(thoughtRepo, userRepo),
		reactions: service.NewReactionService(thoughtRepo),
		friends:   service.NewFriendService(userRepo),
		rng:       rand.New(rand.NewSource(src)),
	}
}

type seededUser struct {
	id       string
	username string
}

// Seed populates the store per the given options.
func (s *Seeder) Seed(ctx context.Context, opts Options) (*Summary, error) {
	sum := &Summary{}

	users := make([]seededUser, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i)
		email := fmt.Sprintf("%s@%s", username, gofakeit.DomainName())

		u, err := s.users.CreateUser(ctx, username, email)
		if err != nil {
			return sum, fmt.Errorf("seed user %d: %w", i, err)
		}
		users = append(users, seededUser{id: u.ID, username: u.Username})
		sum.Users++
	}
	if len(users) == 0 {
		return sum, nil
	}

	thoughtIDs := make([]string, 0, opts.NumThoughts)
	for i := 0; i < opts.NumThoughts; i++ {
		author := users[s.rng.Intn(len(users))]
		text := gofakeit.Sentence(4 + s.rng.Intn(12))
		if len(text) > 280 {
			text = text[:280]
		}

		res, err := s.thoughts.CreateThought(ctx, author.id, text, author.username)
		if err != nil {
			return sum, fmt.Errorf("seed thought %d: %w", i, err)
		}
		thoughtIDs = append(thoughtIDs, res.Thought.ID)
		sum.Thoughts++
	}

	for i := 0; i < opts.NumReactions && len(thoughtIDs) > 0; i++ {
		target := thoughtIDs[s.rng.Intn(len(thoughtIDs))]
		reactor := users[s.rng.Intn(len(users))]
		body := gofakeit.HipsterSentence(2 + s.rng.Intn(4))
		if len(body) > 280 {
			body = body[:280]
		}

		if _, err := s.reactions.AddReaction(ctx, target, body, reactor.username); err != nil {
			return sum, fmt.Errorf("seed reaction %d: %w", i, err)
		}
		sum.Reactions++
	}

	for _, u := range users {
		for j := 0; j < opts.FriendsPerUser; j++ {
			friend := users[s.rng.Intn(len(users))]
			if friend.id == u.id {
				continue
			}
			if _, err := s.friends.AddFriend(ctx, u.id, friend.id); err != nil {
				return sum, fmt.Errorf("seed friend for %s: %w", u.username, err)
			}
			sum.Friends++
		}
	}

	return sum, nil
}
