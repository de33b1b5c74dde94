// Command main runs the data seeder for murmur.
package main

import (
	"context"
	"flag"
	"log"

	"murmur/internal/bootstrap"
	"murmur/internal/config"
	"murmur/internal/repository"
	"murmur/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numThoughts := flag.Int("thoughts", 100, "Number of thoughts to create")
	numReactions := flag.Int("reactions", 200, "Number of reactions to create")
	friendsPerUser := flag.Int("friends", 3, "Friend links to attempt per user")
	randSeed := flag.Int64("seed", 0, "Random seed (0 = time-based)")
	preset := flag.String("preset", "", "Path to a YAML preset file (overrides the random flags)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	st, _, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	userRepo := repository.NewUserRepository(st)
	thoughtRepo := repository.NewThoughtRepository(st)

	opts := seed.Options{
		NumUsers:       *numUsers,
		NumThoughts:    *numThoughts,
		NumReactions:   *numReactions,
		FriendsPerUser: *friendsPerUser,
		Seed:           *randSeed,
	}
	s := seed.NewSeeder(userRepo, thoughtRepo, opts)

	ctx := context.Background()
	var sum *seed.Summary
	if *preset != "" {
		p, err := seed.LoadPreset(*preset)
		if err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
		sum, err = s.ApplyPreset(ctx, p)
		if err != nil {
			log.Fatalf("Preset seeding failed: %v", err)
		}
	} else {
		sum, err = s.Seed(ctx, opts)
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	}

	log.Printf("Seeded %d users, %d thoughts, %d reactions, %d friend links",
		sum.Users, sum.Thoughts, sum.Reactions, sum.Friends)
}
