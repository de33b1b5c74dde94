package seed

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset is a declarative seed fixture loaded from YAML. Friends and
// reaction usernames refer to users by username, so fixtures stay
// readable and ids are assigned by the store.
type Preset struct {
	Users []PresetUser `yaml:"users"`
}

// PresetUser declares one user, their friends, and their thoughts.
type PresetUser struct {
	Username string          `yaml:"username"`
	Email    string          `yaml:"email"`
	Friends  []string        `yaml:"friends"`
	Thoughts []PresetThought `yaml:"thoughts"`
}

// PresetThought declares one thought posted by the enclosing user.
type PresetThought struct {
	Text      string           `yaml:"text"`
	Reactions []PresetReaction `yaml:"reactions"`
}

// PresetReaction declares one reaction on the enclosing thought.
type PresetReaction struct {
	Body     string `yaml:"body"`
	Username string `yaml:"username"`
}

// LoadPreset reads and parses a YAML preset file.
func LoadPreset(path string) (*Preset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	var p Preset
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse preset: %w", err)
	}
	return &p, nil
}

// ApplyPreset creates the preset's users, thoughts, reactions, and friend
// links in declaration order. Users are created first so friend links by
// username always resolve.
func (s *Seeder) ApplyPreset(ctx context.Context, p *Preset) (*Summary, error) {
	sum := &Summary{}

	ids := make(map[string]string, len(p.Users))
	for _, pu := range p.Users {
		u, err := s.users.CreateUser(ctx, pu.Username, pu.Email)
		if err != nil {
			return sum, fmt.Errorf("preset user %q: %w", pu.Username, err)
		}
		ids[u.Username] = u.ID
		sum.Users++
	}

	for _, pu := range p.Users {
		userID := ids[pu.Username]

		for _, friend := range pu.Friends {
			friendID, ok := ids[friend]
			if !ok {
				return sum, fmt.Errorf("preset user %q: unknown friend %q", pu.Username, friend)
			}
			if _, err := s.friends.AddFriend(ctx, userID, friendID); err != nil {
				return sum, fmt.Errorf("preset friend %q -> %q: %w", pu.Username, friend, err)
			}
			sum.Friends++
		}

		for _, pt := range pu.Thoughts {
			res, err := s.thoughts.CreateThought(ctx, userID, pt.Text, pu.Username)
			if err != nil {
				return sum, fmt.Errorf("preset thought for %q: %w", pu.Username, err)
			}
			sum.Thoughts++

			for _, pr := range pt.Reactions {
				if _, err := s.reactions.AddReaction(ctx, res.Thought.ID, pr.Body, pr.Username); err != nil {
					return sum, fmt.Errorf("preset reaction for %q: %w", pu.Username, err)
				}
				sum.Reactions++
			}
		}
	}

	return sum, nil
}
