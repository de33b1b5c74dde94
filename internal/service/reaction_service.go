package service

import (
	"context"
	"strings"
	"time"

	"murmur/internal/models"
	"murmur/internal/repository"
	"murmur/internal/validation"

	"github.com/google/uuid"
)

// ReactionService owns the lifecycle of reactions embedded within a
// thought. Reactions never exist outside their parent: both operations
// are single atomic updates on the thought document.
type ReactionService struct {
	thoughtRepo repository.ThoughtRepository
	newID       func() string
	now         func() time.Time
}

// NewReactionService returns a new ReactionService.
func NewReactionService(thoughtRepo repository.ThoughtRepository) *ReactionService {
	return &ReactionService{
		thoughtRepo: thoughtRepo,
		newID:       uuid.NewString,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// AddReaction appends a new reaction to the thought's reactions sequence.
// The username is stored as written: it is a weak reference and is not
// validated against the users collection.
func (s *ReactionService) AddReaction(ctx context.Context, thoughtID, reactionBody, username string) (*models.Thought, error) {
	if err := validation.ValidateBody("reactionBody", reactionBody); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	reaction := models.Reaction{
		ReactionID:   s.newID(),
		ReactionBody: reactionBody,
		Username:     strings.TrimSpace(username),
		CreatedAt:    s.now(),
	}
	return s.thoughtRepo.PushReaction(ctx, thoughtID, reaction)
}

// RemoveReaction pulls the reaction with the given id from the thought.
// Removing an unknown reaction id succeeds as a no-op: the pull semantics
// cannot distinguish "already removed" from "never existed", and callers
// must not rely on that distinction.
func (s *ReactionService) RemoveReaction(ctx context.Context, thoughtID, reactionID string) (*models.Thought, error) {
	return s.thoughtRepo.PullReaction(ctx, thoughtID, reactionID)
}
