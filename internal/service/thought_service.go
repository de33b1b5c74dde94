package service

import (
	"context"
	"time"

	"murmur/internal/models"
	"murmur/internal/observability"
	"murmur/internal/repository"
	"murmur/internal/validation"
)

// ThoughtService owns the thought lifecycle and its ripple effects on the
// owning user's record.
type ThoughtService struct {
	thoughtRepo repository.ThoughtRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

// NewThoughtService returns a new ThoughtService.
func NewThoughtService(thoughtRepo repository.ThoughtRepository, userRepo repository.UserRepository) *ThoughtService {
	return &ThoughtService{
		thoughtRepo: thoughtRepo,
		userRepo:    userRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateThoughtResult carries the created thought and, when the author
// linkage write failed, a non-fatal warning. The thought is never rolled
// back: the primary write is the caller's intent, and the store cannot
// make the two-document write atomic anyway.
type CreateThoughtResult struct {
	Thought       *models.Thought              `json:"thought"`
	DanglingOwner *models.DanglingOwnerWarning `json:"danglingOwner,omitempty"`
}

// UpdateThoughtInput is a partial thought update; empty fields are left
// unchanged. CreatedAt and username are immutable.
type UpdateThoughtInput struct {
	ThoughtText string
}

// DeleteThoughtResult reports a thought deletion and the scrub of its id
// from users' thoughts lists.
type DeleteThoughtResult struct {
	Thought        *models.Thought            `json:"thought"`
	OwnersScrubbed int64                      `json:"ownersScrubbed"`
	Failure        *models.CascadeStepFailure `json:"failure,omitempty"`
}

// CreateThought creates the thought, then appends its id to the author's
// thoughts list. A failed append (author gone, store error) is reported as
// a DanglingOwnerWarning alongside the created thought.
func (s *ThoughtService) CreateThought(ctx context.Context, authorID, thoughtText, username string) (*CreateThoughtResult, error) {
	if err := validation.ValidateBody("thoughtText", thoughtText); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	username, err := validation.NormalizeUsername(username)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	thought := &models.Thought{
		ThoughtText: thoughtText,
		Username:    username,
		CreatedAt:   s.now(),
		Reactions:   []models.Reaction{},
	}
	if err := s.thoughtRepo.Create(ctx, thought); err != nil {
		return nil, err
	}

	res := &CreateThoughtResult{Thought: thought}
	if _, err := s.userRepo.AppendThought(ctx, authorID, thought.ID); err != nil {
		reason := err.Error()
		if models.IsNotFound(err) {
			reason = "author does not exist"
		}
		res.DanglingOwner = &models.DanglingOwnerWarning{OwnerID: authorID, Reason: reason}
		observability.CascadeResidue.WithLabelValues("thought", "append_owner").Inc()
		observability.LogResidue(ctx, "thought", "append_owner", err)
	}
	return res, nil
}

// GetThought returns the thought with the given id.
func (s *ThoughtService) GetThought(ctx context.Context, id string) (*models.Thought, error) {
	return s.thoughtRepo.GetByID(ctx, id)
}

// ListThoughts returns all thoughts.
func (s *ThoughtService) ListThoughts(ctx context.Context) ([]models.Thought, error) {
	return s.thoughtRepo.List(ctx)
}

// UpdateThought applies a partial field update to the thought.
func (s *ThoughtService) UpdateThought(ctx context.Context, id string, in UpdateThoughtInput) (*models.Thought, error) {
	if in.ThoughtText == "" {
		return s.thoughtRepo.GetByID(ctx, id)
	}
	if err := validation.ValidateBody("thoughtText", in.ThoughtText); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	return s.thoughtRepo.UpdateFields(ctx, id, map[string]any{"thoughtText": in.ThoughtText})
}

// DeleteThought deletes the thought, then removes its id from every
// user's thoughts list. The scrub spans all users rather than the
// presumed owner so it stays correct even if ownership denormalization
// drifted. A failed scrub is reported, not fatal.
func (s *ThoughtService) DeleteThought(ctx context.Context, id string) (*DeleteThoughtResult, error) {
	thought, err := s.thoughtRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	res := &DeleteThoughtResult{Thought: thought}

	n, err := s.userRepo.PullThoughtAll(ctx, id)
	if err != nil {
		res.Failure = &models.CascadeStepFailure{
			Step:  models.CascadeStepScrubOwners,
			Error: err.Error(),
		}
		observability.CascadeResidue.WithLabelValues("thought", models.CascadeStepScrubOwners).Inc()
		observability.LogResidue(ctx, "thought", models.CascadeStepScrubOwners, err)
	} else {
		res.OwnersScrubbed = n
	}
	return res, nil
}
