// Package service contains the business logic that keeps users, thoughts,
// reactions, and the friend graph mutually consistent. The store commits
// one document at a time, so every multi-document effect here is a fixed
// sequence of independently-committing steps with reported residue.
package service

import (
	"context"

	"murmur/internal/models"
	"murmur/internal/observability"
	"murmur/internal/repository"
	"murmur/internal/validation"
)

// UserService owns the user lifecycle, including the cascading cleanup of
// thoughts and friend references on deletion.
type UserService struct {
	userRepo    repository.UserRepository
	thoughtRepo repository.ThoughtRepository
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, thoughtRepo repository.ThoughtRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		thoughtRepo: thoughtRepo,
	}
}

// UpdateUserInput is a partial user update; empty fields are left unchanged.
type UpdateUserInput struct {
	Username string
	Email    string
}

// DeleteUserResult reports the outcome of a user deletion cascade. The
// user itself is always gone once this is returned; Failures lists cleanup
// steps that left residue behind.
type DeleteUserResult struct {
	User               *models.User                `json:"user"`
	FriendRefsScrubbed int64                       `json:"friendRefsScrubbed"`
	ThoughtsDeleted    int64                       `json:"thoughtsDeleted"`
	Failures           []models.CascadeStepFailure `json:"failures,omitempty"`
}

// Clean reports whether every cleanup step completed.
func (r *DeleteUserResult) Clean() bool {
	return len(r.Failures) == 0
}

// CreateUser validates the input shape and inserts the user. Username and
// email uniqueness is not pre-checked: the store reports duplicates at
// write time, which avoids a check-then-act race on concurrent creates.
func (s *UserService) CreateUser(ctx context.Context, username, email string) (*models.User, error) {
	username, err := validation.NormalizeUsername(username)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Thoughts: []string{},
		Friends:  []string{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser returns the user with the given id.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers returns all users.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// UpdateUser applies a partial field update to the user.
func (s *UserService) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*models.User, error) {
	fields := map[string]any{}
	if in.Username != "" {
		username, err := validation.NormalizeUsername(in.Username)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		fields["username"] = username
	}
	if in.Email != "" {
		if err := validation.ValidateEmail(in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		fields["email"] = in.Email
	}
	if len(fields) == 0 {
		return s.userRepo.GetByID(ctx, id)
	}
	return s.userRepo.UpdateFields(ctx, id, fields)
}

// DeleteUser removes the user and cascades the cleanup, in this order:
//
//  1. delete the user record (the point of no return; NotFound aborts here),
//  2. scrub the deleted id from every other user's friends set,
//  3. delete every thought the user owned, per the list captured in step 1.
//
// Steps 2 and 3 both depend only on data captured before the delete, so
// their relative order is unconstrained. Once step 1 commits the deletion
// is reported as successful regardless of cleanup outcome; failed steps
// are returned as residue for a later repair pass, never rolled back.
func (s *UserService) DeleteUser(ctx context.Context, id string) (*DeleteUserResult, error) {
	user, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	res := &DeleteUserResult{User: user}

	n, err := s.userRepo.PullFriendAll(ctx, id)
	if err != nil {
		res.Failures = append(res.Failures, models.CascadeStepFailure{
			Step:  models.CascadeStepScrubFriends,
			Error: err.Error(),
		})
		observability.CascadeResidue.WithLabelValues("user", models.CascadeStepScrubFriends).Inc()
		observability.LogResidue(ctx, "user", models.CascadeStepScrubFriends, err)
	} else {
		res.FriendRefsScrubbed = n
	}

	if len(user.Thoughts) > 0 {
		n, err := s.thoughtRepo.DeleteByIDs(ctx, user.Thoughts)
		if err != nil {
			res.Failures = append(res.Failures, models.CascadeStepFailure{
				Step:  models.CascadeStepDeleteThoughts,
				Error: err.Error(),
			})
			observability.CascadeResidue.WithLabelValues("user", models.CascadeStepDeleteThoughts).Inc()
			observability.LogResidue(ctx, "user", models.CascadeStepDeleteThoughts, err)
		} else {
			res.ThoughtsDeleted = n
		}
	}

	return res, nil
}
