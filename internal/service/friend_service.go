package service

import (
	"context"

	"murmur/internal/models"
	"murmur/internal/repository"
)

// FriendService owns the directed friend relation between users. Adding
// A's friend B mutates only A's record: the relation is not reciprocated,
// and B is a weak reference that is never resolved on write.
type FriendService struct {
	userRepo repository.UserRepository
}

// NewFriendService returns a new FriendService.
func NewFriendService(userRepo repository.UserRepository) *FriendService {
	return &FriendService{userRepo: userRepo}
}

// AddFriend inserts friendID into the user's friends set. Inserting an
// already-present friend is a no-op. A user can never friend themselves.
func (s *FriendService) AddFriend(ctx context.Context, userID, friendID string) (*models.User, error) {
	if userID == friendID {
		return nil, models.NewValidationError("Cannot add yourself as a friend")
	}
	return s.userRepo.AddFriend(ctx, userID, friendID)
}

// RemoveFriend removes friendID from the user's friends set. Removing an
// absent friend is a no-op.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID string) (*models.User, error) {
	return s.userRepo.RemoveFriend(ctx, userID, friendID)
}
