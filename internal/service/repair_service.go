package service

import (
	"context"

	"murmur/internal/models"
	"murmur/internal/observability"
	"murmur/internal/repository"
)

// RepairService is the read-repair pass for residue left by partial
// cascades and racing lifecycle operations. Every prune it performs is an
// idempotent pull or delete, so the pass can run repeatedly and
// concurrently with live traffic.
type RepairService struct {
	userRepo    repository.UserRepository
	thoughtRepo repository.ThoughtRepository
}

// NewRepairService returns a new RepairService.
func NewRepairService(userRepo repository.UserRepository, thoughtRepo repository.ThoughtRepository) *RepairService {
	return &RepairService{
		userRepo:    userRepo,
		thoughtRepo: thoughtRepo,
	}
}

// RepairReport summarizes what a repair pass pruned.
type RepairReport struct {
	FriendRefsPruned      int `json:"friendRefsPruned"`
	ThoughtRefsPruned     int `json:"thoughtRefsPruned"`
	OrphanThoughtsDeleted int `json:"orphanThoughtsDeleted"`
}

// Repair scans the store for three kinds of residue and prunes each:
//
//   - friend references to users that no longer exist,
//   - thoughts-list references to thoughts that no longer exist,
//   - orphaned thoughts: referenced by no user's thoughts list and
//     authored under a username that no longer resolves to a user.
//
// The scan works from a point-in-time snapshot; residue created while the
// pass runs is picked up by the next one.
func (s *RepairService) Repair(ctx context.Context) (*RepairReport, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	thoughts, err := s.thoughtRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	userIDs := make(map[string]bool, len(users))
	usernames := make(map[string]bool, len(users))
	referenced := make(map[string]bool)
	for _, u := range users {
		userIDs[u.ID] = true
		usernames[u.Username] = true
		for _, t := range u.Thoughts {
			referenced[t] = true
		}
	}
	thoughtIDs := make(map[string]bool, len(thoughts))
	for _, t := range thoughts {
		thoughtIDs[t.ID] = true
	}

	report := &RepairReport{}

	for _, u := range users {
		for _, friendID := range u.Friends {
			if userIDs[friendID] {
				continue
			}
			if _, err := s.userRepo.RemoveFriend(ctx, u.ID, friendID); err != nil {
				if models.IsNotFound(err) {
					continue // user deleted while the pass ran
				}
				return report, err
			}
			report.FriendRefsPruned++
			observability.RepairPrunes.WithLabelValues("friend_ref").Inc()
		}
		for _, thoughtID := range u.Thoughts {
			if thoughtIDs[thoughtID] {
				continue
			}
			if _, err := s.userRepo.PullThoughtAll(ctx, thoughtID); err != nil {
				return report, err
			}
			report.ThoughtRefsPruned++
			observability.RepairPrunes.WithLabelValues("thought_ref").Inc()
		}
	}

	for _, t := range thoughts {
		if referenced[t.ID] || usernames[t.Username] {
			continue
		}
		if _, err := s.thoughtRepo.Delete(ctx, t.ID); err != nil {
			if models.IsNotFound(err) {
				continue
			}
			return report, err
		}
		report.OrphanThoughtsDeleted++
		observability.RepairPrunes.WithLabelValues("orphan_thought").Inc()
	}

	return report, nil
}
