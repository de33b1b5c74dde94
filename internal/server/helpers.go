package server

import (
	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

// mapServiceError translates a service error into the matching HTTP
// status. Validation failures map to 400, missing resources to 404,
// everything else to 500.
func mapServiceError(err error) int {
	switch {
	case models.IsValidation(err):
		return fiber.StatusBadRequest
	case models.IsNotFound(err):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// userResponse decorates a user with its derived counts.
type userResponse struct {
	models.User
	FriendCount  int `json:"friendCount"`
	ThoughtCount int `json:"thoughtCount"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		User:         *u,
		FriendCount:  u.FriendCount(),
		ThoughtCount: u.ThoughtCount(),
	}
}

func toUserResponses(users []models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out
}

// thoughtResponse decorates a thought with its derived reaction count.
type thoughtResponse struct {
	models.Thought
	ReactionCount int `json:"reactionCount"`
}

func toThoughtResponse(t *models.Thought) thoughtResponse {
	return thoughtResponse{
		Thought:       *t,
		ReactionCount: t.ReactionCount(),
	}
}

func toThoughtResponses(thoughts []models.Thought) []thoughtResponse {
	out := make([]thoughtResponse, 0, len(thoughts))
	for i := range thoughts {
		out = append(out, toThoughtResponse(&thoughts[i]))
	}
	return out
}

// deleteUserResponse is the payload for a user deletion, including any
// cleanup steps that left residue behind.
type deleteUserResponse struct {
	User               userResponse                 `json:"user"`
	FriendRefsScrubbed int64                        `json:"friendRefsScrubbed"`
	ThoughtsDeleted    int64                        `json:"thoughtsDeleted"`
	Failures           []models.CascadeStepFailure `json:"failures,omitempty"`
}

func toDeleteUserResponse(res *service.DeleteUserResult) deleteUserResponse {
	return deleteUserResponse{
		User:               toUserResponse(res.User),
		FriendRefsScrubbed: res.FriendRefsScrubbed,
		ThoughtsDeleted:    res.ThoughtsDeleted,
		Failures:           res.Failures,
	}
}

// createThoughtResponse is the payload for a thought creation, including
// the owner-linkage warning when the append to the author failed.
type createThoughtResponse struct {
	Thought       thoughtResponse              `json:"thought"`
	DanglingOwner *models.DanglingOwnerWarning `json:"danglingOwner,omitempty"`
}

// deleteThoughtResponse is the payload for a thought deletion.
type deleteThoughtResponse struct {
	Thought        thoughtResponse            `json:"thought"`
	OwnersScrubbed int64                      `json:"ownersScrubbed"`
	Failure        *models.CascadeStepFailure `json:"failure,omitempty"`
}
