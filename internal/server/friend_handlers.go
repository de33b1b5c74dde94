package server

import (
	"murmur/internal/cache"
	"murmur/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AddFriend handles POST /api/users/:userId/friends/:friendId
func (s *Server) AddFriend(c *fiber.Ctx) error {
	user, err := s.friendService.AddFriend(c.UserContext(), c.Params("userId"), c.Params("friendId"))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	cache.InvalidateUsers(c.UserContext())
	return c.JSON(toUserResponse(user))
}

// RemoveFriend handles DELETE /api/users/:userId/friends/:friendId
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	user, err := s.friendService.RemoveFriend(c.UserContext(), c.Params("userId"), c.Params("friendId"))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	cache.InvalidateUsers(c.UserContext())
	return c.JSON(toUserResponse(user))
}
