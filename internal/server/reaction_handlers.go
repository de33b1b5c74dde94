package server

import (
	"murmur/internal/cache"
	"murmur/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AddReaction handles POST /api/thoughts/:thoughtId/reactions
func (s *Server) AddReaction(c *fiber.Ctx) error {
	var req struct {
		ReactionBody string `json:"reactionBody"`
		Username     string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	thought, err := s.reactionService.AddReaction(c.UserContext(), c.Params("thoughtId"), req.ReactionBody, req.Username)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	cache.InvalidateThoughts(c.UserContext())
	return c.Status(fiber.StatusCreated).JSON(toThoughtResponse(thought))
}

// RemoveReaction handles DELETE /api/thoughts/:thoughtId/reactions/:reactionId
func (s *Server) RemoveReaction(c *fiber.Ctx) error {
	thought, err := s.reactionService.RemoveReaction(c.UserContext(), c.Params("thoughtId"), c.Params("reactionId"))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	cache.InvalidateThoughts(c.UserContext())
	return c.JSON(toThoughtResponse(thought))
}
