package server

import (
	"context"
	"errors"
	"time"

	"murmur/internal/cache"
	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetThoughts handles GET /api/thoughts
func (s *Server) GetThoughts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	var cached []thoughtResponse
	if cache.GetList(ctx, cache.ThoughtListKey, &cached) {
		return c.JSON(cached)
	}

	thoughts, err := s.thoughtService.ListThoughts(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
				"error": "Request timeout",
			})
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	resp := toThoughtResponses(thoughts)
	cache.SetList(ctx, cache.ThoughtListKey, resp)
	return c.JSON(resp)
}

// CreateThought handles POST /api/thoughts
func (s *Server) CreateThought(c *fiber.Ctx) error {
	var req struct {
		ThoughtText string `json:"thoughtText"`
		Username    string `json:"username"`
		UserID      string `json:"userId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	res, err := s.thoughtService.CreateThought(c.UserContext(), req.UserID, req.ThoughtText, req.Username)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	cache.InvalidateThoughts(c.UserContext())
	cache.InvalidateUsers(c.UserContext())

	// A failed owner linkage still created the thought; 404 tells the
	// caller their author id went nowhere.
	status := fiber.StatusCreated
	if res.DanglingOwner != nil {
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(createThoughtResponse{
		Thought:       toThoughtResponse(res.Thought),
		DanglingOwner: res.DanglingOwner,
	})
}

// GetThought handles GET /api/thoughts/:thoughtId
func (s *Server) GetThought(c *fiber.Ctx) error {
	thought, err := s.thoughtService.GetThought(c.UserContext(), c.Params("thoughtId"))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(toThoughtResponse(thought))
}

// UpdateThought handles PUT /api/thoughts/:thoughtId
func (s *Server) UpdateThought(c *fiber.Ctx) error {
	var req struct {
		ThoughtText string `json:"thoughtText"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	thought, err := s.thoughtService.UpdateThought(c.UserContext(), c.Params("thoughtId"), service.UpdateThoughtInput{
		ThoughtText: req.ThoughtText,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	cache.InvalidateThoughts(c.UserContext())
	return c.JSON(toThoughtResponse(thought))
}

// DeleteThought handles DELETE /api/thoughts/:thoughtId
func (s *Server) DeleteThought(c *fiber.Ctx) error {
	res, err := s.thoughtService.DeleteThought(c.UserContext(), c.Params("thoughtId"))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	cache.InvalidateThoughts(c.UserContext())
	cache.InvalidateUsers(c.UserContext())
	return c.JSON(deleteThoughtResponse{
		Thought:        toThoughtResponse(res.Thought),
		OwnersScrubbed: res.OwnersScrubbed,
		Failure:        res.Failure,
	})
}
