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

// GetUsers handles GET /api/users
func (s *Server) GetUsers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	var cached []userResponse
	if cache.GetList(ctx, cache.UserListKey, &cached) {
		return c.JSON(cached)
	}

	users, err := s.userService.ListUsers(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
				"error": "Request timeout",
			})
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	resp := toUserResponses(users)
	cache.SetList(ctx, cache.UserListKey, resp)
	return c.JSON(resp)
}

// CreateUser handles POST /api/users
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.CreateUser(c.UserContext(), req.Username, req.Email)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	cache.InvalidateUsers(c.UserContext())
	return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
}

// GetUser handles GET /api/users/:userId
func (s *Server) GetUser(c *fiber.Ctx) error {
	user, err := s.userService.GetUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(toUserResponse(user))
}

// UpdateUser handles PUT /api/users/:userId
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateUser(c.UserContext(), c.Params("userId"), service.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	cache.InvalidateUsers(c.UserContext())
	return c.JSON(toUserResponse(user))
}

// DeleteUser handles DELETE /api/users/:userId
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	res, err := s.userService.DeleteUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	cache.InvalidateUsers(c.UserContext())
	cache.InvalidateThoughts(c.UserContext())
	return c.JSON(toDeleteUserResponse(res))
}
