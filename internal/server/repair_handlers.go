package server

import (
	"murmur/internal/cache"
	"murmur/internal/models"

	"github.com/gofiber/fiber/v2"
)

// RunRepair handles POST /api/admin/repair
func (s *Server) RunRepair(c *fiber.Ctx) error {
	report, err := s.repairService.Repair(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	cache.InvalidateUsers(c.UserContext())
	cache.InvalidateThoughts(c.UserContext())
	return c.JSON(report)
}
