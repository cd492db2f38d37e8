package boardserver

import (
	"github.com/gofiber/fiber/v2"

	"github.com/krosengr4/byteboard/internal/models"
)

// ListProfiles handles GET /profiles.
func (s *Server) ListProfiles(c *fiber.Ctx) error {
	return c.JSON(s.store.profileList())
}

// GetProfile handles GET /profiles/:id.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Invalid user ID"))
	}
	profile, found := s.store.profile(id)
	if !found {
		return respondWithError(c, fiber.StatusNotFound,
			newNotFoundError("Profile", id))
	}
	return c.JSON(profile)
}

// UpdateProfile handles PUT /profiles/:id. A user may only edit their own
// profile; success returns no body.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, ok := parseID(c, "id")
	if !ok {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Invalid user ID"))
	}
	if !s.canModify(userID, id) {
		return respondWithError(c, fiber.StatusForbidden,
			newForbiddenError("You can only update your own profile"))
	}

	var req models.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Invalid request body"))
	}
	if req.FirstName == "" {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("First name is required"))
	}

	if !s.store.updateProfile(id, req) {
		return respondWithError(c, fiber.StatusNotFound,
			newNotFoundError("Profile", id))
	}
	return c.SendStatus(fiber.StatusOK)
}
