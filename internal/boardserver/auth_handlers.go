package boardserver

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/krosengr4/byteboard/internal/models"
)

// Register handles POST /register.
func (s *Server) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Password == "" || req.FirstName == "" {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Username, password, and first name are required"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, err)
	}

	user, profile, ok := s.store.createUser(req.Username, hashedPassword, "user", req.FirstName, req.LastName)
	if !ok {
		return respondWithError(c, fiber.StatusConflict,
			newConflictError("Username already taken"))
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, err)
	}

	s.log.Info("user registered", "user_id", user.ID, "username", user.Username)
	return c.Status(fiber.StatusCreated).JSON(models.AuthResponse{
		Token:   token,
		User:    user,
		Profile: &models.RegisterProfile{FirstName: profile.FirstName},
	})
}

// Login handles POST /login.
func (s *Server) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Invalid request body"))
	}

	user, hash, found := s.store.userByUsername(req.Username)
	if !found {
		return respondWithError(c, fiber.StatusUnauthorized,
			newUnauthorizedError("Invalid credentials"))
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(req.Password)); err != nil {
		return respondWithError(c, fiber.StatusUnauthorized,
			newUnauthorizedError("Invalid credentials"))
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(models.AuthResponse{Token: token, User: user})
}

// Me handles GET /auth/me, resolving the token back to its identity.
func (s *Server) Me(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, found := s.store.userByID(userID)
	if !found {
		return respondWithError(c, fiber.StatusUnauthorized,
			newUnauthorizedError("Unknown user"))
	}

	return c.JSON(models.MeResponse{User: user})
}
