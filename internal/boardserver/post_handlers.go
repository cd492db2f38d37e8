package boardserver

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/krosengr4/byteboard/internal/models"
)

const maxTitleLen = 255

func parseID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// canModify applies the ownership rule the client mirrors as a UX gate:
// only the owner, or an admin, may mutate an entity.
func (s *Server) canModify(actorID, ownerID uint) bool {
	if actorID == ownerID {
		return true
	}
	actor, ok := s.store.userByID(actorID)
	return ok && actor.Role == "admin"
}

// ListPosts handles GET /posts.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	return c.JSON(s.store.postList())
}

// GetPost handles GET /posts/:id.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Invalid post ID"))
	}
	post, found := s.store.post(id)
	if !found {
		return respondWithError(c, fiber.StatusNotFound,
			newNotFoundError("Post", id))
	}
	return c.JSON(post)
}

// PostsByUser handles GET /posts/user/:id.
func (s *Server) PostsByUser(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Invalid user ID"))
	}
	return c.JSON(s.store.postsByUser(id))
}

// CreatePost handles POST /posts.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req models.PostRequest
	if err := c.BodyParser(&req); err != nil {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Invalid request body"))
	}
	if req.Title == "" || req.Content == "" {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Title and content are required"))
	}
	if len(req.Title) > maxTitleLen {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Title must be at most 255 characters"))
	}

	user, _ := s.store.userByID(userID)
	post := s.store.createPost(userID, user.Username, req.Title, req.Content)
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /posts/:id. Only the owner (or an admin) may
// update; success returns no body.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, ok := parseID(c, "id")
	if !ok {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Invalid post ID"))
	}

	post, found := s.store.post(id)
	if !found {
		return respondWithError(c, fiber.StatusNotFound,
			newNotFoundError("Post", id))
	}
	if !s.canModify(userID, post.UserID) {
		return respondWithError(c, fiber.StatusForbidden,
			newForbiddenError("You can only update your own posts"))
	}

	var req models.PostRequest
	if err := c.BodyParser(&req); err != nil {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Invalid request body"))
	}
	if req.Title == "" || req.Content == "" {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Title and content are required"))
	}
	if len(req.Title) > maxTitleLen {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Title must be at most 255 characters"))
	}

	s.store.updatePost(id, req.Title, req.Content)
	return c.SendStatus(fiber.StatusOK)
}

// DeletePost handles DELETE /posts/:id. Comments go with the post.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, ok := parseID(c, "id")
	if !ok {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Invalid post ID"))
	}

	post, found := s.store.post(id)
	if !found {
		return respondWithError(c, fiber.StatusNotFound,
			newNotFoundError("Post", id))
	}
	if !s.canModify(userID, post.UserID) {
		return respondWithError(c, fiber.StatusForbidden,
			newForbiddenError("You can only delete your own posts"))
	}

	s.store.deletePost(id)
	return c.SendStatus(fiber.StatusOK)
}
