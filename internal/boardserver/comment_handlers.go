package boardserver

import (
	"github.com/gofiber/fiber/v2"

	"github.com/krosengr4/byteboard/internal/models"
)

// ListComments handles GET /posts/:id/comments.
func (s *Server) ListComments(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Invalid post ID"))
	}
	if _, found := s.store.post(postID); !found {
		return respondWithError(c, fiber.StatusNotFound,
			newNotFoundError("Post", postID))
	}
	return c.JSON(s.store.commentsForPost(postID))
}

// CreateComment handles POST /posts/:id/comments.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, ok := parseID(c, "id")
	if !ok {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Invalid post ID"))
	}
	if _, found := s.store.post(postID); !found {
		return respondWithError(c, fiber.StatusNotFound,
			newNotFoundError("Post", postID))
	}

	var req models.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Invalid request body"))
	}
	if req.Content == "" {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Content is required"))
	}

	user, _ := s.store.userByID(userID)
	comment := s.store.createComment(postID, userID, user.Username, req.Content)
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PUT /comments/:id. Owner-only; success returns no
// body, the client commits the content it sent.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, ok := parseID(c, "id")
	if !ok {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Invalid comment ID"))
	}

	comment, found := s.store.comment(id)
	if !found {
		return respondWithError(c, fiber.StatusNotFound,
			newNotFoundError("Comment", id))
	}
	if !s.canModify(userID, comment.UserID) {
		return respondWithError(c, fiber.StatusForbidden,
			newForbiddenError("You can only update your own comments"))
	}

	var req models.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Invalid request body"))
	}
	if req.Content == "" {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Content is required"))
	}

	s.store.updateComment(id, req.Content)
	return c.SendStatus(fiber.StatusOK)
}

// DeleteComment handles DELETE /comments/:id. Owner-only.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, ok := parseID(c, "id")
	if !ok {
		return respondWithError(c, fiber.StatusBadRequest,
			newValidationError("Invalid comment ID"))
	}

	comment, found := s.store.comment(id)
	if !found {
		return respondWithError(c, fiber.StatusNotFound,
			newNotFoundError("Comment", id))
	}
	if !s.canModify(userID, comment.UserID) {
		return respondWithError(c, fiber.StatusForbidden,
			newForbiddenError("You can only delete your own comments"))
	}

	s.store.deleteComment(id)
	return c.SendStatus(fiber.StatusOK)
}
