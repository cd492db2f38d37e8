// Package boardserver is an in-memory implementation of the ByteBoard
// service contract. It exists so the client layers have a faithful
// collaborator in integration tests and local development; it is not a
// production server.
package boardserver

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/krosengr4/byteboard/internal/models"
)

// AppError is a service-side error with a stable machine-readable code.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func newValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func newUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func newForbiddenError(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
	}
}

func newConflictError(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
	}
}

// respondWithError writes the standardized error body.
func respondWithError(c *fiber.Ctx, status int, err error) error {
	var response models.ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = models.ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = models.ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
