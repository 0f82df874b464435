package engine

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/go-hclog"
)

// NewErrorHandler renders AppErrors as the JSON error envelope and hides
// every other error behind INTERNAL_ERROR.
func NewErrorHandler(logger hclog.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return func(c *fiber.Ctx, err error) error {
		var appErr *AppError
		if errors.As(err, &appErr) {
			return c.Status(appErr.Status).JSON(ErrorResponse{Error: appErr})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Error: &AppError{Code: "HTTP_ERROR", Message: fiberErr.Message},
			})
		}

		logger.Error("unhandled request error", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: &AppError{
				Code:    "INTERNAL_ERROR",
				Message: "Internal server error",
			},
		})
	}
}
