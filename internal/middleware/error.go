package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/thermalreport/internal/logging"
	"github.com/soltixdb/thermalreport/internal/models"
	"github.com/soltixdb/thermalreport/internal/services"
)

// ErrorHandler returns a custom error handler that renders every error as a
// models.ErrorResponse. Fiber errors keep their status; service errors map to
// 400; anything else is a 500 whose message is not exposed.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		detail := models.ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: "Internal Server Error",
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			detail.Code = "ERROR"
			detail.Message = fiberErr.Message
		} else if svcErr, ok := services.AsServiceError(err); ok {
			code = fiber.StatusBadRequest
			detail.Code = svcErr.Code
			detail.Message = svcErr.Message
			detail.Details = svcErr.Details
		}

		logger.WithContext(c.UserContext()).Error("Request error",
			"path", c.Path(),
			"method", c.Method(),
			"status", code,
			"error", err,
		)

		return c.Status(code).JSON(models.ErrorResponse{Error: detail})
	}
}
