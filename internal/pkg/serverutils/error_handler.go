package serverutils

import (
	"errors"

	"ai-companion-be/internal/pkg/apperror"
	"ai-companion-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors returned by handlers into the
// standard envelope. Internal causes are logged, never leaked.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status, message := statusFor(err)
		if status == fiber.StatusInternalServerError {
			log.Error("http", "unhandled error", map[string]interface{}{
				"path":  ctx.Path(),
				"error": err.Error(),
			})
			message = "Internal server error"
		}

		return ctx.Status(status).JSON(ErrorResponse(status, message))
	}
}

func statusFor(err error) (int, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	switch apperror.KindOf(err) {
	case apperror.KindInvalidInput:
		return fiber.StatusBadRequest, err.Error()
	case apperror.KindUnauthorized:
		return fiber.StatusUnauthorized, err.Error()
	case apperror.KindNotFound:
		return fiber.StatusNotFound, err.Error()
	case apperror.KindConflict:
		return fiber.StatusConflict, err.Error()
	case apperror.KindUpstreamUnavailable:
		// The chat flow recovers these locally; reaching here means a
		// non-chat caller surfaced one. Treat as unavailable.
		return fiber.StatusServiceUnavailable, "Upstream service unavailable"
	default:
		return fiber.StatusInternalServerError, err.Error()
	}
}
