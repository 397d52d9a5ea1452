package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"portfolio/internal/repositories"
	"portfolio/internal/services"
	"portfolio/internal/validation"
	"portfolio/pkg/github"
)

// maxErrorExcerpt bounds internal error text echoed to clients.
const maxErrorExcerpt = 80

// respondError writes the response for err and returns nil so the error does
// not reach the app's error handler a second time.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	var verr *validation.ValidationError
	var upstream *github.UpstreamError
	var ferr *fiber.Error

	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verr.Fields,
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Not found"})
	case errors.As(err, &upstream):
		logger.Warn("upstream error", zap.Int("status", upstream.StatusCode), zap.String("path", c.Path()))
		return c.Status(upstream.StatusCode).JSON(fiber.Map{"detail": upstream.Body})
	case errors.Is(err, github.ErrTimeout):
		logger.Error("upstream timeout", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"detail": "GitHub request timed out"})
	case errors.Is(err, github.ErrUnreachable):
		logger.Error("upstream unreachable", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"detail": "GitHub is unreachable"})
	case errors.Is(err, repositories.ErrStorageUnavailable):
		logger.Error("storage unavailable", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"detail": "Database not available: " + truncate(err.Error(), maxErrorExcerpt),
		})
	case errors.As(err, &ferr):
		return c.Status(ferr.Code).JSON(fiber.Map{"detail": ferr.Message})
	default:
		logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": truncate(err.Error(), maxErrorExcerpt),
		})
	}
}

// ErrorHandler is the fiber error handler for errors that escape a handler,
// such as unknown routes and recovered panics.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return c.Status(ferr.Code).JSON(fiber.Map{"detail": ferr.Message})
		}
		logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Internal Server Error"})
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
