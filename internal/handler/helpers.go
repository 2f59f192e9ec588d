package handler

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/In1quity/Fountain/internal/middleware"
	"github.com/In1quity/Fountain/internal/service"
	"github.com/In1quity/Fountain/internal/utils"
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

// titleParam returns the decoded article title from the route. Titles may
// contain slashes and percent escapes, so the raw parameter is unescaped.
func titleParam(c *fiber.Ctx) string {
	raw := c.Params("title")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// sendServiceError maps service sentinel errors onto HTTP statuses. Anything
// unmapped is logged and reported as an internal error with the given message.
func sendServiceError(c *fiber.Ctx, logger *zerolog.Logger, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrEditathonNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "editathon not found")
	case errors.Is(err, service.ErrArticleNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "article not found")
	case errors.Is(err, service.ErrNotJuror):
		return utils.SendError(c, fiber.StatusForbidden, "jury membership required")
	case errors.Is(err, service.ErrMalformedMarks):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request payload")
	default:
		logger.Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}
