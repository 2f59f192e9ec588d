package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/In1quity/Fountain/internal/dto"
	"github.com/In1quity/Fountain/internal/middleware"
	"github.com/In1quity/Fountain/internal/service"
	"github.com/In1quity/Fountain/internal/utils"
)

// SubmissionHandler serves article submission and removal.
type SubmissionHandler struct {
	submissions service.SubmissionService
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(submissions service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		logger:      logger.With().Str("component", "submission_handler").Logger(),
		now:         time.Now,
	}
}

// Register wires the submission routes. Both require an authenticated user.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Post("/:code/articles", h.submit)
	router.Delete("/:code/articles", h.remove)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	username := middleware.Username(c)
	if username == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.SubmitArticleRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	logger := requestLogger(h.logger, c)
	resp, err := h.submissions.Submit(c.Context(), c.Params("code"), payload.Title, username, h.now().UTC())
	if err != nil {
		return sendServiceError(c, logger, err, "failed to process submission")
	}

	return utils.SendSuccess(c, "submission processed", resp)
}

func (h *SubmissionHandler) remove(c *fiber.Ctx) error {
	username := middleware.Username(c)
	if username == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.RemoveArticlesRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(payload.IDs) == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "ids must not be empty")
	}

	logger := requestLogger(h.logger, c)
	if err := h.submissions.RemoveArticles(c.Context(), c.Params("code"), payload.IDs, username); err != nil {
		return sendServiceError(c, logger, err, "failed to remove articles")
	}

	return utils.SendSuccess(c, "articles removed", fiber.Map{"removed": len(payload.IDs)})
}
