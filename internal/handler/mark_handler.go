package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/In1quity/Fountain/internal/dto"
	"github.com/In1quity/Fountain/internal/middleware"
	"github.com/In1quity/Fountain/internal/service"
	"github.com/In1quity/Fountain/internal/utils"
)

// MarkHandler serves juror marking and aggregate reads.
type MarkHandler struct {
	marks  service.MarkService
	logger zerolog.Logger
}

// NewMarkHandler constructs the handler.
func NewMarkHandler(marks service.MarkService, logger zerolog.Logger) *MarkHandler {
	return &MarkHandler{
		marks:  marks,
		logger: logger.With().Str("component", "mark_handler").Logger(),
	}
}

// Register wires the open aggregate read.
func (h *MarkHandler) Register(router fiber.Router) {
	router.Get("/:code/articles/:title/aggregate", h.aggregate)
}

// RegisterProtected wires the juror mark write. The group must carry the
// authentication middleware.
func (h *MarkHandler) RegisterProtected(router fiber.Router) {
	router.Post("/:code/marks", h.setMark)
}

func (h *MarkHandler) setMark(c *fiber.Ctx) error {
	username := middleware.Username(c)
	if username == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.SetMarkRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	logger := requestLogger(h.logger, c)
	if err := h.marks.SetMark(c.Context(), c.Params("code"), username, payload); err != nil {
		return sendServiceError(c, logger, err, "failed to store mark")
	}

	return utils.SendSuccess(c, "mark stored", nil)
}

func (h *MarkHandler) aggregate(c *fiber.Ctx) error {
	logger := requestLogger(h.logger, c)
	response, err := h.marks.GetAggregate(c.Context(), c.Params("code"), titleParam(c))
	if err != nil {
		return sendServiceError(c, logger, err, "failed to compute aggregate")
	}

	return utils.SendSuccess(c, "aggregate computed", response)
}
