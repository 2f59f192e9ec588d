package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/In1quity/Fountain/internal/service"
	"github.com/In1quity/Fountain/internal/utils"
)

// EditathonHandler serves the read-only editathon endpoints.
type EditathonHandler struct {
	editathons service.EditathonService
	marks      service.MarkService
	logger     zerolog.Logger
}

// NewEditathonHandler constructs the handler.
func NewEditathonHandler(editathons service.EditathonService, marks service.MarkService, logger zerolog.Logger) *EditathonHandler {
	return &EditathonHandler{
		editathons: editathons,
		marks:      marks,
		logger:     logger.With().Str("component", "editathon_handler").Logger(),
	}
}

// Register wires the editathon routes.
func (h *EditathonHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:code", h.get)
	router.Get("/:code/results", h.results)
}

func (h *EditathonHandler) list(c *fiber.Ctx) error {
	summaries, err := h.editathons.List(c.Context())
	if err != nil {
		logger := requestLogger(h.logger, c)
		return sendServiceError(c, logger, err, "failed to list editathons")
	}

	return utils.SendSuccess(c, "editathons retrieved", summaries)
}

func (h *EditathonHandler) get(c *fiber.Ctx) error {
	detail, err := h.editathons.Get(c.Context(), c.Params("code"))
	if err != nil {
		logger := requestLogger(h.logger, c)
		return sendServiceError(c, logger, err, "failed to load editathon")
	}

	return utils.SendSuccess(c, "editathon retrieved", detail)
}

func (h *EditathonHandler) results(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil || limit < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	rows, err := h.marks.Results(c.Context(), c.Params("code"), limit)
	if err != nil {
		logger := requestLogger(h.logger, c)
		return sendServiceError(c, logger, err, "failed to compute results")
	}

	return utils.SendSuccess(c, "results computed", rows)
}
