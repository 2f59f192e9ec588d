package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/In1quity/Fountain/internal/config"
	"github.com/In1quity/Fountain/internal/handler"
	"github.com/In1quity/Fountain/internal/middleware"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EditathonHandler  *handler.EditathonHandler
	SubmissionHandler *handler.SubmissionHandler
	MarkHandler       *handler.MarkHandler
	AuthMiddleware    fiber.Handler
}

// Register wires the HTTP routes into the fiber application. Reads are open;
// submissions and marks require an authenticated user.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	auth := deps.AuthMiddleware
	if auth == nil {
		auth = func(c *fiber.Ctx) error { return c.Next() }
	}

	editathons := api.Group("/editathons")
	if deps.EditathonHandler != nil {
		deps.EditathonHandler.Register(editathons)
	}

	if deps.MarkHandler != nil {
		deps.MarkHandler.Register(editathons)
		deps.MarkHandler.RegisterProtected(api.Group("/editathons", auth))
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/editathons", auth,
			middleware.RateLimit("submit", cfg.SubmitRateLimit, time.Minute))
		deps.SubmissionHandler.Register(submissions)
	}
}
