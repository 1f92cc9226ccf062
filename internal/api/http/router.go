package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maher4real/support-ticket-system/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Tickets *handlers.TicketsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	tickets := api.Group("/tickets")

	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)

	// Static collection routes before the :id parameter.
	tickets.Get("/stats", cfg.Tickets.Stats)
	tickets.Post("/classify", cfg.Tickets.Classify)
	tickets.Post("/suggest-title", cfg.Tickets.SuggestTitle)

	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
}
