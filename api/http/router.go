package http

import (
	"github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"

	"github.com/artem13815/hrbot/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app. authMW guards the admin API,
// which is left unregistered when admin is nil.
func Register(app *fiber.App, webhook *handlers.WebhookHandler, health *handlers.HealthHandler, admin *handlers.AdminHandler, authMW, adminMW fiber.Handler) {
	app.Post("/webhook", webhook.Webhook)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	if admin != nil {
		ag := v1.Group("/admin", authMW, adminMW)
		ag.Get("/resumes", admin.ListResumes)
		ag.Get("/vacancies/:id", admin.GetVacancy)
	}

	app.Get("/swagger/*", swagger.HandlerDefault)
}
