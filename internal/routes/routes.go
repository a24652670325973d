package routes

import (
	"github.com/gofiber/fiber/v2"

	"retail-analytics-service/internal/controller"
)

// Register attaches all HTTP routes to the Fiber app.
func Register(
	app *fiber.App,
	dashboards controller.DashboardController,
	observations controller.ObservationController,
	attributes controller.AttributeController,
) {
	app.Get("/dashboards", dashboards.ListDashboards)
	app.Post("/dashboards", dashboards.CreateDashboard)
	app.Get("/dashboards/levels/render", dashboards.RenderMultiLevel)
	app.Get("/dashboards/:id", dashboards.GetDashboard)
	app.Put("/dashboards/:id", dashboards.UpdateDashboard)
	app.Delete("/dashboards/:id", dashboards.DeleteDashboard)
	app.Get("/dashboards/:id/render", dashboards.RenderDashboard)

	app.Post("/observations", observations.CreateObservation)

	app.Get("/products/:id/attributes", attributes.ListProductAttributes)
	app.Put("/products/:id/attributes/:code", attributes.SetProductAttribute)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
