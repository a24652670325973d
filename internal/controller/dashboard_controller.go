package controller

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"retail-analytics-service/internal/model"
	"retail-analytics-service/internal/repository"
	"retail-analytics-service/internal/service"
)

type DashboardController interface {
	ListDashboards(c *fiber.Ctx) error
	GetDashboard(c *fiber.Ctx) error
	CreateDashboard(c *fiber.Ctx) error
	UpdateDashboard(c *fiber.Ctx) error
	DeleteDashboard(c *fiber.Ctx) error
	RenderDashboard(c *fiber.Ctx) error
	RenderMultiLevel(c *fiber.Ctx) error
}

type dashboardController struct {
	dashboards repository.DashboardRepository
	renderer   service.DashboardService
	resolver   *service.FilterResolver
}

// NewDashboardController builds a DashboardController.
func NewDashboardController(
	dashboards repository.DashboardRepository,
	renderer service.DashboardService,
	resolver *service.FilterResolver,
) DashboardController {
	return &dashboardController{
		dashboards: dashboards,
		renderer:   renderer,
		resolver:   resolver,
	}
}

func (h *dashboardController) ListDashboards(c *fiber.Ctx) error {
	dashboards, err := h.dashboards.List(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list dashboards")
	}
	if dashboards == nil {
		dashboards = []model.Dashboard{}
	}
	return c.JSON(dashboards)
}

func (h *dashboardController) GetDashboard(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	dashboard, err := h.dashboards.Get(c.Context(), id)
	if err != nil {
		return mapError(err, "failed to load dashboard")
	}
	return c.JSON(dashboard)
}

func (h *dashboardController) CreateDashboard(c *fiber.Ctx) error {
	var dashboard model.Dashboard
	if err := c.BodyParser(&dashboard); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}
	if dashboard.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	id, err := h.dashboards.Create(c.Context(), &dashboard)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create dashboard")
	}
	dashboard.ID = id
	return c.Status(fiber.StatusCreated).JSON(dashboard)
}

func (h *dashboardController) UpdateDashboard(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var dashboard model.Dashboard
	if err := c.BodyParser(&dashboard); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}
	dashboard.ID = id

	if err := h.dashboards.Update(c.Context(), &dashboard); err != nil {
		return mapError(err, "failed to update dashboard")
	}
	return c.JSON(dashboard)
}

func (h *dashboardController) DeleteDashboard(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.dashboards.Delete(c.Context(), id); err != nil {
		return mapError(err, "failed to delete dashboard")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *dashboardController) RenderDashboard(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	filters, err := h.resolver.Resolve(queryParams(c))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	render, err := h.renderer.RenderDashboard(c.Context(), id, filters)
	if err != nil {
		return mapError(err, "failed to render dashboard")
	}
	return c.JSON(render)
}

func (h *dashboardController) RenderMultiLevel(c *fiber.Ctx) error {
	filters, err := h.resolver.ResolveMultiLevel(queryParams(c))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	render, err := h.renderer.RenderMultiLevel(c.Context(), filters)
	if err != nil {
		return mapError(err, "failed to render level dashboard")
	}
	return c.JSON(render)
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// queryParams flattens the query string into the resolver's map contract.
func queryParams(c *fiber.Ctx) map[string]string {
	return c.Queries()
}

func mapError(err error, fallback string) error {
	var (
		validation *service.ValidationError
		coercion   *model.CoercionError
	)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.As(err, &validation):
		return fiber.NewError(fiber.StatusBadRequest, validation.Error())
	case errors.As(err, &coercion):
		return fiber.NewError(fiber.StatusBadRequest, coercion.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, fallback)
	}
}
