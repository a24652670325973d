package controller

import (
	"github.com/gofiber/fiber/v2"

	"retail-analytics-service/internal/model"
	"retail-analytics-service/internal/service"
)

type ObservationController interface {
	CreateObservation(c *fiber.Ctx) error
}

type observationController struct {
	observations service.ObservationService
}

// NewObservationController builds an ObservationController.
func NewObservationController(svc service.ObservationService) ObservationController {
	return &observationController{observations: svc}
}

// CreateObservation accepts single observation payloads. Accepted payloads
// are queued for batch insertion, not written synchronously.
func (h *observationController) CreateObservation(c *fiber.Ctx) error {
	var req model.ObservationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	if err := h.observations.ProcessObservation(c.Context(), req); err != nil {
		return mapError(err, "failed to process observation")
	}

	return c.SendStatus(fiber.StatusAccepted)
}
