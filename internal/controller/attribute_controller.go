package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"retail-analytics-service/internal/service"
)

type AttributeController interface {
	SetProductAttribute(c *fiber.Ctx) error
	ListProductAttributes(c *fiber.Ctx) error
}

type attributeController struct {
	attributes service.AttributeService
}

// NewAttributeController builds an AttributeController.
func NewAttributeController(svc service.AttributeService) AttributeController {
	return &attributeController{attributes: svc}
}

type setAttributeRequest struct {
	Value any `json:"value"`
}

// SetProductAttribute writes one typed attribute value of a product.
func (h *attributeController) SetProductAttribute(c *fiber.Ctx) error {
	productID, err := pathID(c)
	if err != nil {
		return err
	}

	code := utils.Trim(c.Params("code"), ' ')
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "attribute code is required")
	}

	var req setAttributeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}
	if req.Value == nil {
		return fiber.NewError(fiber.StatusBadRequest, "value is required")
	}

	view, err := h.attributes.SetProductAttribute(c.Context(), productID, code, req.Value)
	if err != nil {
		return mapError(err, "failed to set attribute")
	}
	return c.JSON(view)
}

// ListProductAttributes returns all attribute values of a product.
func (h *attributeController) ListProductAttributes(c *fiber.Ctx) error {
	productID, err := pathID(c)
	if err != nil {
		return err
	}

	views, err := h.attributes.ListProductAttributes(c.Context(), productID)
	if err != nil {
		return mapError(err, "failed to list attributes")
	}
	if views == nil {
		views = []service.AttributeView{}
	}
	return c.JSON(views)
}
