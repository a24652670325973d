package service

import (
	"context"
	"errors"

	"retail-analytics-service/internal/model"
	"retail-analytics-service/internal/repository"
)

// AttributeView is the rendered form of one product attribute value.
type AttributeView struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Value   any    `json:"value"`
	Display string `json:"display"`
	Unit    string `json:"unit,omitempty"`
}

// AttributeService manages dynamic product attribute values.
type AttributeService interface {
	// SetProductAttribute coerces raw into the attribute's typed slot and
	// persists it, replacing any existing value.
	SetProductAttribute(ctx context.Context, productID int64, code string, raw any) (*AttributeView, error)

	// ListProductAttributes returns all values of a product, rendered.
	ListProductAttributes(ctx context.Context, productID int64) ([]AttributeView, error)
}

type attributeService struct {
	catalog repository.CatalogRepository
}

// NewAttributeService constructs an attributeService.
func NewAttributeService(catalog repository.CatalogRepository) AttributeService {
	return &attributeService{catalog: catalog}
}

func (s *attributeService) SetProductAttribute(ctx context.Context, productID int64, code string, raw any) (*AttributeView, error) {
	def, err := s.catalog.GetAttributeDefinition(ctx, code)
	if err != nil {
		return nil, err
	}

	value, err := s.catalog.GetAttributeValue(ctx, productID, def.ID)
	if errors.Is(err, repository.ErrNotFound) {
		value = &model.AttributeValue{ProductID: productID, AttributeID: def.ID}
	} else if err != nil {
		return nil, err
	}
	value.Attribute = *def

	if err := value.SetValue(raw); err != nil {
		return nil, err
	}

	if err := s.catalog.UpsertAttributeValue(ctx, value); err != nil {
		return nil, err
	}

	view := renderAttribute(value)
	return &view, nil
}

func (s *attributeService) ListProductAttributes(ctx context.Context, productID int64) ([]AttributeView, error) {
	values, err := s.catalog.ListAttributeValues(ctx, productID)
	if err != nil {
		return nil, err
	}

	views := make([]AttributeView, 0, len(values))
	for i := range values {
		views = append(views, renderAttribute(&values[i]))
	}
	return views, nil
}

func renderAttribute(v *model.AttributeValue) AttributeView {
	return AttributeView{
		Code:    v.Attribute.Code,
		Name:    v.Attribute.Name,
		Type:    string(v.Attribute.DataType),
		Value:   v.Value(),
		Display: v.DisplayValue(),
		Unit:    v.Attribute.Unit,
	}
}
