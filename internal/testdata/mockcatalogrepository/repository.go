package mockcatalogrepository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"retail-analytics-service/internal/model"
	"retail-analytics-service/internal/repository"
)

type Repository struct {
	mock.Mock
}

// Interface compliance check
var _ repository.CatalogRepository = &Repository{}

func (m *Repository) GetCoefficient(ctx context.Context, id int64) (*model.Coefficient, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Coefficient), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) GetAttributeDefinition(ctx context.Context, code string) (*model.AttributeDefinition, error) {
	args := m.Called(ctx, code)
	if v := args.Get(0); v != nil {
		return v.(*model.AttributeDefinition), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) GetAttributeValue(ctx context.Context, productID, attributeID int64) (*model.AttributeValue, error) {
	args := m.Called(ctx, productID, attributeID)
	if v := args.Get(0); v != nil {
		return v.(*model.AttributeValue), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) ListAttributeValues(ctx context.Context, productID int64) ([]model.AttributeValue, error) {
	args := m.Called(ctx, productID)
	if v := args.Get(0); v != nil {
		return v.([]model.AttributeValue), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) UpsertAttributeValue(ctx context.Context, value *model.AttributeValue) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

func (m *Repository) ProductIDsByAttributeCodes(ctx context.Context, codes []string) ([]int64, error) {
	args := m.Called(ctx, codes)
	if v := args.Get(0); v != nil {
		return v.([]int64), args.Error(1)
	}
	return nil, args.Error(1)
}
