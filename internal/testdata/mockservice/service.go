package mockservice

import (
	"context"

	"github.com/stretchr/testify/mock"

	"retail-analytics-service/internal/model"
	"retail-analytics-service/internal/service"
)

type DashboardService struct {
	mock.Mock
}

var _ service.DashboardService = &DashboardService{}

func (m *DashboardService) RenderDashboard(ctx context.Context, id int64, filters model.FilterContext) (*model.DashboardRender, error) {
	args := m.Called(ctx, id, filters)
	if v := args.Get(0); v != nil {
		return v.(*model.DashboardRender), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DashboardService) RenderMultiLevel(ctx context.Context, filters model.FilterContext) (*model.DashboardRender, error) {
	args := m.Called(ctx, filters)
	if v := args.Get(0); v != nil {
		return v.(*model.DashboardRender), args.Error(1)
	}
	return nil, args.Error(1)
}

type ObservationService struct {
	mock.Mock
}

var _ service.ObservationService = &ObservationService{}

func (m *ObservationService) ProcessObservation(ctx context.Context, req model.ObservationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type AttributeService struct {
	mock.Mock
}

var _ service.AttributeService = &AttributeService{}

func (m *AttributeService) SetProductAttribute(ctx context.Context, productID int64, code string, raw any) (*service.AttributeView, error) {
	args := m.Called(ctx, productID, code, raw)
	if v := args.Get(0); v != nil {
		return v.(*service.AttributeView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AttributeService) ListProductAttributes(ctx context.Context, productID int64) ([]service.AttributeView, error) {
	args := m.Called(ctx, productID)
	if v := args.Get(0); v != nil {
		return v.([]service.AttributeView), args.Error(1)
	}
	return nil, args.Error(1)
}
