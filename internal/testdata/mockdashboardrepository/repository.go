package mockdashboardrepository

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
var _ repository.DashboardRepository = &Repository{}

func (m *Repository) List(ctx context.Context) ([]model.Dashboard, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.Dashboard), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) Get(ctx context.Context, id int64) (*model.Dashboard, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Dashboard), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) Create(ctx context.Context, d *model.Dashboard) (int64, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Repository) Update(ctx context.Context, d *model.Dashboard) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *Repository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Repository) ListLevelDashboards(ctx context.Context) ([]model.Dashboard, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.Dashboard), args.Error(1)
	}
	return nil, args.Error(1)
}
