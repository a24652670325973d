package mockobservationrepository

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
var _ repository.ObservationRepository = &Repository{}

func (m *Repository) Insert(ctx context.Context, obs model.Observation) error {
	args := m.Called(ctx, obs)
	return args.Error(0)
}

func (m *Repository) InsertBatch(ctx context.Context, obs []model.Observation) error {
	args := m.Called(ctx, obs)
	return args.Error(0)
}

func (m *Repository) AggregateNumeric(ctx context.Context, q model.ObservationQuery, kind model.AggregationKind) (float64, error) {
	args := m.Called(ctx, q, kind)
	return args.Get(0).(float64), args.Error(1)
}

func (m *Repository) GroupedAverages(ctx context.Context, q model.ObservationQuery, dim model.GroupDimension) ([]model.GroupedValue, error) {
	args := m.Called(ctx, q, dim)
	if v := args.Get(0); v != nil {
		return v.([]model.GroupedValue), args.Error(1)
	}
	return nil, args.Error(1)
}
