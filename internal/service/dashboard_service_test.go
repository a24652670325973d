package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"retail-analytics-service/internal/model"
	mockcatalogrepository "retail-analytics-service/internal/testdata/mockcatalogrepository"
	mockdashboardrepository "retail-analytics-service/internal/testdata/mockdashboardrepository"
	mockobservationrepository "retail-analytics-service/internal/testdata/mockobservationrepository"
)

type DashboardServiceTestSuite struct {
	suite.Suite

	dashboards   *mockdashboardrepository.Repository
	observations *mockobservationrepository.Repository
	catalog      *mockcatalogrepository.Repository

	service *dashboardService
	filters model.FilterContext
}

func TestDashboardServiceSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceTestSuite))
}

func (s *DashboardServiceTestSuite) SetupTest() {
	s.dashboards = &mockdashboardrepository.Repository{}
	s.observations = &mockobservationrepository.Repository{}
	s.catalog = &mockcatalogrepository.Repository{}

	svc := NewDashboardService(s.dashboards, s.observations, s.catalog)
	s.service = svc.(*dashboardService)

	s.filters = model.FilterContext{
		Period:     "month",
		DateFrom:   time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		DateTo:     time.Date(2023, 3, 15, 14, 30, 0, 0, time.UTC),
		SourceType: model.SourceMonitoring,
	}
}

func (s *DashboardServiceTestSuite) TestCalculateMetric_RoundsToTwoDecimals() {
	cfg := model.WidgetConfig{Type: model.WidgetMetric, CoefficientID: 1, Aggregation: "avg"}
	s.observations.On("AggregateNumeric", mock.Anything, mock.Anything, model.AggAvg).Return(12.3456, nil)

	result, err := s.service.calculateMetric(context.Background(), cfg, s.filters)

	s.NoError(err)
	s.Equal(model.WidgetMetric, result.Type)
	s.Equal("Метрика", result.Title, "missing title falls back to the default")
	s.Equal("primary", result.Color)
	s.NotNil(result.Value)
	s.Equal(12.35, *result.Value)
}

func (s *DashboardServiceTestSuite) TestCalculateMetric_EmptySetIsZero() {
	cfg := model.WidgetConfig{Type: model.WidgetMetric, CoefficientID: 1, Aggregation: "sum"}
	s.observations.On("AggregateNumeric", mock.Anything, mock.Anything, model.AggSum).Return(0.0, nil)

	result, err := s.service.calculateMetric(context.Background(), cfg, s.filters)

	s.NoError(err)
	s.NotNil(result.Value)
	s.Zero(*result.Value)
}

func (s *DashboardServiceTestSuite) TestCalculateMetric_UnknownAggregation() {
	cfg := model.WidgetConfig{Type: model.WidgetMetric, CoefficientID: 1, Aggregation: "median"}

	_, err := s.service.calculateMetric(context.Background(), cfg, s.filters)

	s.Error(err)
}

func (s *DashboardServiceTestSuite) TestCalculateChart_TemporalKeepsLatestBuckets() {
	base := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	groups := make([]model.GroupedValue, 0, 40)
	for i := 0; i < 40; i++ {
		groups = append(groups, model.GroupedValue{
			Key: base.AddDate(0, 0, i).Format("2006-01-02"), Avg: float64(i), Count: 1,
		})
	}
	// Shuffle-ish: the store gives no ordering guarantee.
	groups[0], groups[39] = groups[39], groups[0]

	cfg := model.WidgetConfig{Type: "line", CoefficientID: 1, GroupBy: "date"}
	s.observations.On("GroupedAverages", mock.Anything, mock.Anything, model.GroupByDate).Return(groups, nil)

	result, err := s.service.calculateChart(context.Background(), cfg, s.filters)

	s.NoError(err)
	s.Len(result.Labels, 30)
	s.Equal("11.03", result.Labels[0], "oldest surviving bucket")
	s.Equal("09.04", result.Labels[29], "most recent bucket is last")
	s.Equal("line", result.ChartType)
}

func (s *DashboardServiceTestSuite) TestCalculateChart_WeekLabels() {
	groups := []model.GroupedValue{
		{Key: "2023-11", Avg: 5, Count: 2},
		{Key: "2023-10", Avg: 3, Count: 1},
	}
	cfg := model.WidgetConfig{Type: model.WidgetChart, ChartType: "bar", CoefficientID: 1, GroupBy: "week"}
	s.observations.On("GroupedAverages", mock.Anything, mock.Anything, model.GroupByWeek).Return(groups, nil)

	result, err := s.service.calculateChart(context.Background(), cfg, s.filters)

	s.NoError(err)
	s.Equal([]string{"Неделя 2023-10", "Неделя 2023-11"}, result.Labels)
	s.Equal([]float64{3, 5}, result.Values)
	s.Equal("bar", result.ChartType)
}

func (s *DashboardServiceTestSuite) TestCalculateChart_CategoricalTopSegments() {
	groups := []model.GroupedValue{
		{Key: "Юг", Avg: 1, Count: 1},
		{Key: "", Avg: 7, Count: 2},
		{Key: "Север", Avg: 9, Count: 3},
		{Key: "Запад", Avg: 7, Count: 1},
	}
	cfg := model.WidgetConfig{Type: "pie", CoefficientID: 1, GroupBy: "region", MaxSegments: 3}
	s.observations.On("GroupedAverages", mock.Anything, mock.Anything, model.GroupByRegion).Return(groups, nil)

	result, err := s.service.calculateChart(context.Background(), cfg, s.filters)

	s.NoError(err)
	s.Equal([]string{"Север", "Без региона", "Запад"}, result.Labels, "descending by average, empty key ties sort before named")
	s.Equal([]float64{9, 7, 7}, result.Values)
	s.Equal("pie", result.ChartType)
}

func (s *DashboardServiceTestSuite) TestCalculateChart_DefaultsToDate() {
	cfg := model.WidgetConfig{Type: model.WidgetChart, CoefficientID: 1}
	s.observations.On("GroupedAverages", mock.Anything, mock.Anything, model.GroupByDate).Return([]model.GroupedValue(nil), nil)

	result, err := s.service.calculateChart(context.Background(), cfg, s.filters)

	s.NoError(err)
	s.Empty(result.Labels)
	s.Equal("line", result.ChartType, "bare chart type falls back to line")
	s.Equal("График", result.Title)
}

func (s *DashboardServiceTestSuite) TestCalculateTable_SortAndLimit() {
	groups := []model.GroupedValue{
		{Key: "Точка А", Code: "A-1", Avg: 4.449, Count: 10},
		{Key: "", Code: "", Avg: 9.1, Count: 5},
		{Key: "Точка Б", Code: "B-2", Avg: 7.5, Count: 3},
	}
	cfg := model.WidgetConfig{Type: model.WidgetTable, CoefficientID: 1, RowLimit: 2}
	s.observations.On("GroupedAverages", mock.Anything, mock.Anything, model.GroupByOutlet).Return(groups, nil)

	result, err := s.service.calculateTable(context.Background(), cfg, s.filters)

	s.NoError(err)
	s.Equal("outlet", result.GroupBy)
	s.Len(result.Rows, 2)
	s.Equal(model.TableRow{Name: "Без названия", Code: "-", Value: 9.1, Count: 5}, result.Rows[0])
	s.Equal(model.TableRow{Name: "Точка Б", Code: "B-2", Value: 7.5, Count: 3}, result.Rows[1])
}

func (s *DashboardServiceTestSuite) TestCalculateTable_Ascending() {
	groups := []model.GroupedValue{
		{Key: "Сеть", Avg: 5, Count: 1},
		{Key: "Розница", Avg: 2, Count: 1},
	}
	cfg := model.WidgetConfig{Type: model.WidgetTable, CoefficientID: 1, GroupBy: "channel", Sort: "asc"}
	s.observations.On("GroupedAverages", mock.Anything, mock.Anything, model.GroupByChannel).Return(groups, nil)

	result, err := s.service.calculateTable(context.Background(), cfg, s.filters)

	s.NoError(err)
	s.Equal("Розница", result.Rows[0].Name)
	s.Empty(result.Rows[0].Code, "code is outlet-only")
}

func (s *DashboardServiceTestSuite) TestRenderWidgets_ErrorIsolationAndSkipping() {
	configs := []model.WidgetConfig{
		{Type: model.WidgetMetric, CoefficientID: 1, Title: "Выполнение"},
		{Type: "hologram", CoefficientID: 2},
		{Type: model.WidgetMetric, CoefficientID: 3},
	}
	s.observations.On("AggregateNumeric", mock.Anything, mock.MatchedBy(func(q model.ObservationQuery) bool {
		return q.CoefficientID == 1
	}), model.AggAvg).Return(10.0, nil)
	s.observations.On("AggregateNumeric", mock.Anything, mock.MatchedBy(func(q model.ObservationQuery) bool {
		return q.CoefficientID == 3
	}), model.AggAvg).Return(0.0, errors.New("storage unavailable"))

	widgets := s.service.renderWidgets(context.Background(), configs, s.filters)

	s.Len(widgets, 2, "unknown widget types are dropped silently")
	s.Equal("Выполнение", widgets[0].Title)
	s.Equal(model.WidgetError, widgets[1].Type)
	s.Equal("Виджет", widgets[1].Title)
	s.Equal("storage unavailable", widgets[1].Error)
}

func (s *DashboardServiceTestSuite) TestBuildQuery_AttributeFilters() {
	s.filters.Attributes = map[string]string{"brand": "acme", "size": "xl"}
	s.catalog.On("ProductIDsByAttributeCodes", mock.Anything, []string{"brand", "size"}).Return([]int64{3, 7}, nil)

	q, err := s.service.buildQuery(context.Background(), s.filters, 1)

	s.NoError(err)
	s.Equal([]int64{3, 7}, q.ProductIDs)
}

func (s *DashboardServiceTestSuite) TestBuildQuery_NoMatchingProductsStaysEmpty() {
	s.filters.Attributes = map[string]string{"brand": "ghost"}
	s.catalog.On("ProductIDsByAttributeCodes", mock.Anything, []string{"brand"}).Return([]int64(nil), nil)

	q, err := s.service.buildQuery(context.Background(), s.filters, 1)

	s.NoError(err)
	s.NotNil(q.ProductIDs, "no matches must narrow to nothing, not widen")
	s.Empty(q.ProductIDs)
}

func (s *DashboardServiceTestSuite) TestBuildQuery_NoAttributes() {
	q, err := s.service.buildQuery(context.Background(), s.filters, 1)

	s.NoError(err)
	s.Nil(q.ProductIDs)
	s.catalog.AssertNotCalled(s.T(), "ProductIDsByAttributeCodes")
}

func (s *DashboardServiceTestSuite) TestRenderDashboard() {
	widgets := []byte(`{"widgets": [{"type": "metric", "coefficient_id": 5, "title": "Цена", "aggregation": "max"}]}`)
	dashboard := &model.Dashboard{ID: 9, Name: "Основной", WidgetsConfig: widgets}
	s.dashboards.On("Get", mock.Anything, int64(9)).Return(dashboard, nil)
	s.observations.On("AggregateNumeric", mock.Anything, mock.Anything, model.AggMax).Return(99.999, nil)

	render, err := s.service.RenderDashboard(context.Background(), 9, s.filters)

	s.NoError(err)
	s.Equal(dashboard, render.Dashboard)
	s.Equal("month", render.Period.Period)
	s.Len(render.Widgets, 1)
	s.Equal(100.0, *render.Widgets[0].Value)
}

func (s *DashboardServiceTestSuite) TestRenderMultiLevel_PicksLevelDashboard() {
	country := model.Dashboard{ID: 1, Level: "country", WidgetsConfig: []byte(`{"widgets": []}`)}
	region := model.Dashboard{ID: 2, Level: "region", WidgetsConfig: []byte(`{"widgets": []}`)}
	s.dashboards.On("ListLevelDashboards", mock.Anything).Return([]model.Dashboard{country, region}, nil)

	s.filters.Level = "region"
	render, err := s.service.RenderMultiLevel(context.Background(), s.filters)

	s.NoError(err)
	s.Equal(int64(2), render.Dashboard.ID)
	s.Equal("region", render.Level)
}

func (s *DashboardServiceTestSuite) TestRenderMultiLevel_FallsBackToFirst() {
	country := model.Dashboard{ID: 1, Level: "country", WidgetsConfig: []byte(`{"widgets": []}`)}
	s.dashboards.On("ListLevelDashboards", mock.Anything).Return([]model.Dashboard{country}, nil)

	s.filters.Level = "city"
	render, err := s.service.RenderMultiLevel(context.Background(), s.filters)

	s.NoError(err)
	s.Equal(int64(1), render.Dashboard.ID)
}

func (s *DashboardServiceTestSuite) TestRenderMultiLevel_NoneConfigured() {
	s.dashboards.On("ListLevelDashboards", mock.Anything).Return([]model.Dashboard{}, nil)

	_, err := s.service.RenderMultiLevel(context.Background(), s.filters)

	s.Error(err)
	s.IsType(&ValidationError{}, err)
}
