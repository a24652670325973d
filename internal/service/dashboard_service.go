package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"retail-analytics-service/internal/model"
	"retail-analytics-service/internal/repository"
)

// ValidationError represents user input issues.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Truncation caps for temporal chart buckets.
const (
	maxDatePoints  = 30
	maxWeekPoints  = 12
	maxMonthPoints = 12

	defaultMaxSegments = 10
	defaultRowLimit    = 10
)

// Localized placeholders for missing group labels, matching the persisted
// dashboard wire format the UI already renders.
var missingLabels = map[model.GroupDimension]string{
	model.GroupByRegion:  "Без региона",
	model.GroupByChannel: "Без канала",
	model.GroupByOutlet:  "Без точки",
}

// DashboardService renders dashboards: it dispatches widget configs to the
// aggregation engine and isolates per-widget failures.
type DashboardService interface {
	RenderDashboard(ctx context.Context, id int64, filters model.FilterContext) (*model.DashboardRender, error)
	RenderMultiLevel(ctx context.Context, filters model.FilterContext) (*model.DashboardRender, error)
}

type dashboardService struct {
	dashboards   repository.DashboardRepository
	observations repository.ObservationRepository
	catalog      repository.CatalogRepository
}

// NewDashboardService constructs a dashboardService.
func NewDashboardService(
	dashboards repository.DashboardRepository,
	observations repository.ObservationRepository,
	catalog repository.CatalogRepository,
) DashboardService {
	return &dashboardService{
		dashboards:   dashboards,
		observations: observations,
		catalog:      catalog,
	}
}

// RenderDashboard renders one persisted dashboard with the given filters.
func (s *dashboardService) RenderDashboard(ctx context.Context, id int64, filters model.FilterContext) (*model.DashboardRender, error) {
	dashboard, err := s.dashboards.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cfg := dashboard.ParseWidgets()
	return &model.DashboardRender{
		Dashboard: dashboard,
		Period:    renderPeriod(filters),
		Widgets:   s.renderWidgets(ctx, cfg.Widgets, filters),
	}, nil
}

// RenderMultiLevel renders the dashboard bound to the filter's geo level,
// falling back to the first configured level dashboard.
func (s *dashboardService) RenderMultiLevel(ctx context.Context, filters model.FilterContext) (*model.DashboardRender, error) {
	levelDashboards, err := s.dashboards.ListLevelDashboards(ctx)
	if err != nil {
		return nil, err
	}
	if len(levelDashboards) == 0 {
		return nil, &ValidationError{Message: "no level dashboards configured"}
	}

	dashboard := &levelDashboards[0]
	for i := range levelDashboards {
		if levelDashboards[i].Level == filters.Level {
			dashboard = &levelDashboards[i]
			break
		}
	}

	cfg := dashboard.ParseWidgets()
	return &model.DashboardRender{
		Dashboard: dashboard,
		Level:     dashboard.Level,
		Period:    renderPeriod(filters),
		Widgets:   s.renderWidgets(ctx, cfg.Widgets, filters),
	}, nil
}

// renderWidgets dispatches each config by type, preserving input order.
// Unrecognized types are skipped. A failed widget becomes an error card and
// never aborts the rest of the dashboard.
func (s *dashboardService) renderWidgets(ctx context.Context, configs []model.WidgetConfig, filters model.FilterContext) []model.WidgetResult {
	widgets := make([]model.WidgetResult, 0, len(configs))

	for _, cfg := range configs {
		var (
			result model.WidgetResult
			err    error
		)

		switch {
		case cfg.Type == model.WidgetMetric:
			result, err = s.calculateMetric(ctx, cfg, filters)
		case cfg.Type == model.WidgetChart || model.IsChartWidgetType(cfg.Type):
			// type:"chart" with an inner chart_type is the legacy config
			// shape; native chart types go through the same path.
			result, err = s.calculateChart(ctx, cfg, filters)
		case cfg.Type == model.WidgetTable:
			result, err = s.calculateTable(ctx, cfg, filters)
		default:
			continue
		}

		if err != nil {
			widgets = append(widgets, model.WidgetResult{
				Type:  model.WidgetError,
				Title: defaultString(cfg.Title, "Виджет"),
				Error: err.Error(),
			})
			continue
		}
		widgets = append(widgets, result)
	}

	return widgets
}

// buildQuery normalizes the filter context into an observation predicate,
// resolving attribute filters into product ids through the reference store.
func (s *dashboardService) buildQuery(ctx context.Context, filters model.FilterContext, coefficientID int64) (model.ObservationQuery, error) {
	q := model.ObservationQuery{
		DateFrom:      filters.DateFrom,
		DateTo:        filters.DateTo,
		Geo:           filters.Geo,
		CoefficientID: coefficientID,
		SourceType:    filters.SourceType,
	}

	if len(filters.Attributes) > 0 {
		codes := make([]string, 0, len(filters.Attributes))
		for code := range filters.Attributes {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		ids, err := s.catalog.ProductIDsByAttributeCodes(ctx, codes)
		if err != nil {
			return model.ObservationQuery{}, fmt.Errorf("resolve attribute filters: %w", err)
		}
		if ids == nil {
			ids = []int64{}
		}
		q.ProductIDs = ids
	}

	return q, nil
}

func (s *dashboardService) calculateMetric(ctx context.Context, cfg model.WidgetConfig, filters model.FilterContext) (model.WidgetResult, error) {
	kind, ok := model.ParseAggregationKind(cfg.Aggregation)
	if !ok {
		return model.WidgetResult{}, fmt.Errorf("unsupported aggregation: %s", cfg.Aggregation)
	}

	q, err := s.buildQuery(ctx, filters, cfg.CoefficientID)
	if err != nil {
		return model.WidgetResult{}, err
	}

	value, err := s.observations.AggregateNumeric(ctx, q, kind)
	if err != nil {
		return model.WidgetResult{}, err
	}

	rounded := round2(value)
	return model.WidgetResult{
		Type:  model.WidgetMetric,
		Title: defaultString(cfg.Title, "Метрика"),
		Value: &rounded,
		Unit:  cfg.Unit,
		Color: defaultString(cfg.Color, "primary"),
	}, nil
}

func (s *dashboardService) calculateChart(ctx context.Context, cfg model.WidgetConfig, filters model.FilterContext) (model.WidgetResult, error) {
	dim := model.GroupDimension(defaultString(cfg.GroupBy, string(model.GroupByDate)))
	if _, known := chartDimensionCap(dim); !known {
		return model.WidgetResult{}, fmt.Errorf("unsupported group_by: %s", dim)
	}

	q, err := s.buildQuery(ctx, filters, cfg.CoefficientID)
	if err != nil {
		return model.WidgetResult{}, err
	}

	groups, err := s.observations.GroupedAverages(ctx, q, dim)
	if err != nil {
		return model.WidgetResult{}, err
	}

	if dim.Temporal() {
		limit, _ := chartDimensionCap(dim)
		groups = keepLatestBuckets(groups, limit)
	} else {
		maxSegments := cfg.MaxSegments
		if maxSegments <= 0 {
			maxSegments = defaultMaxSegments
		}
		groups = topSegments(groups, maxSegments)
	}

	labels := make([]string, 0, len(groups))
	values := make([]float64, 0, len(groups))
	for _, g := range groups {
		labels = append(labels, chartLabel(dim, g.Key))
		values = append(values, g.Avg)
	}

	return model.WidgetResult{
		Type:      model.WidgetChart,
		Title:     defaultString(cfg.Title, "График"),
		ChartType: chartType(cfg),
		Labels:    labels,
		Values:    values,
		Color:     defaultString(cfg.Color, "rgba(75, 192, 192, 0.8)"),
	}, nil
}

func (s *dashboardService) calculateTable(ctx context.Context, cfg model.WidgetConfig, filters model.FilterContext) (model.WidgetResult, error) {
	dim := model.GroupDimension(defaultString(cfg.GroupBy, string(model.GroupByOutlet)))
	switch dim {
	case model.GroupByOutlet, model.GroupByRegion, model.GroupByChannel, model.GroupByDate:
	default:
		return model.WidgetResult{}, fmt.Errorf("unsupported group_by: %s", dim)
	}

	q, err := s.buildQuery(ctx, filters, cfg.CoefficientID)
	if err != nil {
		return model.WidgetResult{}, err
	}

	groups, err := s.observations.GroupedAverages(ctx, q, dim)
	if err != nil {
		return model.WidgetResult{}, err
	}

	ascending := cfg.Sort == "asc"
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Avg != groups[j].Avg {
			if ascending {
				return groups[i].Avg < groups[j].Avg
			}
			return groups[i].Avg > groups[j].Avg
		}
		return groups[i].Key < groups[j].Key
	})

	rowLimit := cfg.RowLimit
	if rowLimit <= 0 {
		rowLimit = defaultRowLimit
	}
	if len(groups) > rowLimit {
		groups = groups[:rowLimit]
	}

	rows := make([]model.TableRow, 0, len(groups))
	for _, g := range groups {
		row := model.TableRow{
			Name:  tableName(dim, g.Key),
			Value: round2(g.Avg),
			Count: g.Count,
		}
		if dim == model.GroupByOutlet {
			row.Code = defaultString(g.Code, "-")
		}
		rows = append(rows, row)
	}

	return model.WidgetResult{
		Type:    model.WidgetTable,
		Title:   defaultString(cfg.Title, "Таблица"),
		Rows:    rows,
		GroupBy: string(dim),
	}, nil
}

// keepLatestBuckets orders buckets ascending by key and keeps the tail, so
// the most recent N buckets survive. Bucket keys are ISO-ordered strings.
func keepLatestBuckets(groups []model.GroupedValue, limit int) []model.GroupedValue {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
	if len(groups) > limit {
		groups = groups[len(groups)-limit:]
	}
	return groups
}

// topSegments orders categorical groups by descending average, breaking ties
// by label so truncation is deterministic.
func topSegments(groups []model.GroupedValue, limit int) []model.GroupedValue {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Avg != groups[j].Avg {
			return groups[i].Avg > groups[j].Avg
		}
		return groups[i].Key < groups[j].Key
	})
	if len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

func chartDimensionCap(dim model.GroupDimension) (int, bool) {
	switch dim {
	case model.GroupByDate:
		return maxDatePoints, true
	case model.GroupByWeek:
		return maxWeekPoints, true
	case model.GroupByMonth:
		return maxMonthPoints, true
	case model.GroupByRegion, model.GroupByChannel, model.GroupByOutlet:
		return 0, true
	default:
		return 0, false
	}
}

func chartLabel(dim model.GroupDimension, key string) string {
	switch dim {
	case model.GroupByDate:
		if d, err := time.Parse("2006-01-02", key); err == nil {
			return d.Format("02.01")
		}
		return key
	case model.GroupByWeek:
		return "Неделя " + key
	case model.GroupByMonth:
		return key
	default:
		if key == "" {
			return missingLabels[dim]
		}
		return key
	}
}

func tableName(dim model.GroupDimension, key string) string {
	switch dim {
	case model.GroupByDate:
		if d, err := time.Parse("2006-01-02", key); err == nil {
			return d.Format("02.01.2006")
		}
		return key
	case model.GroupByOutlet:
		return defaultString(key, "Без названия")
	default:
		if key == "" {
			return missingLabels[dim]
		}
		return key
	}
}

// chartType resolves the rendered chart type: explicit chart_type wins, then
// a native widget type, then line.
func chartType(cfg model.WidgetConfig) string {
	if cfg.ChartType != "" {
		return cfg.ChartType
	}
	if cfg.Type != "" && cfg.Type != model.WidgetChart {
		return cfg.Type
	}
	return "line"
}

func renderPeriod(filters model.FilterContext) model.RenderPeriod {
	return model.RenderPeriod{
		Period:   filters.Period,
		DateFrom: filters.DateFrom.Format(time.RFC3339),
		DateTo:   filters.DateTo.Format(time.RFC3339),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func defaultString(val, fallback string) string {
	if val == "" {
		return fallback
	}
	return val
}
