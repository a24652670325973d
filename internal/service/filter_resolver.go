package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"retail-analytics-service/internal/model"
)

// Raw filter parameter names. These are the public query contract for any
// caller driving the aggregation engine.
const (
	paramPeriod   = "period"
	paramDateFrom = "date_from"
	paramDateTo   = "date_to"
	paramDataType = "data_type"
	paramLevel    = "level"
	paramEntityID = "entity_id"

	attrParamPrefix = "attr_"
)

const customDateLayout = "2006-01-02"

// FilterResolver turns raw query parameters into a normalized FilterContext.
type FilterResolver struct {
	now func() time.Time
}

// NewFilterResolver constructs a resolver using wall-clock time.
func NewFilterResolver() *FilterResolver {
	return &FilterResolver{now: time.Now}
}

// Resolve handles the per-dashboard mode where up to six geo identifiers are
// supplied directly.
func (r *FilterResolver) Resolve(params map[string]string) (model.FilterContext, error) {
	ctx, err := r.resolveCommon(params)
	if err != nil {
		return model.FilterContext{}, err
	}

	ctx.Geo = model.GeoPath{
		CountryID:  parseID(params[model.LevelCountry]),
		RegionID:   parseID(params[model.LevelRegion]),
		CityID:     parseID(params[model.LevelCity]),
		DistrictID: parseID(params[model.LevelDistrict]),
		ChannelID:  parseID(params[model.LevelChannel]),
		OutletID:   parseID(params[model.LevelOutlet]),
	}

	return ctx, nil
}

// ResolveMultiLevel handles the multi-level dashboard mode where a single
// level + entity_id pair binds exactly one geo level.
func (r *FilterResolver) ResolveMultiLevel(params map[string]string) (model.FilterContext, error) {
	ctx, err := r.resolveCommon(params)
	if err != nil {
		return model.FilterContext{}, err
	}

	level := params[paramLevel]
	if level == "" {
		level = model.LevelCountry
	}
	ctx.Level = level

	entityID := parseID(params[paramEntityID])
	switch level {
	case model.LevelCountry:
		ctx.Geo.CountryID = entityID
	case model.LevelRegion:
		ctx.Geo.RegionID = entityID
	case model.LevelCity:
		ctx.Geo.CityID = entityID
	case model.LevelDistrict:
		ctx.Geo.DistrictID = entityID
	case model.LevelChannel:
		ctx.Geo.ChannelID = entityID
	case model.LevelOutlet:
		ctx.Geo.OutletID = entityID
	}

	return ctx, nil
}

func (r *FilterResolver) resolveCommon(params map[string]string) (model.FilterContext, error) {
	period := params[paramPeriod]
	if period == "" {
		period = "month"
	}

	dateFrom, dateTo, err := r.resolvePeriod(period, params)
	if err != nil {
		return model.FilterContext{}, err
	}

	sourceType := model.DataSourceType(params[paramDataType])
	if !sourceType.Valid() {
		sourceType = model.SourceMonitoring
	}

	attrs := map[string]string{}
	for key, value := range params {
		if strings.HasPrefix(key, attrParamPrefix) && value != "" {
			attrs[strings.TrimPrefix(key, attrParamPrefix)] = value
		}
	}

	return model.FilterContext{
		Period:     period,
		DateFrom:   dateFrom,
		DateTo:     dateTo,
		Attributes: attrs,
		SourceType: sourceType,
	}, nil
}

// resolvePeriod implements the period keyword date math. Day-end boundaries
// are always 23:59:59 of the target day; unknown keywords behave as "month".
func (r *FilterResolver) resolvePeriod(period string, params map[string]string) (time.Time, time.Time, error) {
	now := r.now()
	midnight := startOfDay(now)

	switch period {
	case "today":
		return midnight, now, nil
	case "yesterday":
		from := midnight.AddDate(0, 0, -1)
		return from, endOfDay(from), nil
	case "week":
		return startOfWeek(now), now, nil
	case "last_week":
		from := startOfWeek(now).AddDate(0, 0, -7)
		return from, endOfDay(from.AddDate(0, 0, 6)), nil
	case "custom":
		fromStr := params[paramDateFrom]
		toStr := params[paramDateTo]
		if fromStr == "" || toStr == "" {
			return startOfMonth(now), now, nil
		}
		from, err := time.ParseInLocation(customDateLayout, fromStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse date_from: %w", err)
		}
		to, err := time.ParseInLocation(customDateLayout, toStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse date_to: %w", err)
		}
		return from, endOfDay(to), nil
	default: // "month" and anything unrecognized
		return startOfMonth(now), now, nil
	}
}

func parseID(raw string) int64 {
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// startOfWeek returns midnight of the most recent Monday.
func startOfWeek(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	return startOfDay(t.AddDate(0, 0, -daysSinceMonday))
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
