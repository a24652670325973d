package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"

	"retail-analytics-service/internal/model"
)

// ObservationRepository defines analytics-store operations for observations.
type ObservationRepository interface {
	// Insert writes a single observation.
	Insert(ctx context.Context, obs model.Observation) error

	// InsertBatch writes multiple observations efficiently using a prepared
	// batch.
	InsertBatch(ctx context.Context, obs []model.Observation) error

	// AggregateNumeric computes one scalar aggregate over value_numeric for
	// the filtered set. An empty set yields 0.
	AggregateNumeric(ctx context.Context, q model.ObservationQuery, kind model.AggregationKind) (float64, error)

	// GroupedAverages computes the per-group average of value_numeric and the
	// row count for the filtered set. No ordering or truncation is applied
	// here; that is the aggregation engine's job.
	GroupedAverages(ctx context.Context, q model.ObservationQuery, dim model.GroupDimension) ([]model.GroupedValue, error)
}

type observationRepository struct {
	conn clickhouse.Conn
}

// NewObservationRepository creates an ObservationRepository backed by
// ClickHouse.
func NewObservationRepository(conn clickhouse.Conn) ObservationRepository {
	return &observationRepository{conn: conn}
}

const insertObservationQuery = `
	INSERT INTO observations
		(visit_id, coefficient_id, product_id, data_source_type,
		 value_numeric, value_text, value_boolean,
		 visit_start_date, created_at,
		 outlet_id, outlet_name, outlet_code,
		 channel_id, channel_name, district_id, city_id,
		 region_id, region_name, country_id, notes)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const insertObservationBatchQuery = `
	INSERT INTO observations
		(visit_id, coefficient_id, product_id, data_source_type,
		 value_numeric, value_text, value_boolean,
		 visit_start_date, created_at,
		 outlet_id, outlet_name, outlet_code,
		 channel_id, channel_name, district_id, city_id,
		 region_id, region_name, country_id, notes)
`

func observationArgs(obs model.Observation) []any {
	return []any{
		obs.VisitID,
		obs.CoefficientID,
		obs.ProductID,
		string(obs.SourceType),
		obs.ValueNumeric,
		obs.ValueText,
		obs.ValueBoolean,
		obs.VisitStartDate,
		obs.CreatedAt,
		obs.Outlet.OutletID,
		obs.Outlet.OutletName,
		obs.Outlet.OutletCode,
		obs.Outlet.ChannelID,
		obs.Outlet.ChannelName,
		obs.Outlet.DistrictID,
		obs.Outlet.CityID,
		obs.Outlet.RegionID,
		obs.Outlet.RegionName,
		obs.Outlet.CountryID,
		obs.Notes,
	}
}

func (r *observationRepository) Insert(ctx context.Context, obs model.Observation) error {
	return r.conn.Exec(ctx, insertObservationQuery, observationArgs(obs)...)
}

func (r *observationRepository) InsertBatch(ctx context.Context, obs []model.Observation) error {
	if len(obs) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertObservationBatchQuery)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, o := range obs {
		if err := batch.Append(observationArgs(o)...); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

func (r *observationRepository) AggregateNumeric(ctx context.Context, q model.ObservationQuery, kind model.AggregationKind) (float64, error) {
	where, args := buildObservationWhere(q)

	if kind == model.AggCount {
		var count uint64
		row := r.conn.QueryRow(ctx, "SELECT count() FROM observations "+where, args...)
		if err := row.Scan(&count); err != nil {
			return 0, fmt.Errorf("count observations: %w", err)
		}
		return float64(count), nil
	}

	var expr string
	switch kind {
	case model.AggAvg:
		expr = "avg(value_numeric)"
	case model.AggSum:
		expr = "sum(value_numeric)"
	case model.AggMin:
		expr = "min(value_numeric)"
	case model.AggMax:
		expr = "max(value_numeric)"
	default:
		return 0, fmt.Errorf("unsupported aggregation: %s", kind)
	}

	var value *float64
	row := r.conn.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM observations %s", expr, where), args...)
	if err := row.Scan(&value); err != nil {
		return 0, fmt.Errorf("aggregate observations: %w", err)
	}
	if value == nil {
		return 0, nil
	}
	return *value, nil
}

func (r *observationRepository) GroupedAverages(ctx context.Context, q model.ObservationQuery, dim model.GroupDimension) ([]model.GroupedValue, error) {
	where, args := buildObservationWhere(q)

	query, err := buildGroupQuery(dim, where)
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("grouped averages: %w", err)
	}
	defer rows.Close()

	var result []model.GroupedValue
	for rows.Next() {
		var (
			key   string
			code  string
			avg   *float64
			count uint64
		)
		if err := rows.Scan(&key, &code, &avg, &count); err != nil {
			return nil, fmt.Errorf("scan grouped row: %w", err)
		}
		gv := model.GroupedValue{Key: key, Code: code, Count: count}
		if avg != nil {
			gv.Avg = *avg
		}
		result = append(result, gv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grouped rows: %w", err)
	}

	return result, nil
}

// buildGroupQuery maps a group dimension to its SQL. Only known dimensions
// are accepted; the key expression is part of the closed switch, never caller
// input. Temporal dimensions bucket by created_at (ingest time), not by the
// visit date the WHERE clause filters on.
func buildGroupQuery(dim model.GroupDimension, where string) (string, error) {
	const tmpl = "SELECT %s AS key, %s AS code, avg(value_numeric) AS avg_value, count() AS cnt FROM observations %s GROUP BY key, code"

	switch dim {
	case model.GroupByDate:
		return fmt.Sprintf(tmpl, "toString(toDate(created_at))", "''", where), nil
	case model.GroupByWeek:
		return fmt.Sprintf(tmpl, "formatDateTime(created_at, '%G-%V')", "''", where), nil
	case model.GroupByMonth:
		return fmt.Sprintf(tmpl, "formatDateTime(created_at, '%Y-%m')", "''", where), nil
	case model.GroupByRegion:
		return fmt.Sprintf(tmpl, "region_name", "''", where), nil
	case model.GroupByChannel:
		return fmt.Sprintf(tmpl, "channel_name", "''", where), nil
	case model.GroupByOutlet:
		return fmt.Sprintf(tmpl, "outlet_name", "outlet_code", where), nil
	default:
		return "", fmt.Errorf("unsupported group_by: %s", dim)
	}
}

// buildObservationWhere builds the WHERE clause for a filter context. Every
// non-zero geo identifier narrows the set; predicates are ANDed, never
// mutually exclusive.
func buildObservationWhere(q model.ObservationQuery) (string, []any) {
	conds := []string{"visit_start_date >= ?", "visit_start_date <= ?"}
	args := []any{q.DateFrom, q.DateTo}

	geoConds := []struct {
		column string
		id     int64
	}{
		{"country_id", q.Geo.CountryID},
		{"region_id", q.Geo.RegionID},
		{"city_id", q.Geo.CityID},
		{"district_id", q.Geo.DistrictID},
		{"channel_id", q.Geo.ChannelID},
		{"outlet_id", q.Geo.OutletID},
	}
	for _, gc := range geoConds {
		if gc.id != 0 {
			conds = append(conds, gc.column+" = ?")
			args = append(args, gc.id)
		}
	}

	// A non-nil empty slice means attribute filters matched no products; the
	// result set must be empty, not unfiltered.
	if q.ProductIDs != nil {
		if len(q.ProductIDs) == 0 {
			conds = append(conds, "1 = 0")
		} else {
			placeholders := strings.TrimSuffix(strings.Repeat("?,", len(q.ProductIDs)), ",")
			conds = append(conds, "product_id IN ("+placeholders+")")
			for _, id := range q.ProductIDs {
				args = append(args, id)
			}
		}
	}

	if q.CoefficientID != 0 {
		conds = append(conds, "coefficient_id = ?")
		args = append(args, q.CoefficientID)
	}

	// Defensive: the resolver defaults the tag, but an invalid one must not
	// silently widen the set to all source types.
	if q.SourceType.Valid() {
		conds = append(conds, "data_source_type = ?")
		args = append(args, string(q.SourceType))
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}
