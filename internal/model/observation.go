package model

import "time"

// ObservationRequest represents an incoming observation payload.
type ObservationRequest struct {
	VisitID        int64          `json:"visit_id"`
	CoefficientID  int64          `json:"coefficient_id"`
	ProductID      *int64         `json:"product_id"`
	SourceType     DataSourceType `json:"data_source_type"`
	ValueNumeric   *float64       `json:"value_numeric"`
	ValueText      *string        `json:"value_text"`
	ValueBoolean   *bool          `json:"value_boolean"`
	VisitStartDate int64          `json:"visit_start_date"`
	Outlet         OutletRef      `json:"outlet"`
	Notes          string         `json:"notes"`
}

// OutletRef carries the denormalized geo chain of the visited outlet. The
// observations table is flat, so ingest must supply the full ancestry.
type OutletRef struct {
	OutletID    int64  `json:"outlet_id"`
	OutletName  string `json:"outlet_name"`
	OutletCode  string `json:"outlet_code"`
	ChannelID   int64  `json:"channel_id"`
	ChannelName string `json:"channel_name"`
	DistrictID  int64  `json:"district_id"`
	CityID      int64  `json:"city_id"`
	RegionID    int64  `json:"region_id"`
	RegionName  string `json:"region_name"`
	CountryID   int64  `json:"country_id"`
}

// Observation is one measured value of one coefficient during one visit,
// denormalized for the analytics store.
type Observation struct {
	VisitID        int64
	CoefficientID  int64
	ProductID      int64
	SourceType     DataSourceType
	ValueNumeric   *float64
	ValueText      *string
	ValueBoolean   *bool
	VisitStartDate time.Time
	CreatedAt      time.Time
	Outlet         OutletRef
	Notes          string
}

// ObservationQuery is the normalized predicate set the query builder turns
// into a WHERE clause. ProductIDs comes from resolving attribute filters
// against the reference store; nil means no attribute narrowing.
type ObservationQuery struct {
	DateFrom      time.Time
	DateTo        time.Time
	Geo           GeoPath
	CoefficientID int64
	SourceType    DataSourceType
	ProductIDs    []int64
}

// AggregationKind is the closed set of scalar aggregations.
type AggregationKind string

const (
	AggAvg   AggregationKind = "avg"
	AggSum   AggregationKind = "sum"
	AggCount AggregationKind = "count"
	AggMin   AggregationKind = "min"
	AggMax   AggregationKind = "max"
)

// ParseAggregationKind maps a config string to a kind; empty defaults to avg.
func ParseAggregationKind(s string) (AggregationKind, bool) {
	switch AggregationKind(s) {
	case AggAvg, AggSum, AggCount, AggMin, AggMax:
		return AggregationKind(s), true
	case "":
		return AggAvg, true
	default:
		return "", false
	}
}

// GroupDimension is the closed set of group-by dimensions for charts/tables.
type GroupDimension string

const (
	GroupByDate    GroupDimension = "date"
	GroupByWeek    GroupDimension = "week"
	GroupByMonth   GroupDimension = "month"
	GroupByRegion  GroupDimension = "region"
	GroupByChannel GroupDimension = "channel"
	GroupByOutlet  GroupDimension = "outlet"
)

// Temporal reports whether the dimension buckets by time rather than by a
// geo label.
func (d GroupDimension) Temporal() bool {
	switch d {
	case GroupByDate, GroupByWeek, GroupByMonth:
		return true
	default:
		return false
	}
}

// GroupedValue is one grouped-average row from the observation store. Key is
// the bucket key for temporal dimensions (YYYY-MM-DD, ISO year-week, YYYY-MM)
// or the label for categorical ones; Code is populated only for outlets.
type GroupedValue struct {
	Key   string
	Code  string
	Avg   float64
	Count uint64
}
