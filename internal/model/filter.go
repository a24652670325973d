package model

import "time"

// DataSourceType tags how an observation was obtained.
type DataSourceType string

const (
	SourceMonitoring DataSourceType = "MON"
	SourceExpert     DataSourceType = "EXP"
	SourceAI         DataSourceType = "AI"
)

// Valid reports whether the tag is one of the three observation source types.
// Formulas additionally allow CUSTOM, observations never do.
func (t DataSourceType) Valid() bool {
	switch t {
	case SourceMonitoring, SourceExpert, SourceAI:
		return true
	default:
		return false
	}
}

// Geo hierarchy levels, from widest to narrowest.
const (
	LevelCountry  = "country"
	LevelRegion   = "region"
	LevelCity     = "city"
	LevelDistrict = "district"
	LevelChannel  = "channel"
	LevelOutlet   = "outlet"
)

// GeoPath is the ordered containment chain country→outlet. A zero id means
// the level is not constrained. Containment between set levels is guaranteed
// by the reference store's foreign keys and is not re-validated here.
type GeoPath struct {
	CountryID  int64
	RegionID   int64
	CityID     int64
	DistrictID int64
	ChannelID  int64
	OutletID   int64
}

// FilterContext is the normalized, request-scoped filter state. It is built
// once per request by the filter resolver and passed down by value.
type FilterContext struct {
	Period     string
	DateFrom   time.Time
	DateTo     time.Time
	Geo        GeoPath
	Level      string
	Attributes map[string]string
	SourceType DataSourceType
}
