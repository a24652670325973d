package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"retail-analytics-service/internal/model"
)

type ObservationQueryTestSuite struct {
	suite.Suite

	from time.Time
	to   time.Time
}

func TestObservationQuerySuite(t *testing.T) {
	suite.Run(t, new(ObservationQueryTestSuite))
}

func (s *ObservationQueryTestSuite) SetupTest() {
	s.from = time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	s.to = time.Date(2023, 3, 15, 23, 59, 59, 0, time.UTC)
}

func (s *ObservationQueryTestSuite) TestWhere_DatesOnly() {
	where, args := buildObservationWhere(model.ObservationQuery{DateFrom: s.from, DateTo: s.to})

	s.Equal("WHERE visit_start_date >= ? AND visit_start_date <= ?", where)
	s.Equal([]any{s.from, s.to}, args)
}

func (s *ObservationQueryTestSuite) TestWhere_GeoNarrowing() {
	q := model.ObservationQuery{
		DateFrom: s.from, DateTo: s.to,
		Geo: model.GeoPath{RegionID: 5, OutletID: 42},
	}

	where, args := buildObservationWhere(q)

	s.Contains(where, "region_id = ?")
	s.Contains(where, "outlet_id = ?")
	s.NotContains(where, "city_id")
	s.Equal([]any{s.from, s.to, int64(5), int64(42)}, args)
}

func (s *ObservationQueryTestSuite) TestWhere_ProductIDs() {
	q := model.ObservationQuery{
		DateFrom: s.from, DateTo: s.to,
		ProductIDs: []int64{3, 7},
	}

	where, args := buildObservationWhere(q)

	s.Contains(where, "product_id IN (?,?)")
	s.Equal([]any{s.from, s.to, int64(3), int64(7)}, args)
}

func (s *ObservationQueryTestSuite) TestWhere_EmptyProductSetMatchesNothing() {
	q := model.ObservationQuery{
		DateFrom: s.from, DateTo: s.to,
		ProductIDs: []int64{},
	}

	where, _ := buildObservationWhere(q)

	s.Contains(where, "1 = 0")
}

func (s *ObservationQueryTestSuite) TestWhere_CoefficientAndSource() {
	q := model.ObservationQuery{
		DateFrom: s.from, DateTo: s.to,
		CoefficientID: 11,
		SourceType:    model.SourceExpert,
	}

	where, args := buildObservationWhere(q)

	s.Contains(where, "coefficient_id = ?")
	s.Contains(where, "data_source_type = ?")
	s.Equal([]any{s.from, s.to, int64(11), "EXP"}, args)
}

func (s *ObservationQueryTestSuite) TestWhere_InvalidSourceIgnored() {
	q := model.ObservationQuery{
		DateFrom: s.from, DateTo: s.to,
		SourceType: model.DataSourceType("CUSTOM"),
	}

	where, _ := buildObservationWhere(q)

	s.NotContains(where, "data_source_type")
}

func TestBuildGroupQuery(t *testing.T) {
	tests := []struct {
		dim     model.GroupDimension
		keyExpr string
	}{
		{model.GroupByDate, "toString(toDate(created_at))"},
		{model.GroupByWeek, "formatDateTime(created_at, '%G-%V')"},
		{model.GroupByMonth, "formatDateTime(created_at, '%Y-%m')"},
		{model.GroupByRegion, "region_name"},
		{model.GroupByChannel, "channel_name"},
		{model.GroupByOutlet, "outlet_name"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dim), func(t *testing.T) {
			query, err := buildGroupQuery(tt.dim, "WHERE 1 = 1")
			require.NoError(t, err)
			require.Contains(t, query, tt.keyExpr+" AS key")
			require.Contains(t, query, "GROUP BY key, code")
		})
	}
}

func TestBuildGroupQuery_OutletCarriesCode(t *testing.T) {
	query, err := buildGroupQuery(model.GroupByOutlet, "WHERE 1 = 1")
	require.NoError(t, err)
	require.Contains(t, query, "outlet_code AS code")
}

func TestBuildGroupQuery_UnknownDimension(t *testing.T) {
	_, err := buildGroupQuery(model.GroupDimension("planet"), "WHERE 1 = 1")
	require.Error(t, err)
}
