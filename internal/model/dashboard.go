package model

import (
	"encoding/json"
	"time"
)

// Widget result types and the widget config types they are produced from.
const (
	WidgetMetric = "metric"
	WidgetChart  = "chart"
	WidgetTable  = "table"
	WidgetError  = "error"
)

// Chart.js chart types accepted as native widget types.
var chartWidgetTypes = map[string]bool{
	"line": true, "bar": true, "horizontalBar": true,
	"pie": true, "doughnut": true, "polarArea": true, "radar": true,
}

// IsChartWidgetType reports whether t is a native chart widget type.
func IsChartWidgetType(t string) bool {
	return chartWidgetTypes[t]
}

// WidgetConfig is one element of a dashboard's widgets_config array. This is
// the persisted wire format and must stay stable.
type WidgetConfig struct {
	Type          string `json:"type"`
	CoefficientID int64  `json:"coefficient_id"`
	Aggregation   string `json:"aggregation,omitempty"`
	GroupBy       string `json:"group_by,omitempty"`
	Title         string `json:"title,omitempty"`
	Unit          string `json:"unit,omitempty"`
	Color         string `json:"color,omitempty"`
	ChartType     string `json:"chart_type,omitempty"`
	RowLimit      int    `json:"row_limit,omitempty"`
	Sort          string `json:"sort,omitempty"`
	MaxSegments   int    `json:"max_segments,omitempty"`
}

// WidgetsConfig is the JSON document stored in a dashboard's widgets_config
// column.
type WidgetsConfig struct {
	Widgets []WidgetConfig `json:"widgets"`
}

// TableRow is one row of a table widget.
type TableRow struct {
	Name  string  `json:"name"`
	Code  string  `json:"code,omitempty"`
	Value float64 `json:"value"`
	Count uint64  `json:"count"`
}

// WidgetResult is the computed payload for one widget. Type selects which
// fields are populated; Error holds the failure text for error cards.
type WidgetResult struct {
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Value     *float64   `json:"value,omitempty"`
	Unit      string     `json:"unit,omitempty"`
	Color     string     `json:"color,omitempty"`
	ChartType string     `json:"chart_type,omitempty"`
	Labels    []string   `json:"labels,omitempty"`
	Values    []float64  `json:"values,omitempty"`
	Rows      []TableRow `json:"rows,omitempty"`
	GroupBy   string     `json:"group_by,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Dashboard is a persisted analytics panel configuration.
type Dashboard struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Code          string          `json:"code"`
	Description   string          `json:"description"`
	Level         string          `json:"level,omitempty"`
	LevelOrder    int             `json:"level_order"`
	WidgetsConfig json.RawMessage `json:"widgets_config"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ParseWidgets decodes the widgets_config blob. An empty, null, or malformed
// blob yields a config with no widgets; rendering never fails on bad config.
func (d *Dashboard) ParseWidgets() WidgetsConfig {
	var cfg WidgetsConfig
	if len(d.WidgetsConfig) == 0 {
		return cfg
	}
	if err := json.Unmarshal(d.WidgetsConfig, &cfg); err != nil {
		return WidgetsConfig{}
	}
	return cfg
}

// DashboardRender is the render endpoint response.
type DashboardRender struct {
	Dashboard *Dashboard     `json:"dashboard,omitempty"`
	Level     string         `json:"level,omitempty"`
	Period    RenderPeriod   `json:"period"`
	Widgets   []WidgetResult `json:"widgets"`
}

// RenderPeriod echoes the resolved date window back to the caller.
type RenderPeriod struct {
	Period   string `json:"period"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}
