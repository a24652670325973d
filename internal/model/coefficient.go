package model

import "time"

// CoefficientValueType is the closed set of value kinds a coefficient can
// measure.
type CoefficientValueType string

const (
	ValueNumeric CoefficientValueType = "numeric"
	ValueText    CoefficientValueType = "text"
	ValueBoolean CoefficientValueType = "boolean"
)

// Coefficient is a named unit of field-measured data. Reference data,
// immutable once observations exist against it.
type Coefficient struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Code        string               `json:"code"`
	Description string               `json:"description"`
	SourceType  DataSourceType       `json:"data_type"`
	ValueType   CoefficientValueType `json:"value_type"`
	Unit        string               `json:"unit"`
	IsActive    bool                 `json:"is_active"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}
