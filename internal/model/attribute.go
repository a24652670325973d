package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AttributeType is the closed set of dynamic attribute data types.
type AttributeType string

const (
	AttrText        AttributeType = "text"
	AttrInteger     AttributeType = "integer"
	AttrDecimal     AttributeType = "decimal"
	AttrBoolean     AttributeType = "boolean"
	AttrDate        AttributeType = "date"
	AttrChoice      AttributeType = "choice"
	AttrMultiChoice AttributeType = "multi_choice"
	AttrFile        AttributeType = "file"
)

// Valid reports whether t is a known attribute type.
func (t AttributeType) Valid() bool {
	switch t {
	case AttrText, AttrInteger, AttrDecimal, AttrBoolean, AttrDate, AttrChoice, AttrMultiChoice, AttrFile:
		return true
	default:
		return false
	}
}

// AttributeDefinition describes one dynamic product characteristic. This is
// schema metadata, not data.
type AttributeDefinition struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Code         string        `json:"code"`
	DataType     AttributeType `json:"data_type"`
	IsRequired   bool          `json:"is_required"`
	IsFilterable bool          `json:"is_filterable"`
	MinValue     *float64      `json:"min_value"`
	MaxValue     *float64      `json:"max_value"`
	MaxLength    *int          `json:"max_length"`
	Choices      []string      `json:"choices"`
	Unit         string        `json:"unit"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// CoercionError is returned when a raw value cannot be converted to the slot
// matching the attribute's data type. It distinguishes bad user input from
// system faults.
type CoercionError struct {
	Attribute string
	Value     any
	Reason    string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("attribute %q: cannot coerce %v: %s", e.Attribute, e.Value, e.Reason)
}

const dateLayout = "2006-01-02"

// AttributeValue binds one product to one attribute definition. Exactly one
// of the eight value slots is non-nil, selected by the definition's data
// type. SetValue maintains the invariant by construction.
type AttributeValue struct {
	ID          int64
	ProductID   int64
	AttributeID int64
	Attribute   AttributeDefinition

	ValueText        *string
	ValueInteger     *int64
	ValueDecimal     *float64
	ValueBoolean     *bool
	ValueDate        *time.Time
	ValueChoice      *string
	ValueMultiChoice []string
	ValueFile        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Value returns the populated slot as raw data: bool for boolean, []string
// for multi_choice, time.Time for date. Nil when the slot is empty.
func (v *AttributeValue) Value() any {
	switch v.Attribute.DataType {
	case AttrText:
		return deref(v.ValueText)
	case AttrInteger:
		if v.ValueInteger == nil {
			return nil
		}
		return *v.ValueInteger
	case AttrDecimal:
		if v.ValueDecimal == nil {
			return nil
		}
		return *v.ValueDecimal
	case AttrBoolean:
		if v.ValueBoolean == nil {
			return nil
		}
		return *v.ValueBoolean
	case AttrDate:
		if v.ValueDate == nil {
			return nil
		}
		return *v.ValueDate
	case AttrChoice:
		return deref(v.ValueChoice)
	case AttrMultiChoice:
		if v.ValueMultiChoice == nil {
			return nil
		}
		return v.ValueMultiChoice
	case AttrFile:
		return deref(v.ValueFile)
	}
	return nil
}

// DisplayValue renders the value for UI contexts: boolean as Да/Нет,
// multi_choice comma-joined, date as DD.MM.YYYY.
func (v *AttributeValue) DisplayValue() string {
	switch v.Attribute.DataType {
	case AttrBoolean:
		if v.ValueBoolean != nil && *v.ValueBoolean {
			return "Да"
		}
		return "Нет"
	case AttrMultiChoice:
		return strings.Join(v.ValueMultiChoice, ", ")
	case AttrDate:
		if v.ValueDate == nil {
			return ""
		}
		return v.ValueDate.Format("02.01.2006")
	case AttrInteger:
		if v.ValueInteger == nil {
			return ""
		}
		return strconv.FormatInt(*v.ValueInteger, 10)
	case AttrDecimal:
		if v.ValueDecimal == nil {
			return ""
		}
		return strconv.FormatFloat(*v.ValueDecimal, 'f', -1, 64)
	default:
		if s, ok := v.Value().(string); ok {
			return s
		}
		return ""
	}
}

// SetValue clears all eight slots and coerces raw into the slot matching the
// attribute's data type. On coercion failure no slot is set.
func (v *AttributeValue) SetValue(raw any) error {
	v.clear()

	switch v.Attribute.DataType {
	case AttrText:
		s := stringify(raw)
		v.ValueText = &s
	case AttrInteger:
		n, err := coerceInt(raw)
		if err != nil {
			return v.coercionError(raw, err)
		}
		v.ValueInteger = &n
	case AttrDecimal:
		f, err := coerceFloat(raw)
		if err != nil {
			return v.coercionError(raw, err)
		}
		v.ValueDecimal = &f
	case AttrBoolean:
		b, err := coerceBool(raw)
		if err != nil {
			return v.coercionError(raw, err)
		}
		v.ValueBoolean = &b
	case AttrDate:
		d, err := coerceDate(raw)
		if err != nil {
			return v.coercionError(raw, err)
		}
		v.ValueDate = &d
	case AttrChoice:
		s := stringify(raw)
		v.ValueChoice = &s
	case AttrMultiChoice:
		v.ValueMultiChoice = coerceStringList(raw)
	case AttrFile:
		s := stringify(raw)
		v.ValueFile = &s
	default:
		return v.coercionError(raw, fmt.Errorf("unknown data type %q", v.Attribute.DataType))
	}

	return nil
}

func (v *AttributeValue) clear() {
	v.ValueText = nil
	v.ValueInteger = nil
	v.ValueDecimal = nil
	v.ValueBoolean = nil
	v.ValueDate = nil
	v.ValueChoice = nil
	v.ValueMultiChoice = nil
	v.ValueFile = nil
}

func (v *AttributeValue) coercionError(raw any, err error) error {
	return &CoercionError{Attribute: v.Attribute.Code, Value: raw, Reason: err.Error()}
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringify(raw any) string {
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", raw)
}

func coerceInt(raw any) (int64, error) {
	switch t := raw.(type) {
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case float64:
		return int64(t), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not an integer")
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
}

func coerceFloat(raw any) (float64, error) {
	switch t := raw.(type) {
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case float64:
		return t, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number")
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
}

func coerceBool(raw any) (bool, error) {
	switch t := raw.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, fmt.Errorf("not a boolean")
		}
		return b, nil
	default:
		return false, fmt.Errorf("unsupported type %T", raw)
	}
}

func coerceDate(raw any) (time.Time, error) {
	switch t := raw.(type) {
	case time.Time:
		return t, nil
	case string:
		d, err := time.Parse(dateLayout, strings.TrimSpace(t))
		if err != nil {
			return time.Time{}, fmt.Errorf("expected YYYY-MM-DD")
		}
		return d, nil
	default:
		return time.Time{}, fmt.Errorf("unsupported type %T", raw)
	}
}

func coerceStringList(raw any) []string {
	switch t := raw.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, stringify(item))
		}
		return out
	default:
		return []string{stringify(raw)}
	}
}
