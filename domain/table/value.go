package table

import (
	"strconv"
	"time"
)

// Type tags a column with its inferred semantic type. Inference happens
// once at parse time and the tag travels with the table, so downstream
// operations never re-inspect raw values.
type Type string

const (
	TypeNumeric     Type = "numeric"
	TypeDate        Type = "date"
	TypeCategorical Type = "categorical"
	TypeBoolean     Type = "boolean"
)

// Value represents a typed cell with deterministic coercion
type Value struct {
	Type       Type       `json:"type"`
	NumericVal *float64   `json:"numeric_val,omitempty"`
	DateVal    *time.Time `json:"date_val,omitempty"`
	TextVal    *string    `json:"text_val,omitempty"`
	BoolVal    *bool      `json:"bool_val,omitempty"`
	IsMissing  bool       `json:"is_missing"`
}

// NewNumericValue creates a numeric value
func NewNumericValue(n float64) Value {
	return Value{Type: TypeNumeric, NumericVal: &n}
}

// NewDateValue creates a date value
func NewDateValue(t time.Time) Value {
	return Value{Type: TypeDate, DateVal: &t}
}

// NewTextValue creates a categorical/text value
func NewTextValue(s string) Value {
	if s == "" {
		return NewMissingValue(TypeCategorical)
	}
	return Value{Type: TypeCategorical, TextVal: &s}
}

// NewBoolValue creates a boolean value
func NewBoolValue(b bool) Value {
	return Value{Type: TypeBoolean, BoolVal: &b}
}

// NewMissingValue creates a missing cell carrying its column type
func NewMissingValue(t Type) Value {
	return Value{Type: t, IsMissing: true}
}

// Float returns the numeric content and whether it is present
func (v Value) Float() (float64, bool) {
	if v.IsMissing || v.NumericVal == nil {
		return 0, false
	}
	return *v.NumericVal, true
}

// Date returns the date content and whether it is present
func (v Value) Date() (time.Time, bool) {
	if v.IsMissing || v.DateVal == nil {
		return time.Time{}, false
	}
	return *v.DateVal, true
}

// Text returns the text content and whether it is present
func (v Value) Text() (string, bool) {
	if v.IsMissing || v.TextVal == nil {
		return "", false
	}
	return *v.TextVal, true
}

// Bool returns the boolean content and whether it is present
func (v Value) Bool() (bool, bool) {
	if v.IsMissing || v.BoolVal == nil {
		return false, false
	}
	return *v.BoolVal, true
}

// String returns a stable string form, used for row fingerprints and labels
func (v Value) String() string {
	if v.IsMissing {
		return ""
	}
	switch v.Type {
	case TypeNumeric:
		if v.NumericVal != nil {
			return strconv.FormatFloat(*v.NumericVal, 'g', -1, 64)
		}
	case TypeDate:
		if v.DateVal != nil {
			return v.DateVal.Format(time.RFC3339)
		}
	case TypeBoolean:
		if v.BoolVal != nil {
			return strconv.FormatBool(*v.BoolVal)
		}
	case TypeCategorical:
		if v.TextVal != nil {
			return *v.TextVal
		}
	}
	return ""
}

// Equal reports value-wise equality, used for duplicate row detection
func (v Value) Equal(other Value) bool {
	if v.IsMissing || other.IsMissing {
		return v.IsMissing && other.IsMissing
	}
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case TypeNumeric:
		return v.NumericVal != nil && other.NumericVal != nil && *v.NumericVal == *other.NumericVal
	case TypeDate:
		return v.DateVal != nil && other.DateVal != nil && v.DateVal.Equal(*other.DateVal)
	case TypeBoolean:
		return v.BoolVal != nil && other.BoolVal != nil && *v.BoolVal == *other.BoolVal
	case TypeCategorical:
		return v.TextVal != nil && other.TextVal != nil && *v.TextVal == *other.TextVal
	}
	return false
}
