// Package validation checks generated documents against the structural
// descriptions produced by schema models. It supports field-level validation
// from FieldValidator trees and full JSON Schema validation.

package validation

// FieldValidator defines validation rules for a single value.
// It supports type checking, string/number constraints, array validation,
// enum values, and nested object validation.
type FieldValidator struct {
	// Type specifies the expected JSON type: string, number, integer, boolean, null, array, object.
	// Empty means any type.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Required indicates the field must be present (used in Properties map context)
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// Nullable allows null values even when type is specified
	Nullable bool `json:"nullable,omitempty" yaml:"nullable,omitempty"`

	// String validations
	MinLength *int   `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Format    string `json:"format,omitempty" yaml:"format,omitempty"`

	// Number validations (applies to number and integer types)
	Min          *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max          *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	ExclusiveMin *float64 `json:"exclusiveMin,omitempty" yaml:"exclusiveMin,omitempty"`
	ExclusiveMax *float64 `json:"exclusiveMax,omitempty" yaml:"exclusiveMax,omitempty"`
	MultipleOf   *float64 `json:"multipleOf,omitempty" yaml:"multipleOf,omitempty"`

	// Array validations
	MinItems    *int            `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems    *int            `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	UniqueItems bool            `json:"uniqueItems,omitempty" yaml:"uniqueItems,omitempty"`
	Items       *FieldValidator `json:"items,omitempty" yaml:"items,omitempty"`

	// Enum validation - value must be one of these
	Enum []interface{} `json:"enum,omitempty" yaml:"enum,omitempty"`

	// Nested object validation
	Properties map[string]*FieldValidator `json:"properties,omitempty" yaml:"properties,omitempty"`

	// AnyOf holds alternatives; the value must satisfy at least one.
	AnyOf []*FieldValidator `json:"anyOf,omitempty" yaml:"anyOf,omitempty"`

	// Description is carried from the schema for documentation output.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// IsEmpty returns true if no validation rules are configured
func (v *FieldValidator) IsEmpty() bool {
	if v == nil {
		return true
	}
	return v.Type == "" &&
		!v.Required &&
		v.MinLength == nil && v.MaxLength == nil &&
		v.Pattern == "" && v.Format == "" &&
		v.Min == nil && v.Max == nil &&
		v.ExclusiveMin == nil && v.ExclusiveMax == nil && v.MultipleOf == nil &&
		v.MinItems == nil && v.MaxItems == nil && !v.UniqueItems && v.Items == nil &&
		len(v.Enum) == 0 &&
		len(v.Properties) == 0 &&
		len(v.AnyOf) == 0
}
