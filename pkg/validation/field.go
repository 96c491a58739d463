package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"unicode/utf8"
)

// ValidateField validates a value against a FieldValidator. Path names the
// value in error messages; use RootPath for a whole document.
func ValidateField(path string, value interface{}, validator *FieldValidator) *Result {
	result := &Result{Valid: true}

	if validator == nil {
		return result
	}

	// Handle nil/null values
	if value == nil {
		switch {
		case validator.Nullable:
		case validator.Type != "" && validator.Type != "null":
			result.AddError(NewTypeError(path, validator.Type, nil))
		case len(validator.Enum) > 0:
			validateEnum(path, nil, validator.Enum, result)
		}
		return result
	}

	if len(validator.AnyOf) > 0 {
		validateAnyOf(path, value, validator.AnyOf, result)
	}

	// Type validation
	if validator.Type != "" {
		typeResult := validateType(path, value, validator.Type)
		result.Merge(typeResult)
		if !typeResult.Valid {
			return result // Stop on type mismatch
		}
	}

	// Type-specific validations
	switch v := value.(type) {
	case string:
		validateString(path, v, validator, result)
	case []interface{}:
		validateArray(path, v, validator, result)
	case map[string]interface{}:
		validateObject(path, v, validator, result)
	case bool:
		// No additional validation for booleans beyond type check
	default:
		if num, ok := toFloat64(v); ok {
			validateNumber(path, num, validator, result)
		}
	}

	// Enum validation (applies to any type)
	if len(validator.Enum) > 0 {
		validateEnum(path, value, validator.Enum, result)
	}

	return result
}

// validateType checks if a value matches the expected JSON type
func validateType(path string, value interface{}, expectedType string) *Result {
	result := &Result{Valid: true}

	actualType := getJSONType(value)

	// Handle integer as a special case of number
	if expectedType == "integer" {
		num, ok := toFloat64(value)
		if actualType != "number" || !ok || num != math.Trunc(num) {
			result.AddError(NewTypeError(path, expectedType, value))
		}
		return result
	}

	if actualType != expectedType {
		result.AddError(NewTypeError(path, expectedType, value))
	}

	return result
}

// getJSONType returns the JSON type name for a value
func getJSONType(value interface{}) string {
	if value == nil {
		return "null"
	}

	switch value.(type) {
	case string:
		return "string"
	case float64, float32, int, int64, int32, json.Number:
		return "number"
	case bool:
		return "boolean"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		// Use reflection for other types
		v := reflect.ValueOf(value)
		switch v.Kind() {
		case reflect.String:
			return "string"
		case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return "number"
		case reflect.Bool:
			return "boolean"
		case reflect.Slice, reflect.Array:
			return "array"
		case reflect.Map, reflect.Struct:
			return "object"
		default:
			return "unknown"
		}
	}
}

// validateString validates string-specific constraints
func validateString(path string, value string, validator *FieldValidator, result *Result) {
	length := utf8.RuneCountInString(value)

	if validator.MinLength != nil && length < *validator.MinLength {
		result.AddError(NewMinLengthError(path, *validator.MinLength, length))
	}

	if validator.MaxLength != nil && length > *validator.MaxLength {
		result.AddError(NewMaxLengthError(path, *validator.MaxLength, length))
	}

	if validator.Pattern != "" {
		matched, err := regexp.MatchString(validator.Pattern, value)
		if err != nil || !matched {
			result.AddError(NewPatternError(path, validator.Pattern, value))
		}
	}

	if validator.Format != "" && !ValidateFormat(validator.Format, value) {
		result.AddError(NewFormatError(path, validator.Format, value))
	}
}

// validateNumber validates number-specific constraints
func validateNumber(path string, value float64, validator *FieldValidator, result *Result) {
	if validator.Min != nil && value < *validator.Min {
		result.AddError(NewMinError(path, *validator.Min, value))
	}

	if validator.Max != nil && value > *validator.Max {
		result.AddError(NewMaxError(path, *validator.Max, value))
	}

	if validator.ExclusiveMin != nil && value <= *validator.ExclusiveMin {
		result.AddError(&FieldError{
			Path:     path,
			Code:     ErrCodeExclusiveMin,
			Message:  fmt.Sprintf("must be > %v", *validator.ExclusiveMin),
			Received: value,
			Expected: fmt.Sprintf("> %v", *validator.ExclusiveMin),
		})
	}

	if validator.ExclusiveMax != nil && value >= *validator.ExclusiveMax {
		result.AddError(&FieldError{
			Path:     path,
			Code:     ErrCodeExclusiveMax,
			Message:  fmt.Sprintf("must be < %v", *validator.ExclusiveMax),
			Received: value,
			Expected: fmt.Sprintf("< %v", *validator.ExclusiveMax),
		})
	}

	if validator.MultipleOf != nil && *validator.MultipleOf > 0 {
		q := value / *validator.MultipleOf
		if math.Abs(q-math.Round(q)) > 1e-9 {
			result.AddError(&FieldError{
				Path:     path,
				Code:     ErrCodeMultipleOf,
				Message:  fmt.Sprintf("must be a multiple of %v", *validator.MultipleOf),
				Received: value,
				Expected: fmt.Sprintf("multiple of %v", *validator.MultipleOf),
			})
		}
	}
}

// validateArray validates array-specific constraints
func validateArray(path string, value []interface{}, validator *FieldValidator, result *Result) {
	if validator.MinItems != nil && len(value) < *validator.MinItems {
		result.AddError(NewMinItemsError(path, *validator.MinItems, len(value)))
	}

	if validator.MaxItems != nil && len(value) > *validator.MaxItems {
		result.AddError(NewMaxItemsError(path, *validator.MaxItems, len(value)))
	}

	if validator.UniqueItems && len(value) > 1 {
		seen := make(map[string]bool)
		for _, item := range value {
			// encoding/json sorts map keys, so equal objects encode equally
			key, _ := json.Marshal(item)
			keyStr := string(key)
			if seen[keyStr] {
				result.AddError(NewUniqueItemsError(path, item))
				break
			}
			seen[keyStr] = true
		}
	}

	if validator.Items != nil {
		for i, item := range value {
			itemResult := ValidateField(fmt.Sprintf("%s[%d]", path, i), item, validator.Items)
			result.Merge(itemResult)
		}
	}
}

// validateObject validates object-specific constraints
func validateObject(path string, value map[string]interface{}, validator *FieldValidator, result *Result) {
	for propName, propValidator := range validator.Properties {
		propPath := path + "." + propName

		propValue, exists := value[propName]
		if !exists {
			if propValidator.Required {
				result.AddError(NewRequiredError(propPath))
			}
			continue
		}

		result.Merge(ValidateField(propPath, propValue, propValidator))
	}
}

// validateAnyOf passes when at least one alternative accepts the value
func validateAnyOf(path string, value interface{}, alternatives []*FieldValidator, result *Result) {
	for _, alt := range alternatives {
		if ValidateField(path, value, alt).Valid {
			return
		}
	}
	result.AddError(&FieldError{
		Path:     path,
		Code:     ErrCodeAnyOf,
		Message:  "must match at least one alternative",
		Received: value,
	})
}

// validateEnum checks if value is one of the allowed enum values
func validateEnum(path string, value interface{}, enum []interface{}, result *Result) {
	for _, allowed := range enum {
		if valuesEqual(value, allowed) {
			return
		}
	}
	result.AddError(NewEnumError(path, enum, value))
}

// valuesEqual compares two values for equality (handles type coercion for numbers)
func valuesEqual(a, b interface{}) bool {
	aNum, aIsNum := toFloat64(a)
	bNum, bIsNum := toFloat64(b)
	if aIsNum && bIsNum {
		return aNum == bNum
	}

	if reflect.TypeOf(a) == reflect.TypeOf(b) && reflect.TypeOf(a) != nil && reflect.TypeOf(a).Comparable() && a == b {
		return true
	}

	// Use JSON encoding for complex types
	aJSON, _ := json.Marshal(a)
	bJSON, _ := json.Marshal(b)
	return string(aJSON) == string(bJSON)
}

// toFloat64 attempts to convert a value to float64
func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
