package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaResource is the URL the compiled document is registered under.
const schemaResource = "schema.json"

// SchemaValidator validates documents against a compiled JSON Schema.
// It is safe for concurrent use.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// CompileSchema compiles a JSON Schema document (draft 2020-12). The document
// is usually the output of a type's JSONSchema method or a decoded schema
// file; keywords jsonschema does not know, such as $fixed, are ignored.
func CompileSchema(doc interface{}) (*SchemaValidator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	// Convert to JSON and back to ensure consistent types
	schemaBytes, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	if err := compiler.AddResource(schemaResource, bytes.NewReader(schemaBytes)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &SchemaValidator{schema: schema}, nil
}

// Validate checks instance against the schema.
func (v *SchemaValidator) Validate(instance interface{}) *Result {
	result := &Result{Valid: true}

	normalized, err := normalize(instance)
	if err != nil {
		result.AddError(NewSchemaError(RootPath, err.Error()))
		return result
	}

	err = v.schema.Validate(normalized)
	if err == nil {
		return result
	}

	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		parseSchemaErrors(validationErr, result)
	} else {
		result.AddError(NewSchemaError(RootPath, err.Error()))
	}
	return result
}

// normalize round-trips a value through JSON so Go-native numbers and slices
// reach the validator in the decoded form it expects.
func normalize(instance interface{}) (interface{}, error) {
	data, err := json.Marshal(instance)
	if err != nil {
		return nil, fmt.Errorf("instance is not JSON encodable: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out interface{}
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode instance: %w", err)
	}
	return out, nil
}

// parseSchemaErrors extracts the leaf errors of a JSON Schema validation failure
func parseSchemaErrors(err *jsonschema.ValidationError, result *Result) {
	if len(err.Causes) == 0 {
		result.AddError(NewSchemaError(pointerToPath(err.InstanceLocation), err.Message))
		return
	}

	for _, cause := range err.Causes {
		parseSchemaErrors(cause, result)
	}
}

// pointerToPath converts a JSON Pointer such as /users/0/name into $.users[0].name
func pointerToPath(pointer string) string {
	var sb strings.Builder
	sb.WriteString(RootPath)
	for _, seg := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		if seg == "" {
			continue
		}
		seg = strings.NewReplacer("~1", "/", "~0", "~").Replace(seg)
		if _, err := strconv.Atoi(seg); err == nil {
			sb.WriteString("[" + seg + "]")
			continue
		}
		sb.WriteString("." + seg)
	}
	return sb.String()
}
