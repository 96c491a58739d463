package schema

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// Type is a structural description of generated values. Types are built by
// the constructors registered in a Namespace and compose recursively, so an
// array of objects is an array Type whose Elem is an object Type.
type Type struct {
	Kind Kind

	// Elem is the element type of an array.
	Elem *Type

	// Fields and Required describe an object.
	Fields   map[string]*Type
	Required []string

	// Values lists the members of an enum.
	Values []any

	// Variants lists the alternatives of a union.
	Variants []*Type

	Nullable bool
}

// String renders the type, e.g. array[object{id:integer,tags?:array[string]}].
func (t *Type) String() string {
	if t == nil {
		return string(KindAny)
	}
	s := t.render()
	if t.Nullable && t.Kind != KindAny && t.Kind != KindNull {
		return "nullable[" + s + "]"
	}
	return s
}

func (t *Type) render() string {
	switch t.Kind {
	case KindArray:
		return "array[" + t.Elem.String() + "]"
	case KindObject:
		parts := make([]string, 0, len(t.Fields))
		for _, name := range slices.Sorted(maps.Keys(t.Fields)) {
			sep := "?:"
			if slices.Contains(t.Required, name) {
				sep = ":"
			}
			parts = append(parts, name+sep+t.Fields[name].String())
		}
		return "object{" + strings.Join(parts, ",") + "}"
	case KindEnum:
		parts := make([]string, len(t.Values))
		for i, v := range t.Values {
			b, err := json.Marshal(v)
			if err != nil {
				parts[i] = "?"
				continue
			}
			parts[i] = string(b)
		}
		return "enum(" + strings.Join(parts, ",") + ")"
	case KindUnion:
		parts := make([]string, len(t.Variants))
		for i, v := range t.Variants {
			parts[i] = v.String()
		}
		return "union[" + strings.Join(parts, "|") + "]"
	default:
		return string(t.Kind)
	}
}

// JSONSchema renders the type as a draft 2020-12 JSON Schema document.
// Only structure is rendered; value constraints live in the field validator.
func (t *Type) JSONSchema() map[string]any {
	if t == nil {
		return map[string]any{}
	}
	s := t.structure()
	if t.Nullable {
		return nullable(s)
	}
	return s
}

func (t *Type) structure() map[string]any {
	switch t.Kind {
	case KindAny:
		return map[string]any{}
	case KindArray:
		// minItems, maxItems and uniqueItems are checked by the field
		// validator only; a Type carries no item bounds.
		s := map[string]any{"type": "array"}
		if t.Elem != nil && t.Elem.Kind != KindAny {
			s["items"] = t.Elem.JSONSchema()
		}
		return s
	case KindObject:
		props := make(map[string]any, len(t.Fields))
		for name, ft := range t.Fields {
			props[name] = ft.JSONSchema()
		}
		s := map[string]any{"type": "object", "properties": props}
		if len(t.Required) > 0 {
			s["required"] = slices.Clone(t.Required)
		}
		return s
	case KindEnum:
		return map[string]any{"enum": slices.Clone(t.Values)}
	case KindUnion:
		variants := make([]any, len(t.Variants))
		for i, v := range t.Variants {
			variants[i] = v.JSONSchema()
		}
		return map[string]any{"anyOf": variants}
	default:
		return map[string]any{"type": string(t.Kind)}
	}
}

// nullable widens a rendered schema to also accept null.
func nullable(s map[string]any) map[string]any {
	if len(s) == 0 {
		return s
	}
	if typ, ok := s["type"].(string); ok {
		if typ == string(KindNull) {
			return s
		}
		s["type"] = []any{typ, string(KindNull)}
		return s
	}
	if values, ok := s["enum"].([]any); ok {
		if !slices.Contains(values, nil) {
			s["enum"] = append(values, nil)
		}
		return s
	}
	return map[string]any{"anyOf": []any{s, map[string]any{"type": string(KindNull)}}}
}
