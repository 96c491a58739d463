package schema

import (
	"fmt"

	"github.com/getmockd/jsongen/pkg/validation"
)

// Kind identifies the shape of a node or type.
type Kind string

// Node and type kinds.
const (
	KindAny     Kind = "any"
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindNull    Kind = "null"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
	KindEnum    Kind = "enum"
	KindUnion   Kind = "union"
)

// Node is a parsed schema fragment able to produce conforming values and
// describe their structure.
//
// The set of implementations is closed: Array, Object, String, Integer,
// Number, Boolean, Null, Enum, Any, Union and Ref.
type Node interface {
	// Kind reports the shape of the values the node generates.
	Kind() Kind

	// Generate produces one random value.
	Generate(ctx *Context) (any, error)

	// Model describes the values Generate produces. It does not touch
	// ctx.State and may be called before any generation.
	Model(ctx *Context) (Model, error)
}

// Model pairs a structural type with the field validator used to
// validate values of that type.
type Model struct {
	Type  *Type
	Field *validation.FieldValidator
}

// Base holds the annotations every node accepts.
type Base struct {
	Title       string
	Description string
	Default     any
	Examples    []any

	// Provider names a registered provider that replaces default generation.
	Provider string

	// Nullable allows the node to yield null with the context's
	// NullProbability.
	Nullable bool
}

// generate runs the provider path shared by all nodes. ErrNoProvider means
// the caller should fall through to its own algorithm.
func (b *Base) generate(ctx *Context) (any, error) {
	if b.Provider != "" {
		p, ok := ctx.Providers.Lookup(b.Provider)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, b.Provider)
		}
		return p(ctx)
	}
	if b.Nullable && ctx.NullProbability > 0 && ctx.Rand.Float64() < ctx.NullProbability {
		return nil, nil
	}
	return nil, ErrNoProvider
}

// model finishes a constructed type with the base annotations and builds its
// field validator. constrain adds node-specific constraints.
func (b *Base) model(t *Type, constrain func(*validation.FieldValidator)) Model {
	if b.Nullable {
		t.Nullable = true
	}
	fv := &validation.FieldValidator{
		Type:        jsonType(t.Kind),
		Nullable:    t.Nullable,
		Description: b.Description,
	}
	if t.Kind == KindEnum {
		fv.Enum = t.Values
	}
	if constrain != nil {
		constrain(fv)
	}
	return Model{Type: t, Field: fv}
}

// jsonType maps a kind to the JSON type name used by field validators.
// Kinds without a single JSON type map to "".
func jsonType(k Kind) string {
	switch k {
	case KindString, KindInteger, KindNumber, KindBoolean, KindNull, KindArray, KindObject:
		return string(k)
	default:
		return ""
	}
}
