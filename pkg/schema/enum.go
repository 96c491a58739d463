package schema

import (
	"errors"
	"slices"
)

// Enum picks uniformly from a fixed list of JSON values. A const schema is
// an Enum with a single value.
type Enum struct {
	Base
	Values []any
}

// Kind implements Node.
func (e *Enum) Kind() Kind { return KindEnum }

// Generate implements Node.
func (e *Enum) Generate(ctx *Context) (any, error) {
	v, err := e.Base.generate(ctx)
	if !errors.Is(err, ErrNoProvider) {
		return v, err
	}
	if len(e.Values) == 0 {
		return nil, ErrInvalidSchema
	}
	return e.Values[ctx.Rand.IntN(len(e.Values))], nil
}

// Model implements Node.
func (e *Enum) Model(ctx *Context) (Model, error) {
	t, err := ctx.Namespace.Construct(string(KindEnum), TypeArgs{Values: slices.Clone(e.Values)})
	if err != nil {
		return Model{}, err
	}
	return e.Base.model(t, nil), nil
}
