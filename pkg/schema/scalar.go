package schema

import (
	"errors"

	"github.com/getmockd/jsongen/pkg/faker"
)

// Boolean generates true or false with even odds.
type Boolean struct {
	Base
}

// Kind implements Node.
func (b *Boolean) Kind() Kind { return KindBoolean }

// Generate implements Node.
func (b *Boolean) Generate(ctx *Context) (any, error) {
	v, err := b.Base.generate(ctx)
	if !errors.Is(err, ErrNoProvider) {
		return v, err
	}
	return ctx.Rand.IntN(2) == 0, nil
}

// Model implements Node.
func (b *Boolean) Model(ctx *Context) (Model, error) {
	return b.Base.modelScalar(ctx, KindBoolean)
}

// Null always generates null.
type Null struct {
	Base
}

// Kind implements Node.
func (n *Null) Kind() Kind { return KindNull }

// Generate implements Node.
func (n *Null) Generate(ctx *Context) (any, error) {
	v, err := n.Base.generate(ctx)
	if !errors.Is(err, ErrNoProvider) {
		return v, err
	}
	return nil, nil
}

// Model implements Node.
func (n *Null) Model(ctx *Context) (Model, error) {
	return n.Base.modelScalar(ctx, KindNull)
}

// Any stands for a schema without a type. It generates a random string,
// integer or boolean.
type Any struct {
	Base
}

// Kind implements Node.
func (a *Any) Kind() Kind { return KindAny }

// Generate implements Node.
func (a *Any) Generate(ctx *Context) (any, error) {
	v, err := a.Base.generate(ctx)
	if !errors.Is(err, ErrNoProvider) {
		return v, err
	}
	switch ctx.Rand.IntN(3) {
	case 0:
		return faker.Word(ctx.Rand), nil
	case 1:
		return ctx.Rand.IntN(defaultNumberMax + 1), nil
	default:
		return ctx.Rand.IntN(2) == 0, nil
	}
}

// Model implements Node.
func (a *Any) Model(ctx *Context) (Model, error) {
	return a.Base.modelScalar(ctx, KindAny)
}

// modelScalar models a node whose type takes no arguments.
func (b *Base) modelScalar(ctx *Context, k Kind) (Model, error) {
	t, err := ctx.Namespace.Construct(string(k), TypeArgs{})
	if err != nil {
		return Model{}, err
	}
	return b.model(t, nil), nil
}
