package schema

import (
	"errors"
	"fmt"

	"github.com/getmockd/jsongen/pkg/validation"
)

// Union generates from one randomly chosen variant. It backs both anyOf and
// oneOf; for oneOf the chosen value is not checked against the other
// variants.
type Union struct {
	Base
	Variants []Node
}

// Kind implements Node.
func (u *Union) Kind() Kind { return KindUnion }

// Generate implements Node.
func (u *Union) Generate(ctx *Context) (any, error) {
	v, err := u.Base.generate(ctx)
	if !errors.Is(err, ErrNoProvider) {
		return v, err
	}
	if len(u.Variants) == 0 {
		return nil, fmt.Errorf("%w: union without variants", ErrInvalidSchema)
	}
	return u.Variants[ctx.Rand.IntN(len(u.Variants))].Generate(ctx)
}

// Model implements Node.
func (u *Union) Model(ctx *Context) (Model, error) {
	args := TypeArgs{Variants: make([]*Type, 0, len(u.Variants))}
	fields := make([]*validation.FieldValidator, 0, len(u.Variants))
	for i, variant := range u.Variants {
		m, err := variant.Model(ctx)
		if err != nil {
			return Model{}, fmt.Errorf("variant %d: %w", i, err)
		}
		args.Variants = append(args.Variants, m.Type)
		fields = append(fields, m.Field)
	}

	t, err := ctx.Namespace.Construct(string(KindUnion), args)
	if err != nil {
		return Model{}, err
	}
	if len(u.Variants) == 1 {
		fv := *fields[0]
		if u.Nullable {
			t.Nullable = true
			fv.Nullable = true
		}
		return Model{Type: t, Field: &fv}, nil
	}
	return u.Base.model(t, func(fv *validation.FieldValidator) {
		fv.AnyOf = fields
	}), nil
}
