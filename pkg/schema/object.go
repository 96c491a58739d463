package schema

import (
	"errors"
	"fmt"

	"github.com/getmockd/jsongen/pkg/validation"
)

// Property is one named member of an Object.
type Property struct {
	Name     string
	Node     Node
	Required bool
}

// Object generates maps from a fixed set of properties. Properties are
// visited in slice order, which the parser sorts by name so seeded runs are
// reproducible.
type Object struct {
	Base
	Properties []Property
}

// Kind implements Node.
func (o *Object) Kind() Kind { return KindObject }

// Generate implements Node. Required properties are always present.
// Optional ones are included with even odds until ctx.MaxDepth is reached,
// after which they are omitted.
func (o *Object) Generate(ctx *Context) (any, error) {
	v, err := o.Base.generate(ctx)
	if !errors.Is(err, ErrNoProvider) {
		return v, err
	}

	ctx.State.Depth++
	depth := ctx.State.Depth

	out := make(map[string]any, len(o.Properties))
	for _, p := range o.Properties {
		if !p.Required && (depth >= ctx.MaxDepth || ctx.Rand.IntN(2) == 0) {
			continue
		}
		ctx.State.Depth = depth
		pv, err := p.Node.Generate(ctx)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", p.Name, err)
		}
		out[p.Name] = pv
	}
	ctx.State.Depth = depth
	return out, nil
}

// Model implements Node.
func (o *Object) Model(ctx *Context) (Model, error) {
	args := TypeArgs{Fields: make(map[string]*Type, len(o.Properties))}
	props := make(map[string]*validation.FieldValidator, len(o.Properties))
	for _, p := range o.Properties {
		m, err := p.Node.Model(ctx)
		if err != nil {
			return Model{}, fmt.Errorf("property %q: %w", p.Name, err)
		}
		args.Fields[p.Name] = m.Type
		if p.Required {
			args.Required = append(args.Required, p.Name)
		}

		fv := *m.Field
		fv.Required = p.Required
		props[p.Name] = &fv
	}

	t, err := ctx.Namespace.Construct(string(KindObject), args)
	if err != nil {
		return Model{}, err
	}
	return o.Base.model(t, func(fv *validation.FieldValidator) {
		fv.Properties = props
	}), nil
}
