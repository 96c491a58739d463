package schema

import (
	"errors"
	"fmt"
	"math"

	"github.com/getmockd/jsongen/pkg/validation"
)

// DefaultMaxItems is the effective maxItems when a schema leaves it unset.
const DefaultMaxItems = 5

// Fixed is the $fixed directive. Exactly one of Count and Expr is set.
type Fixed struct {
	// Count is a constant item count.
	Count *int

	// Expr is an expression evaluated against the namespace. It must yield a
	// zero-argument generator whose result is the item count.
	Expr string
}

// FixedCount returns a constant $fixed directive.
func FixedCount(n int) *Fixed {
	return &Fixed{Count: &n}
}

// FixedExpr returns an expression $fixed directive.
func FixedExpr(expression string) *Fixed {
	return &Fixed{Expr: expression}
}

// resolve returns the item count for one generation call.
func (f *Fixed) resolve(ctx *Context) (int, error) {
	if f.Count != nil {
		if *f.Count < 0 {
			return 0, fmt.Errorf("%w: negative count %d", ErrInvalidFixed, *f.Count)
		}
		return *f.Count, nil
	}

	v, err := ctx.Namespace.Eval(f.Expr, ctx.builtins())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidFixed, err)
	}
	n, err := callCount(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidFixed, f.Expr, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %q yielded negative count %d", ErrInvalidFixed, f.Expr, n)
	}
	return n, nil
}

// callCount invokes a zero-argument generator and converts its result to a count.
func callCount(v any) (int, error) {
	switch fn := v.(type) {
	case func() int:
		return fn(), nil
	case func() int64:
		return int(fn()), nil
	case func() float64:
		return integral(fn())
	case func() (int, error):
		return fn()
	case func() any:
		return countValue(fn())
	default:
		return 0, fmt.Errorf("expression yielded %T, want a zero-argument generator", v)
	}
}

func countValue(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return integral(n)
	default:
		return 0, fmt.Errorf("generator returned %T, want an integer", v)
	}
}

func integral(f float64) (int, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("generator returned non-integral %v", f)
	}
	return int(f), nil
}

// Array generates lists of values drawn from an element schema.
type Array struct {
	Base

	// Items is the element schema. Nil means an untyped array, which
	// always generates empty.
	Items Node

	// Contains is kept for validation and never consulted by Generate.
	Contains Node

	// MinItems and MaxItems are nil when the schema leaves them unset;
	// an explicit zero is distinct from unset.
	MinItems *int
	MaxItems *int

	UniqueItems bool

	// Fixed overrides both bounds for each generation call.
	Fixed *Fixed
}

// Kind implements Node.
func (a *Array) Kind() Kind { return KindArray }

// Generate implements Node.
func (a *Array) Generate(ctx *Context) (any, error) {
	v, err := a.Base.generate(ctx)
	if !errors.Is(err, ErrNoProvider) {
		return v, err
	}

	if a.Items == nil {
		return []any{}, nil
	}

	lo, hi, err := a.bounds(ctx)
	if err != nil {
		return nil, err
	}

	depth := ctx.State.Depth

	n := lo + ctx.Rand.IntN(hi-lo+1)
	out := make([]any, 0, n)
	for range n {
		item, err := a.Items.Generate(ctx)
		ctx.State.Depth = depth
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	if !a.UniqueItems {
		return out, nil
	}
	return a.unique(ctx, out, lo, depth)
}

// bounds resolves the effective item count range for one call. It never
// mutates the node.
func (a *Array) bounds(ctx *Context) (lo, hi int, err error) {
	if a.Fixed != nil {
		n, err := a.Fixed.resolve(ctx)
		if err != nil {
			return 0, 0, err
		}
		return ctx.limitItems(n, n)
	}

	hi = DefaultMaxItems
	if a.MaxItems != nil {
		hi = *a.MaxItems
	}

	switch {
	case a.MinItems != nil:
		lo = *a.MinItems
	case a.Items != nil:
		// A typed array should not come out empty by default, unless an
		// explicit maxItems leaves no room.
		lo = min(1, hi)
	}

	if lo < 0 || lo > hi {
		return 0, 0, fmt.Errorf("%w: item bounds [%d, %d]", ErrInvalidSchema, lo, hi)
	}
	return ctx.limitItems(lo, hi)
}

// limitItems applies ctx.ItemLimit to an item range. An upper bound above
// the limit is lowered to it; a lower bound above it cannot be honored.
func (c *Context) limitItems(lo, hi int) (int, int, error) {
	if c.ItemLimit > 0 {
		if lo > c.ItemLimit {
			return 0, 0, fmt.Errorf("%w: %d items required, limit is %d",
				ErrInvalidSchema, lo, c.ItemLimit)
		}
		hi = min(hi, c.ItemLimit)
	}
	if hi-lo >= math.MaxInt {
		return 0, 0, fmt.Errorf("%w: item bounds [%d, %d] too wide", ErrInvalidSchema, lo, hi)
	}
	return lo, hi, nil
}

// Model implements Node.
func (a *Array) Model(ctx *Context) (Model, error) {
	var elem Model
	args := TypeArgs{}
	if a.Items != nil {
		m, err := a.Items.Model(ctx)
		if err != nil {
			return Model{}, err
		}
		elem = m
		args.Elem = m.Type
	}

	t, err := ctx.Namespace.Construct(string(KindArray), args)
	if err != nil {
		return Model{}, err
	}

	return a.Base.model(t, func(fv *validation.FieldValidator) {
		fv.UniqueItems = a.UniqueItems
		fv.Items = elem.Field
		switch {
		case a.Fixed != nil && a.Fixed.Count != nil:
			fv.MinItems = a.Fixed.Count
			fv.MaxItems = a.Fixed.Count
		case a.Fixed != nil:
			// count is only known per call
		default:
			fv.MinItems = a.MinItems
			maxItems := DefaultMaxItems
			if a.MaxItems != nil {
				maxItems = *a.MaxItems
			}
			fv.MaxItems = &maxItems
		}
	}), nil
}
