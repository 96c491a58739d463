package schema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/getmockd/jsongen/pkg/validation"
)

// Default ranges for unconstrained numbers. Integers draw from
// [defaultNumberMin, defaultNumberMax]; numbers exclude the upper bound.
const (
	defaultNumberMin  = 0
	defaultNumberMax  = 1000
	defaultNumberSpan = defaultNumberMax - defaultNumberMin
)

// Bounds holds the numeric constraints shared by Integer and Number.
type Bounds struct {
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64
	MultipleOf       *float64
}

func (b *Bounds) constrain(fv *validation.FieldValidator) {
	fv.Min = b.Minimum
	fv.Max = b.Maximum
	fv.ExclusiveMin = b.ExclusiveMinimum
	fv.ExclusiveMax = b.ExclusiveMaximum
	fv.MultipleOf = b.MultipleOf
}

// Integer generates whole numbers.
type Integer struct {
	Base
	Bounds
}

// Kind implements Node.
func (i *Integer) Kind() Kind { return KindInteger }

// Generate implements Node.
func (i *Integer) Generate(ctx *Context) (any, error) {
	v, err := i.Base.generate(ctx)
	if !errors.Is(err, ErrNoProvider) {
		return v, err
	}

	lo, hi := i.intRange()
	if lo > hi {
		return nil, fmt.Errorf("%w: integer bounds [%d, %d]", ErrInvalidSchema, lo, hi)
	}

	step := int64(1)
	if i.MultipleOf != nil {
		m := *i.MultipleOf
		if m <= 0 || m != math.Trunc(m) {
			return nil, fmt.Errorf("%w: integer multipleOf %v", ErrInvalidSchema, m)
		}
		step = int64(m)
	}

	first := ceilDiv(lo, step)
	last := floorDiv(hi, step)
	if first > last {
		return nil, fmt.Errorf("%w: no multiple of %d in [%d, %d]", ErrInvalidSchema, step, lo, hi)
	}
	return int((first + ctx.Rand.Int64N(last-first+1)) * step), nil
}

// intRange resolves the inclusive integer range.
func (i *Integer) intRange() (lo, hi int64) {
	lo, hi = math.MinInt64, math.MaxInt64
	hasLo, hasHi := false, false
	if i.Minimum != nil {
		lo, hasLo = int64(math.Ceil(*i.Minimum)), true
	}
	if i.ExclusiveMinimum != nil {
		lo, hasLo = max(lo, int64(math.Floor(*i.ExclusiveMinimum))+1), true
	}
	if i.Maximum != nil {
		hi, hasHi = int64(math.Floor(*i.Maximum)), true
	}
	if i.ExclusiveMaximum != nil {
		hi, hasHi = min(hi, int64(math.Ceil(*i.ExclusiveMaximum))-1), true
	}

	switch {
	case !hasLo && !hasHi:
		return defaultNumberMin, defaultNumberMax
	case !hasLo:
		return min(defaultNumberMin, hi-defaultNumberSpan), hi
	case !hasHi:
		return lo, max(defaultNumberMax, lo+defaultNumberSpan)
	}
	return lo, hi
}

// Model implements Node.
func (i *Integer) Model(ctx *Context) (Model, error) {
	t, err := ctx.Namespace.Construct(string(KindInteger), TypeArgs{})
	if err != nil {
		return Model{}, err
	}
	return i.Base.model(t, i.constrain), nil
}

// Number generates floating point values rounded to two decimals when the
// rounding keeps them within bounds.
type Number struct {
	Base
	Bounds
}

// Kind implements Node.
func (n *Number) Kind() Kind { return KindNumber }

// Generate implements Node.
func (n *Number) Generate(ctx *Context) (any, error) {
	v, err := n.Base.generate(ctx)
	if !errors.Is(err, ErrNoProvider) {
		return v, err
	}

	lo, hi := float64(defaultNumberMin), float64(defaultNumberMax)
	switch {
	case n.Minimum != nil && n.Maximum != nil:
		lo, hi = *n.Minimum, *n.Maximum
	case n.Minimum != nil:
		lo, hi = *n.Minimum, max(hi, *n.Minimum+defaultNumberSpan)
	case n.Maximum != nil:
		lo, hi = min(lo, *n.Maximum-defaultNumberSpan), *n.Maximum
	}
	if n.ExclusiveMinimum != nil {
		lo = max(lo, *n.ExclusiveMinimum)
	}
	if n.ExclusiveMaximum != nil {
		hi = min(hi, *n.ExclusiveMaximum)
	}
	if lo > hi {
		return nil, fmt.Errorf("%w: number bounds [%v, %v]", ErrInvalidSchema, lo, hi)
	}

	if n.MultipleOf != nil {
		return n.multiple(ctx, lo, hi)
	}

	raw := lo + ctx.Rand.Float64()*(hi-lo)
	if r := math.Round(raw*100) / 100; n.inBounds(r, lo, hi) {
		return r, nil
	}
	if n.inBounds(raw, lo, hi) {
		return raw, nil
	}
	return nil, fmt.Errorf("%w: empty number range (%v, %v)", ErrInvalidSchema, lo, hi)
}

func (n *Number) multiple(ctx *Context, lo, hi float64) (any, error) {
	m := *n.MultipleOf
	if m <= 0 {
		return nil, fmt.Errorf("%w: number multipleOf %v", ErrInvalidSchema, m)
	}
	first, last := math.Ceil(lo/m), math.Floor(hi/m)
	decimals := decimalPlaces(m)
	for first <= last && !n.inBounds(roundTo(first*m, decimals), lo, hi) {
		first++
	}
	for last >= first && !n.inBounds(roundTo(last*m, decimals), lo, hi) {
		last--
	}
	if first > last {
		return nil, fmt.Errorf("%w: no multiple of %v in [%v, %v]", ErrInvalidSchema, m, lo, hi)
	}
	k := first + float64(ctx.Rand.Int64N(int64(last-first)+1))
	return roundTo(k*m, decimals), nil
}

// inBounds reports whether v satisfies both the resolved range and the
// exclusive bounds.
func (n *Number) inBounds(v, lo, hi float64) bool {
	if v < lo || v > hi {
		return false
	}
	if n.ExclusiveMinimum != nil && v <= *n.ExclusiveMinimum {
		return false
	}
	if n.ExclusiveMaximum != nil && v >= *n.ExclusiveMaximum {
		return false
	}
	if n.ExclusiveMaximum == nil && n.Maximum == nil && v >= hi {
		return false
	}
	return true
}

// Model implements Node.
func (n *Number) Model(ctx *Context) (Model, error) {
	t, err := ctx.Namespace.Construct(string(KindNumber), TypeArgs{})
	if err != nil {
		return Model{}, err
	}
	return n.Base.model(t, n.constrain), nil
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a > 0) == (b > 0) {
		q++
	}
	return q
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// decimalPlaces counts the fractional digits of f's shortest representation.
func decimalPlaces(f float64) int {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

func roundTo(f float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(f*p) / p
}
