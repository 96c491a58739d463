package schema

import (
	"errors"
	"fmt"

	"github.com/getmockd/jsongen/pkg/faker"
	"github.com/getmockd/jsongen/pkg/validation"
)

// Default length range for unconstrained strings.
const (
	defaultMinLength = 1
	defaultMaxLength = 16
)

// String generates text. A pattern takes precedence over a format, which
// takes precedence over random letters sized by the length bounds.
type String struct {
	Base
	MinLength *int
	MaxLength *int
	Pattern   *Pattern
	Format    string
}

// Kind implements Node.
func (s *String) Kind() Kind { return KindString }

// Generate implements Node.
func (s *String) Generate(ctx *Context) (any, error) {
	v, err := s.Base.generate(ctx)
	if !errors.Is(err, ErrNoProvider) {
		return v, err
	}

	if s.Pattern != nil {
		return s.Pattern.Generate(ctx.Rand), nil
	}
	if s.Format != "" {
		if fn, ok := faker.ByFormat(s.Format); ok {
			return fn(ctx.Rand), nil
		}
		ctx.Logger.Debug("unsupported string format, generating letters", "format", s.Format)
	}

	lo, hi := defaultMinLength, defaultMaxLength
	switch {
	case s.MinLength != nil && s.MaxLength != nil:
		lo, hi = *s.MinLength, *s.MaxLength
	case s.MinLength != nil:
		lo = *s.MinLength
		hi = max(hi, lo+defaultMaxLength-defaultMinLength)
	case s.MaxLength != nil:
		hi = *s.MaxLength
		lo = min(lo, hi)
	}
	if lo < 0 || lo > hi {
		return nil, fmt.Errorf("%w: string length bounds [%d, %d]", ErrInvalidSchema, lo, hi)
	}
	return faker.Letters(ctx.Rand, lo+ctx.Rand.IntN(hi-lo+1)), nil
}

// Model implements Node.
func (s *String) Model(ctx *Context) (Model, error) {
	t, err := ctx.Namespace.Construct(string(KindString), TypeArgs{})
	if err != nil {
		return Model{}, err
	}
	return s.Base.model(t, func(fv *validation.FieldValidator) {
		fv.MinLength = s.MinLength
		fv.MaxLength = s.MaxLength
		fv.Format = s.Format
		if s.Pattern != nil {
			fv.Pattern = s.Pattern.String()
		}
	}), nil
}
