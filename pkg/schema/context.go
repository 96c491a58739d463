package schema

import (
	"log/slog"
	mathrand "math/rand/v2"

	"github.com/getmockd/jsongen/pkg/logging"
)

// Limits applied by NewContext unless overridden.
const (
	DefaultMaxDepth         = 3
	DefaultRecursionLimit   = 32
	DefaultMaxUniqueRetries = 100
	DefaultItemLimit        = 10000
)

// State is the mutable bookkeeping shared by every node during one run.
type State struct {
	// Depth is the current nesting depth. Container nodes increment it
	// before recursing into children; Array restores it after each element.
	Depth int

	// Refs counts the $ref targets currently being generated.
	Refs int
}

// Context carries the state of a single generation run. It is mutated in
// place and must not be shared between goroutines; create one per run.
type Context struct {
	State State

	// Namespace resolves $fixed expressions and composite types.
	Namespace *Namespace

	// Providers holds the functions nodes name with $provider.
	Providers *Providers

	Rand   *mathrand.Rand
	Logger *slog.Logger

	// MaxDepth is the depth from which objects stop generating optional
	// properties.
	MaxDepth int

	// RecursionLimit caps how deep $ref cycles may be followed.
	RecursionLimit int

	// MaxUniqueRetries caps the extra generations spent satisfying
	// uniqueItems before giving up with ErrUnsatisfiableUnique.
	MaxUniqueRetries int

	// ItemLimit caps the number of items any array may generate in one
	// call. Zero or less means no cap.
	ItemLimit int

	// NullProbability is the chance that a nullable node yields null.
	NullProbability float64

	// modeling tracks refs currently being modeled so cycles terminate.
	modeling map[*Ref]bool
}

// Option configures a Context.
type Option func(*Context)

// NewContext creates a context with a randomly seeded source, the built-in
// namespace and the default provider registry.
func NewContext(opts ...Option) *Context {
	c := &Context{
		Namespace:        NewNamespace(),
		Providers:        DefaultProviders(),
		Rand:             mathrand.New(mathrand.NewPCG(mathrand.Uint64(), mathrand.Uint64())),
		Logger:           logging.Nop(),
		MaxDepth:         DefaultMaxDepth,
		RecursionLimit:   DefaultRecursionLimit,
		MaxUniqueRetries: DefaultMaxUniqueRetries,
		ItemLimit:        DefaultItemLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithSeed makes the run reproducible.
func WithSeed(seed uint64) Option {
	return func(c *Context) {
		c.Rand = mathrand.New(mathrand.NewPCG(seed, 0))
	}
}

// WithRand sets the random source.
func WithRand(r *mathrand.Rand) Option {
	return func(c *Context) {
		if r != nil {
			c.Rand = r
		}
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l == nil {
			l = logging.Nop()
		}
		c.Logger = l
	}
}

// WithNamespace replaces the expression namespace.
func WithNamespace(ns *Namespace) Option {
	return func(c *Context) {
		if ns != nil {
			c.Namespace = ns
		}
	}
}

// WithProviders replaces the provider registry.
func WithProviders(p *Providers) Option {
	return func(c *Context) {
		if p != nil {
			c.Providers = p
		}
	}
}

// WithMaxDepth sets the depth at which optional properties stop.
func WithMaxDepth(depth int) Option {
	return func(c *Context) {
		c.MaxDepth = depth
	}
}

// WithRecursionLimit sets the maximum $ref recursion depth.
func WithRecursionLimit(limit int) Option {
	return func(c *Context) {
		c.RecursionLimit = limit
	}
}

// WithMaxUniqueRetries sets the uniqueness retry cap.
func WithMaxUniqueRetries(n int) Option {
	return func(c *Context) {
		c.MaxUniqueRetries = n
	}
}

// WithItemLimit caps the items generated per array.
func WithItemLimit(n int) Option {
	return func(c *Context) {
		c.ItemLimit = n
	}
}

// WithNullProbability sets the chance that nullable nodes yield null.
func WithNullProbability(p float64) Option {
	return func(c *Context) {
		c.NullProbability = p
	}
}
