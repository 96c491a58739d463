package generator

import (
	"errors"
	"fmt"
	"log/slog"
	mathrand "math/rand/v2"
	"sync"

	"github.com/getmockd/jsongen/pkg/config"
	"github.com/getmockd/jsongen/pkg/logging"
	"github.com/getmockd/jsongen/pkg/schema"
	"github.com/getmockd/jsongen/pkg/validation"
)

// ErrInvalidOutput is returned by GenerateAndValidate when a generated
// document does not satisfy the schema's model.
var ErrInvalidOutput = errors.New("generated document failed validation")

// Generator produces documents from a parsed schema. It is safe for
// concurrent use: every call runs on its own schema.Context.
type Generator struct {
	node      schema.Node
	namespace *schema.Namespace
	providers *schema.Providers
	logger    *slog.Logger

	maxDepth         int
	recursionLimit   int
	maxUniqueRetries int
	itemLimit        int
	nullProbability  float64

	seed *uint64

	mu  sync.Mutex
	rng *mathrand.Rand

	modelOnce sync.Once
	model     schema.Model
	modelErr  error

	validatorOnce sync.Once
	validator     *validation.SchemaValidator
	validatorErr  error
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes the sequence of generated documents reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = &seed
	}
}

// WithLogger sets the logger handed to every generation context.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithProviders replaces the provider registry.
func WithProviders(p *schema.Providers) Option {
	return func(g *Generator) {
		if p != nil {
			g.providers = p
		}
	}
}

// WithNamespaceValue binds name for $fixed expressions.
func WithNamespaceValue(name string, value any) Option {
	return func(g *Generator) {
		g.namespace.Set(name, value)
	}
}

// WithMaxDepth sets the depth from which optional properties stop.
func WithMaxDepth(depth int) Option {
	return func(g *Generator) {
		g.maxDepth = depth
	}
}

// WithRecursionLimit caps $ref recursion.
func WithRecursionLimit(limit int) Option {
	return func(g *Generator) {
		g.recursionLimit = limit
	}
}

// WithMaxUniqueRetries caps the retries spent on uniqueItems.
func WithMaxUniqueRetries(n int) Option {
	return func(g *Generator) {
		g.maxUniqueRetries = n
	}
}

// WithItemLimit caps the items generated per array. Zero disables the cap.
func WithItemLimit(n int) Option {
	return func(g *Generator) {
		g.itemLimit = n
	}
}

// WithNullProbability sets the chance that nullable nodes yield null.
func WithNullProbability(p float64) Option {
	return func(g *Generator) {
		g.nullProbability = p
	}
}

// WithConfig applies the generation settings of cfg. Logging and output
// settings are left to the caller.
func WithConfig(cfg *config.Config) Option {
	return func(g *Generator) {
		if cfg == nil {
			return
		}
		if cfg.Seed != nil {
			seed := *cfg.Seed
			g.seed = &seed
		}
		g.maxDepth = cfg.MaxDepth
		g.recursionLimit = cfg.RecursionLimit
		g.maxUniqueRetries = cfg.MaxUniqueRetries
		g.itemLimit = cfg.ItemLimit
		g.nullProbability = cfg.NullProbability
		for name, v := range cfg.Namespace {
			g.namespace.Set(name, v)
		}
	}
}

// New parses decl and returns a Generator for it.
func New(decl map[string]any, opts ...Option) (*Generator, error) {
	node, err := schema.FromDeclaration(decl)
	if err != nil {
		return nil, err
	}
	return NewFromNode(node, opts...), nil
}

// NewFromNode returns a Generator for an already built node tree.
func NewFromNode(node schema.Node, opts ...Option) *Generator {
	g := &Generator{
		node:             node,
		namespace:        schema.NewNamespace(),
		providers:        schema.DefaultProviders(),
		logger:           logging.Nop(),
		maxDepth:         schema.DefaultMaxDepth,
		recursionLimit:   schema.DefaultRecursionLimit,
		maxUniqueRetries: schema.DefaultMaxUniqueRetries,
		itemLimit:        schema.DefaultItemLimit,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.seed != nil {
		g.rng = mathrand.New(mathrand.NewPCG(*g.seed, 0))
	} else {
		g.rng = mathrand.New(mathrand.NewPCG(mathrand.Uint64(), mathrand.Uint64()))
	}
	return g
}

// Node returns the root of the parsed schema.
func (g *Generator) Node() schema.Node {
	return g.node
}

// newContext derives a context whose random source is seeded from the
// generator's own, so a seeded generator yields the same sequence of
// documents on every run.
func (g *Generator) newContext() *schema.Context {
	g.mu.Lock()
	s1, s2 := g.rng.Uint64(), g.rng.Uint64()
	g.mu.Unlock()

	return schema.NewContext(
		schema.WithRand(mathrand.New(mathrand.NewPCG(s1, s2))),
		schema.WithLogger(g.logger),
		schema.WithNamespace(g.namespace),
		schema.WithProviders(g.providers),
		schema.WithMaxDepth(g.maxDepth),
		schema.WithRecursionLimit(g.recursionLimit),
		schema.WithMaxUniqueRetries(g.maxUniqueRetries),
		schema.WithItemLimit(g.itemLimit),
		schema.WithNullProbability(g.nullProbability),
	)
}

// Generate produces one document.
func (g *Generator) Generate() (any, error) {
	return g.node.Generate(g.newContext())
}

// GenerateN produces n documents. It stops at the first error.
func (g *Generator) GenerateN(n int) ([]any, error) {
	if n < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", n)
	}
	out := make([]any, 0, n)
	for i := range n {
		v, err := g.Generate()
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Model returns the structural model of the schema. It is computed once.
func (g *Generator) Model() (schema.Model, error) {
	g.modelOnce.Do(func() {
		// modeling draws no random numbers, so it must not advance g.rng
		ctx := schema.NewContext(
			schema.WithLogger(g.logger),
			schema.WithNamespace(g.namespace),
			schema.WithProviders(g.providers),
		)
		g.model, g.modelErr = g.node.Model(ctx)
	})
	return g.model, g.modelErr
}

// JSONSchema renders the model's type as a JSON Schema document.
func (g *Generator) JSONSchema() (map[string]any, error) {
	m, err := g.Model()
	if err != nil {
		return nil, err
	}
	return m.Type.JSONSchema(), nil
}

func (g *Generator) schemaValidator() (*validation.SchemaValidator, error) {
	g.validatorOnce.Do(func() {
		doc, err := g.JSONSchema()
		if err != nil {
			g.validatorErr = err
			return
		}
		g.validator, g.validatorErr = validation.CompileSchema(doc)
	})
	return g.validator, g.validatorErr
}

// Validate checks v against the model: its structural JSON Schema and its
// field constraints.
func (g *Generator) Validate(v any) (*validation.Result, error) {
	m, err := g.Model()
	if err != nil {
		return nil, err
	}
	sv, err := g.schemaValidator()
	if err != nil {
		return nil, err
	}

	result := sv.Validate(v)
	result.Merge(validation.ValidateField(validation.RootPath, v, m.Field))
	return result, nil
}

// GenerateAndValidate produces one document and validates it against the
// model. A document that fails validation is returned together with an
// error wrapping ErrInvalidOutput.
func (g *Generator) GenerateAndValidate() (any, error) {
	v, err := g.Generate()
	if err != nil {
		return nil, err
	}

	result, err := g.Validate(v)
	if err != nil {
		return nil, err
	}
	if result.HasErrors() {
		g.logger.Warn("generated document failed validation", "errors", len(result.Errors))
		return v, fmt.Errorf("%w: %w", ErrInvalidOutput, result.Err())
	}
	return v, nil
}
