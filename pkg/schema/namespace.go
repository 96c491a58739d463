package schema

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// TypeArgs are the inputs to a type constructor. Each constructor reads
// only the fields that apply to it.
type TypeArgs struct {
	Elem     *Type
	Fields   map[string]*Type
	Required []string
	Values   []any
	Variants []*Type
}

// TypeConstructor builds a type descriptor from its arguments.
type TypeConstructor func(args TypeArgs) (*Type, error)

// Namespace is the closed set of names available to $fixed expressions and
// the registry of type constructors used to compose model types.
//
// Expressions are expr-lang programs evaluated against the namespace values;
// nothing outside the namespace is reachable from an expression. A Namespace
// is safe for concurrent use.
type Namespace struct {
	mu       sync.RWMutex
	values   map[string]any
	types    map[string]TypeConstructor
	programs map[string]*vm.Program
}

// NewNamespace returns a namespace with the built-in type constructors.
func NewNamespace() *Namespace {
	n := &Namespace{
		values:   make(map[string]any),
		types:    make(map[string]TypeConstructor),
		programs: make(map[string]*vm.Program),
	}
	for _, k := range []Kind{KindAny, KindString, KindInteger, KindNumber, KindBoolean, KindNull} {
		n.types[string(k)] = scalarConstructor(k)
	}
	n.types[string(KindArray)] = func(args TypeArgs) (*Type, error) {
		elem := args.Elem
		if elem == nil {
			elem = &Type{Kind: KindAny}
		}
		return &Type{Kind: KindArray, Elem: elem}, nil
	}
	n.types[string(KindObject)] = func(args TypeArgs) (*Type, error) {
		for _, name := range args.Required {
			if _, ok := args.Fields[name]; !ok {
				return nil, fmt.Errorf("required field %q has no type", name)
			}
		}
		return &Type{Kind: KindObject, Fields: args.Fields, Required: args.Required}, nil
	}
	n.types[string(KindEnum)] = func(args TypeArgs) (*Type, error) {
		if len(args.Values) == 0 {
			return nil, fmt.Errorf("enum needs at least one value")
		}
		return &Type{Kind: KindEnum, Values: args.Values}, nil
	}
	n.types[string(KindUnion)] = func(args TypeArgs) (*Type, error) {
		switch len(args.Variants) {
		case 0:
			return nil, fmt.Errorf("union needs at least one variant")
		case 1:
			return args.Variants[0], nil
		}
		return &Type{Kind: KindUnion, Variants: args.Variants}, nil
	}
	return n
}

func scalarConstructor(k Kind) TypeConstructor {
	return func(TypeArgs) (*Type, error) {
		return &Type{Kind: k}, nil
	}
}

// Set binds name to value for use in expressions.
func (n *Namespace) Set(name string, value any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.values[name] = value
}

// Get returns the value bound to name.
func (n *Namespace) Get(name string) (any, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	v, ok := n.values[name]
	return v, ok
}

// RegisterType adds or replaces a type constructor.
func (n *Namespace) RegisterType(name string, c TypeConstructor) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.types[name] = c
}

// Construct applies the constructor registered under name.
func (n *Namespace) Construct(name string, args TypeArgs) (*Type, error) {
	n.mu.RLock()
	c, ok := n.types[name]
	n.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no constructor for %q", ErrUnknownType, name)
	}
	t, err := c(args)
	if err != nil {
		return nil, fmt.Errorf("construct %s: %w", name, err)
	}
	return t, nil
}

// Eval runs an expression against the namespace values merged with extra.
// Entries in extra shadow namespace values of the same name.
func (n *Namespace) Eval(expression string, extra map[string]any) (any, error) {
	n.mu.RLock()
	env := make(map[string]any, len(n.values)+len(extra))
	maps.Copy(env, n.values)
	n.mu.RUnlock()
	maps.Copy(env, extra)

	program, err := n.compile(expression, env)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expression, err)
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("eval %q: %w", expression, err)
	}
	return result, nil
}

// compile returns a cached program for the expression and env shape.
func (n *Namespace) compile(expression string, env map[string]any) (*vm.Program, error) {
	cacheKey := expression + "\x00" + envSignature(env)

	n.mu.RLock()
	if program, ok := n.programs[cacheKey]; ok {
		n.mu.RUnlock()
		return program, nil
	}
	n.mu.RUnlock()

	program, err := expr.Compile(expression, expr.Env(env))
	if err != nil {
		return nil, err
	}

	n.mu.Lock()
	if existing, ok := n.programs[cacheKey]; ok {
		n.mu.Unlock()
		return existing, nil
	}
	n.programs[cacheKey] = program
	n.mu.Unlock()

	return program, nil
}

func envSignature(env map[string]any) string {
	keys := slices.Sorted(maps.Keys(env))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ":" + fmt.Sprintf("%T", env[k])
	}
	return strings.Join(parts, ",")
}
