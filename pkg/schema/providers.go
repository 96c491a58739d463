package schema

import (
	"maps"
	"slices"
	"sync"

	"github.com/getmockd/jsongen/pkg/faker"
)

// FakerPrefix namespaces the built-in faker providers, e.g. "faker.email".
const FakerPrefix = "faker."

// Provider replaces the default generation algorithm of every node whose
// $provider names it.
type Provider func(ctx *Context) (any, error)

// Providers is a registry of named providers. It is safe for concurrent use.
type Providers struct {
	mu     sync.RWMutex
	byName map[string]Provider
}

// NewProviders returns an empty registry.
func NewProviders() *Providers {
	return &Providers{byName: make(map[string]Provider)}
}

// DefaultProviders returns a registry holding every faker under FakerPrefix.
func DefaultProviders() *Providers {
	p := NewProviders()
	for _, name := range faker.Names() {
		fn, _ := faker.Lookup(name)
		p.Register(FakerPrefix+name, FakerProvider(fn))
	}
	return p
}

// FakerProvider adapts a faker to a Provider drawing from the context's
// random source.
func FakerProvider(fn faker.Func) Provider {
	return func(ctx *Context) (any, error) {
		return fn(ctx.Rand), nil
	}
}

// Register adds or replaces the provider for name.
func (p *Providers) Register(name string, fn Provider) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byName[name] = fn
}

// Lookup returns the provider registered for name.
func (p *Providers) Lookup(name string) (Provider, bool) {
	if p == nil {
		return nil, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	fn, ok := p.byName[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (p *Providers) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Sorted(maps.Keys(p.byName))
}
