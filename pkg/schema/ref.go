package schema

import (
	"fmt"
	"sync"
)

// Ref is a $ref to another part of the document. The target is parsed on
// first use and shared by every Ref with the same pointer, which lets
// recursive schemas form cycles in the node graph.
type Ref struct {
	Pointer string

	resolve func() (Node, error)
	once    sync.Once
	target  Node
	err     error
}

// NewRef returns a reference whose target is produced by resolve.
func NewRef(pointer string, resolve func() (Node, error)) *Ref {
	return &Ref{Pointer: pointer, resolve: resolve}
}

// Target returns the referenced node, resolving it if needed.
func (r *Ref) Target() (Node, error) {
	r.once.Do(func() {
		if r.resolve == nil {
			r.err = fmt.Errorf("%w: %s", ErrUnresolvedRef, r.Pointer)
			return
		}
		r.target, r.err = r.resolve()
	})
	return r.target, r.err
}

// Kind implements Node. An unresolvable reference reports KindAny.
func (r *Ref) Kind() Kind {
	t, err := r.Target()
	if err != nil {
		return KindAny
	}
	return t.Kind()
}

// Generate implements Node. Following references deeper than
// ctx.RecursionLimit fails with ErrRecursionLimit.
func (r *Ref) Generate(ctx *Context) (any, error) {
	t, err := r.Target()
	if err != nil {
		return nil, err
	}

	refs := ctx.State.Refs
	if refs >= ctx.RecursionLimit {
		return nil, fmt.Errorf("%w: %s nested %d deep", ErrRecursionLimit, r.Pointer, refs)
	}
	ctx.State.Refs++
	defer func() { ctx.State.Refs = refs }()

	return t.Generate(ctx)
}

// Model implements Node. A reference met again while it is being modeled
// is described as any.
func (r *Ref) Model(ctx *Context) (Model, error) {
	t, err := r.Target()
	if err != nil {
		return Model{}, err
	}

	if ctx.modeling == nil {
		ctx.modeling = make(map[*Ref]bool)
	}
	if ctx.modeling[r] {
		return (&Any{}).Model(ctx)
	}
	ctx.modeling[r] = true
	defer delete(ctx.modeling, r)

	return t.Model(ctx)
}
