package schema

import (
	"encoding/json"
	"fmt"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
)

// canonicalKey is the set key of a value that is not comparable in Go,
// such as a map or slice. It never collides with a string value key.
type canonicalKey string

var canonicalOptions = &ojg.Options{Sort: true}

// canonical encodes v with sorted object keys so equal JSON values encode
// identically regardless of map iteration order.
func canonical(v any) canonicalKey {
	return canonicalKey(oj.JSON(v, canonicalOptions))
}

// itemSet collects distinct values in first-seen order.
type itemSet struct {
	key   func(v any) any
	seen  map[any]struct{}
	items []any
}

func newItemSet(key func(v any) any, capacity int) *itemSet {
	return &itemSet{
		key:   key,
		seen:  make(map[any]struct{}, capacity),
		items: make([]any, 0, capacity),
	}
}

// add inserts v unless an equal value is already present.
func (s *itemSet) add(v any) {
	k := s.key(v)
	if _, dup := s.seen[k]; dup {
		return
	}
	s.seen[k] = struct{}{}
	s.items = append(s.items, v)
}

func (s *itemSet) len() int { return len(s.items) }

// scalarKey uses the value itself when it is comparable. Numbers are keyed
// as float64 so 2 and 2.0, which encode identically, collide.
func scalarKey(v any) any {
	switch n := v.(type) {
	case nil, string, bool, float64:
		return v
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
		return v
	default:
		return canonical(v)
	}
}

// objectKey returns a key function comparing objects by their field/value
// pairs. Nested containers are compared by their canonical encoding; the
// first one seen is logged so callers can tell it happened.
func objectKey(ctx *Context) func(v any) any {
	warned := false
	return func(v any) any {
		obj, ok := v.(map[string]any)
		if !ok {
			return scalarKey(v)
		}
		if !warned {
			for name, fv := range obj {
				switch fv.(type) {
				case map[string]any, []any:
					ctx.Logger.Warn("unique object items compared by nested value",
						"field", name)
					warned = true
				}
				if warned {
					break
				}
			}
		}
		return canonical(obj)
	}
}

// unique deduplicates generated items and tops the result up to lo distinct
// values, spending at most ctx.MaxUniqueRetries extra generations.
func (a *Array) unique(ctx *Context, items []any, lo, depth int) ([]any, error) {
	key := scalarKey
	if a.Items.Kind() == KindObject {
		key = objectKey(ctx)
	}

	set := newItemSet(key, max(len(items), lo))
	for _, item := range items {
		set.add(item)
	}

	for retries := 0; set.len() < lo; retries++ {
		if retries >= ctx.MaxUniqueRetries {
			return nil, fmt.Errorf("%w: need %d distinct items, found %d after %d retries",
				ErrUnsatisfiableUnique, lo, set.len(), retries)
		}
		ctx.Logger.Debug("regenerating duplicate array item",
			"distinct", set.len(),
			"min", lo,
			"retry", retries+1,
		)
		item, err := a.Items.Generate(ctx)
		ctx.State.Depth = depth
		if err != nil {
			return nil, err
		}
		set.add(item)
	}

	return set.items, nil
}
