package schema

import (
	"fmt"
	"math"
)

// builtins returns the generator factories available to $fixed expressions.
// Each factory returns a zero-argument generator bound to the context's
// random source, e.g. `between(2, 4)` or `choice(1, 3, 5)`.
func (c *Context) builtins() map[string]any {
	return map[string]any{
		"between": func(lo, hi int) func() (int, error) {
			return func() (int, error) {
				if hi < lo || hi-lo < 0 || hi-lo == math.MaxInt {
					return 0, fmt.Errorf("between(%d, %d): invalid range", lo, hi)
				}
				return lo + c.Rand.IntN(hi-lo+1), nil
			}
		},
		"constant": func(n int) func() int {
			return func() int { return n }
		},
		"choice": func(values ...int) func() int {
			return func() int {
				if len(values) == 0 {
					return 0
				}
				return values[c.Rand.IntN(len(values))]
			}
		},
	}
}
