package schema

import "errors"

var (
	// ErrNoProvider signals that a node has no provider configured and the
	// default generation algorithm should run. It never escapes Generate.
	ErrNoProvider = errors.New("no provider configured")

	// ErrUnknownProvider is returned when $provider names a provider that is
	// not registered.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrInvalidFixed is returned when a $fixed directive cannot be resolved
	// to a non-negative item count.
	ErrInvalidFixed = errors.New("invalid $fixed directive")

	// ErrUnsatisfiableUnique is returned when uniqueItems cannot be satisfied
	// within the configured number of retries.
	ErrUnsatisfiableUnique = errors.New("unsatisfiable uniqueness constraint")

	// ErrUnknownType is returned for an unrecognised type keyword or type
	// constructor.
	ErrUnknownType = errors.New("unknown type")

	// ErrInvalidSchema is returned for structurally invalid declarations.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrUnresolvedRef is returned when a $ref cannot be resolved.
	ErrUnresolvedRef = errors.New("unresolved $ref")

	// ErrRecursionLimit is returned when generation follows $ref cycles
	// deeper than the context's recursion limit.
	ErrRecursionLimit = errors.New("recursion limit exceeded")
)
