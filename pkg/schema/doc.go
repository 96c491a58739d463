// Package schema turns JSON Schema declarations into node graphs that
// generate random conforming values.
//
// A declaration is parsed once with FromDeclaration. The resulting Node can
// then generate any number of values and describe them with Model, which
// returns a structural Type (renderable as JSON Schema) and a
// validation.FieldValidator carrying the value constraints:
//
//	node, err := schema.FromDeclaration(map[string]any{
//	    "type":        "array",
//	    "items":       map[string]any{"type": "string", "format": "email"},
//	    "minItems":    2,
//	    "uniqueItems": true,
//	})
//	if err != nil {
//	    return err
//	}
//	ctx := schema.NewContext(schema.WithSeed(42))
//	value, err := node.Generate(ctx)
//
// Besides standard keywords the parser understands two extensions:
//
//   - $provider names a function registered in the context's Providers that
//     replaces the node's own generation. The faker.* providers are
//     registered by default.
//   - $fixed on an array sets its length for every call, either as an
//     integer or as an expression such as "between(2, 4)" evaluated against
//     the context's Namespace.
//
// A Context is mutated during generation and must not be shared between
// goroutines. Nodes themselves are never mutated by Generate and may be
// used concurrently with separate contexts.
package schema
