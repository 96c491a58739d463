// Package generator is the entry point for producing random documents from
// JSON Schema declarations.
//
//	g, err := generator.New(decl, generator.WithSeed(42))
//	if err != nil {
//		return err
//	}
//	docs, err := g.GenerateN(10)
//
// A Generator parses its declaration once and runs each generation on a
// fresh schema.Context, so it may be shared between goroutines. Seeded
// generators yield the same sequence of documents on every run.
package generator
