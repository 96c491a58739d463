// Package faker produces realistic fake strings for generated documents.
//
// Every faker takes an optional *rand.Rand. Passing a seeded source makes the
// output reproducible; passing nil uses the global math/rand/v2 source.
//
//	rng := rand.New(rand.NewPCG(42, 0))
//	email := faker.Email(rng)
//
// Fakers are addressable by name through Lookup, which is how schema
// providers such as "faker.email" are resolved, and by JSON Schema string
// format through ByFormat.
package faker
