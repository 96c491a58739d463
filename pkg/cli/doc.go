// Package cli provides the command-line interface for jsongen.
//
// Commands:
//   - generate: Produce random documents from JSON Schema files or an
//     OpenAPI component
//   - model: Print the structural type of a schema, or its JSON Schema
//   - validate: Check a document against a schema's model
//   - version: Show jsongen version
//
// Settings are layered: built-in defaults, a config file (--config, or
// .jsongen.yaml / jsongen.yaml in the working directory), JSONGEN_*
// environment variables, then flags.
//
// Usage:
//
//	jsongen generate user.json -n 5 --seed 42
//	jsongen generate 'schemas/**/*.json' --format jsonl
//	jsongen generate --openapi api.yaml --component Pet --validate
//	jsongen model user.json --json-schema
//	jsongen validate user.json out.json
package cli
