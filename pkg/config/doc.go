// Package config provides the jsongen configuration and its loading.
//
// Configuration is layered. Defaults are overridden by a YAML file, either
// named with --config or found in the working directory as .jsongen.yaml or
// jsongen.yaml, then by JSONGEN_* environment variables, then by
// command-line flags:
//
//	seed: 42
//	count: 10
//	maxDepth: 3
//	maxUniqueRetries: 100
//	nullProbability: 0.1
//	namespace:
//	  pageSize: 20
//	log:
//	  level: info
//	  format: json
//	output:
//	  format: yaml
//
// Namespace values are visible to $fixed expressions, so a schema may say
// "$fixed": "constant(pageSize)".
package config
