package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/jsongen/pkg/cli/internal/output"
	"github.com/getmockd/jsongen/pkg/config"
	"github.com/getmockd/jsongen/pkg/generator"
)

var (
	generateSource   sourceFlags
	generateCount    int
	generateSeed     uint64
	generateFormat   string
	generateIndent   int
	generateOutput   string
	generateValidate bool
	generateSet      []string

	generateMaxDepth         int
	generateRecursionLimit   int
	generateMaxUniqueRetries int
	generateItemLimit        int
	generateNullProbability  float64
)

var generateCmd = &cobra.Command{
	Use:   "generate [SCHEMA...]",
	Short: "Generate random documents from JSON Schema",
	Long: `Generate random documents from one or more JSON Schema files.

SCHEMA may be a JSON or YAML file, a glob such as 'schemas/**/*.json', or -
to read a JSON schema from stdin. With --openapi and --component the schema
is taken from an OpenAPI 3 document instead.

Arrays may carry a "$fixed" keyword that pins their length: an integer, or an
expression that yields a generator, such as between(2, 4), constant(pageSize)
or choice(1, 3, 5). Names used in expressions are bound with --set or the
namespace section of the config file.

Examples:
  # Five users, reproducibly
  jsongen generate user.json -n 5 --seed 42

  # Every schema in a tree, one JSON document per line
  jsongen generate 'schemas/**/*.json' --format jsonl

  # A component of an OpenAPI document, checked against its model
  jsongen generate --openapi api.yaml --component Pet --validate

  # Bind a name for $fixed expressions
  jsongen generate page.json --set pageSize=20`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	generateSource.register(generateCmd)
	f.IntVarP(&generateCount, "count", "n", 1, "Documents to generate per schema")
	f.Uint64Var(&generateSeed, "seed", 0, "Seed for reproducible output")
	f.StringVarP(&generateFormat, "format", "f", config.OutputJSON, "Output format: json, jsonl, yaml")
	f.IntVar(&generateIndent, "indent", 2, "JSON indent width (0 for compact)")
	f.StringVarP(&generateOutput, "output", "o", "", "Write output to this file instead of stdout")
	f.BoolVar(&generateValidate, "validate", false, "Validate every document against the schema's model")
	f.StringArrayVar(&generateSet, "set", nil, "Bind NAME=VALUE for $fixed expressions (repeatable)")
	f.IntVar(&generateMaxDepth, "max-depth", 0, "Depth from which optional properties are omitted")
	f.IntVar(&generateRecursionLimit, "recursion-limit", 0, "Maximum $ref recursion depth")
	f.IntVar(&generateMaxUniqueRetries, "max-unique-retries", 0, "Retries spent satisfying uniqueItems")
	f.IntVar(&generateItemLimit, "item-limit", 0, "Maximum items per generated array (0 for no cap)")
	f.Float64Var(&generateNullProbability, "null-probability", 0, "Chance that a nullable value is null")

	rootCmd.AddCommand(generateCmd)
}

// applyGenerateFlags layers explicitly set flags over the loaded config.
func applyGenerateFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("count") {
		c.Count = generateCount
		c.Set("count", config.SourceFlag)
	}
	if flags.Changed("seed") {
		seed := generateSeed
		c.Seed = &seed
		c.Set("seed", config.SourceFlag)
	}
	if flags.Changed("format") {
		c.Output.Format = generateFormat
		c.Set("output.format", config.SourceFlag)
	}
	if flags.Changed("indent") {
		c.Output.Indent = generateIndent
		c.Set("output.indent", config.SourceFlag)
	}
	for name, iv := range map[string]struct {
		key string
		src int
		dst *int
	}{
		"max-depth":          {"maxDepth", generateMaxDepth, &c.MaxDepth},
		"recursion-limit":    {"recursionLimit", generateRecursionLimit, &c.RecursionLimit},
		"max-unique-retries": {"maxUniqueRetries", generateMaxUniqueRetries, &c.MaxUniqueRetries},
		"item-limit":         {"itemLimit", generateItemLimit, &c.ItemLimit},
	} {
		if flags.Changed(name) {
			*iv.dst = iv.src
			c.Set(iv.key, config.SourceFlag)
		}
	}
	if flags.Changed("null-probability") {
		c.NullProbability = generateNullProbability
		c.Set("nullProbability", config.SourceFlag)
	}

	for _, kv := range generateSet {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return fmt.Errorf("--set %q: want NAME=VALUE", kv)
		}
		if c.Namespace == nil {
			c.Namespace = make(map[string]any)
		}
		c.Namespace[name] = parseScalar(raw)
	}
	return c.Validate()
}

// parseScalar reads a --set value the way YAML would, so 20 is an int and
// true is a bool. Anything else stays a string.
func parseScalar(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	switch v.(type) {
	case int, float64, bool, string:
		return v
	default:
		return raw
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := applyGenerateFlags(cmd, cfg); err != nil {
		return err
	}

	sources, err := generateSource.load(cmd, args)
	if err != nil {
		return err
	}

	var docs []any
	for _, src := range sources {
		log := logger.With("schema", src.Name)
		g, err := generator.New(src.Decl, generator.WithConfig(cfg), generator.WithLogger(log))
		if err != nil {
			return fmt.Errorf("%s: %w", src.Name, err)
		}

		for i := range cfg.Count {
			var v any
			if generateValidate {
				v, err = g.GenerateAndValidate()
			} else {
				v, err = g.Generate()
			}
			if err != nil {
				return fmt.Errorf("%s: document %d: %w", src.Name, i, err)
			}
			docs = append(docs, v)
		}
		log.Info("generated documents", "count", cfg.Count)
	}

	var w io.Writer = cmd.OutOrStdout()
	if generateOutput != "" {
		f, err := os.Create(generateOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	return output.Write(w, docs, cfg.Output.Format, cfg.Output.Indent)
}
