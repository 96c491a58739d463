package config

import "github.com/getmockd/jsongen/pkg/schema"

// Config is the complete jsongen configuration. Values come from, in
// increasing precedence: defaults, a config file, JSONGEN_* environment
// variables and command-line flags.
type Config struct {
	// Seed makes generation reproducible. Nil means a random seed per run.
	Seed *uint64 `yaml:"seed,omitempty" json:"seed,omitempty"`

	// Count is the number of documents generated per schema.
	Count int `yaml:"count" json:"count"`

	// MaxDepth is the nesting depth from which objects stop generating
	// optional properties.
	MaxDepth int `yaml:"maxDepth" json:"maxDepth"`

	// RecursionLimit caps how deeply $ref cycles are followed.
	RecursionLimit int `yaml:"recursionLimit" json:"recursionLimit"`

	// MaxUniqueRetries caps the extra generations spent satisfying uniqueItems.
	MaxUniqueRetries int `yaml:"maxUniqueRetries" json:"maxUniqueRetries"`

	// ItemLimit caps the items any array generates; 0 disables the cap.
	ItemLimit int `yaml:"itemLimit" json:"itemLimit"`

	// NullProbability is the chance that a nullable node yields null.
	NullProbability float64 `yaml:"nullProbability" json:"nullProbability"`

	// Namespace binds names usable in $fixed expressions.
	Namespace map[string]any `yaml:"namespace,omitempty" json:"namespace,omitempty"`

	Log    LogConfig    `yaml:"log" json:"log"`
	Output OutputConfig `yaml:"output" json:"output"`

	// Sources records where each overridden value came from.
	Sources map[string]string `yaml:"-" json:"-"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level" json:"level"`

	// Format is text or json.
	Format string `yaml:"format" json:"format"`

	// File receives a JSON copy of every log record when set.
	File string `yaml:"file,omitempty" json:"file,omitempty"`
}

// OutputConfig configures how generated documents are written.
type OutputConfig struct {
	// Format is json, jsonl or yaml.
	Format string `yaml:"format" json:"format"`

	// Indent is the JSON indent width; 0 writes compact JSON.
	Indent int `yaml:"indent" json:"indent"`
}

// Output formats.
const (
	OutputJSON  = "json"
	OutputJSONL = "jsonl"
	OutputYAML  = "yaml"
)

// Value sources.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Count:            1,
		MaxDepth:         schema.DefaultMaxDepth,
		RecursionLimit:   schema.DefaultRecursionLimit,
		MaxUniqueRetries: schema.DefaultMaxUniqueRetries,
		ItemLimit:        schema.DefaultItemLimit,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Output: OutputConfig{
			Format: OutputJSON,
			Indent: 2,
		},
		Sources: make(map[string]string),
	}
}

// Set records that key was set from source.
func (c *Config) Set(key, source string) {
	if c.Sources == nil {
		c.Sources = make(map[string]string)
	}
	c.Sources[key] = source
}

// Source reports where key's value came from.
func (c *Config) Source(key string) string {
	if s, ok := c.Sources[key]; ok {
		return s
	}
	return SourceDefault
}
