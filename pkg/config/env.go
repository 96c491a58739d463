package config

import (
	"fmt"
	"strconv"
)

// Environment variables read by ApplyEnv.
const (
	EnvSeed             = "JSONGEN_SEED"
	EnvCount            = "JSONGEN_COUNT"
	EnvMaxDepth         = "JSONGEN_MAX_DEPTH"
	EnvRecursionLimit   = "JSONGEN_RECURSION_LIMIT"
	EnvMaxUniqueRetries = "JSONGEN_MAX_UNIQUE_RETRIES"
	EnvItemLimit        = "JSONGEN_ITEM_LIMIT"
	EnvNullProbability  = "JSONGEN_NULL_PROBABILITY"
	EnvLogLevel         = "JSONGEN_LOG_LEVEL"
	EnvLogFormat        = "JSONGEN_LOG_FORMAT"
	EnvLogFile          = "JSONGEN_LOG_FILE"
	EnvOutputFormat     = "JSONGEN_OUTPUT_FORMAT"
)

// ApplyEnv overrides values from environment variables. lookup is usually
// os.LookupEnv. Empty variables are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(name)
		return v, ok && v != ""
	}

	if v, ok := get(EnvSeed); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return envError(EnvSeed, v, err)
		}
		c.Seed = &seed
		c.Set("seed", SourceEnv)
	}

	for _, iv := range []struct {
		name string
		key  string
		dst  *int
	}{
		{EnvCount, "count", &c.Count},
		{EnvMaxDepth, "maxDepth", &c.MaxDepth},
		{EnvRecursionLimit, "recursionLimit", &c.RecursionLimit},
		{EnvMaxUniqueRetries, "maxUniqueRetries", &c.MaxUniqueRetries},
		{EnvItemLimit, "itemLimit", &c.ItemLimit},
	} {
		v, ok := get(iv.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError(iv.name, v, err)
		}
		*iv.dst = n
		c.Set(iv.key, SourceEnv)
	}

	if v, ok := get(EnvNullProbability); ok {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError(EnvNullProbability, v, err)
		}
		c.NullProbability = p
		c.Set("nullProbability", SourceEnv)
	}

	for _, sv := range []struct {
		name string
		key  string
		dst  *string
	}{
		{EnvLogLevel, "log.level", &c.Log.Level},
		{EnvLogFormat, "log.format", &c.Log.Format},
		{EnvLogFile, "log.file", &c.Log.File},
		{EnvOutputFormat, "output.format", &c.Output.Format},
	} {
		if v, ok := get(sv.name); ok {
			*sv.dst = v
			c.Set(sv.key, SourceEnv)
		}
	}
	return nil
}

func envError(name, value string, err error) error {
	return &ValidationError{Field: name, Message: fmt.Sprintf("invalid value %q: %v", value, err)}
}
