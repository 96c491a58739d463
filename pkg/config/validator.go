package config

import (
	"fmt"
	"strings"
)

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

var (
	validLogLevels     = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	validLogFormats    = map[string]bool{"text": true, "json": true}
	validOutputFormats = map[string]bool{OutputJSON: true, OutputJSONL: true, OutputYAML: true}
)

// Validate checks the configuration for values the generator cannot use.
func (c *Config) Validate() error {
	if c.Count < 1 {
		return &ValidationError{Field: "count", Message: "must be at least 1"}
	}
	for field, v := range map[string]int{
		"maxDepth":         c.MaxDepth,
		"recursionLimit":   c.RecursionLimit,
		"maxUniqueRetries": c.MaxUniqueRetries,
		"itemLimit":        c.ItemLimit,
	} {
		if v < 0 {
			return &ValidationError{Field: field, Message: fmt.Sprintf("must not be negative, got %d", v)}
		}
	}
	if c.NullProbability < 0 || c.NullProbability > 1 {
		return &ValidationError{
			Field:   "nullProbability",
			Message: fmt.Sprintf("must be between 0 and 1, got %v", c.NullProbability),
		}
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return &ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", c.Log.Level)}
	}
	if !validLogFormats[strings.ToLower(c.Log.Format)] {
		return &ValidationError{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}
	if !validOutputFormats[c.Output.Format] {
		return &ValidationError{
			Field:   "output.format",
			Message: fmt.Sprintf("unknown format %q (want json, jsonl or yaml)", c.Output.Format),
		}
	}
	if c.Output.Indent < 0 {
		return &ValidationError{Field: "output.indent", Message: "must not be negative"}
	}
	return nil
}
