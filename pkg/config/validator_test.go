package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Default(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero count", func(c *Config) { c.Count = 0 }, "count"},
		{"negative depth", func(c *Config) { c.MaxDepth = -1 }, "maxDepth"},
		{"negative retries", func(c *Config) { c.MaxUniqueRetries = -2 }, "maxUniqueRetries"},
		{"negative item limit", func(c *Config) { c.ItemLimit = -1 }, "itemLimit"},
		{"probability above one", func(c *Config) { c.NullProbability = 1.5 }, "nullProbability"},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"unknown output format", func(c *Config) { c.Output.Format = "csv" }, "output.format"},
		{"negative indent", func(c *Config) { c.Output.Indent = -1 }, "output.indent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Contains(t, err.Error(), "validation error on "+tt.field)
		})
	}
}

func TestValidate_LevelCaseInsensitive(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "DEBUG"
	cfg.Log.Format = "JSON"
	assert.NoError(t, cfg.Validate())
}
