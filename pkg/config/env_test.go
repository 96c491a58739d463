package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(env map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(mapLookup(map[string]string{
		EnvSeed:             "7",
		EnvMaxDepth:         "5",
		EnvRecursionLimit:   "8",
		EnvMaxUniqueRetries: "3",
		EnvItemLimit:        "250",
		EnvNullProbability:  "0.25",
		EnvLogLevel:         "debug",
		EnvLogFormat:        "json",
		EnvLogFile:          "/tmp/jsongen.log",
		EnvOutputFormat:     "jsonl",
	}))
	require.NoError(t, err)

	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(7), *cfg.Seed)
	assert.Equal(t, 5, cfg.MaxDepth)
	assert.Equal(t, 8, cfg.RecursionLimit)
	assert.Equal(t, 3, cfg.MaxUniqueRetries)
	assert.Equal(t, 250, cfg.ItemLimit)
	assert.Equal(t, SourceEnv, cfg.Source("itemLimit"))
	assert.InDelta(t, 0.25, cfg.NullProbability, 1e-9)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json", File: "/tmp/jsongen.log"}, cfg.Log)
	assert.Equal(t, OutputJSONL, cfg.Output.Format)
	assert.Equal(t, SourceEnv, cfg.Source("log.file"))
	assert.Equal(t, SourceDefault, cfg.Source("count"))
}

func TestApplyEnv_EmptyIgnored(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(mapLookup(map[string]string{EnvMaxDepth: ""})))
	assert.Equal(t, Default().MaxDepth, cfg.MaxDepth)
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
	}{
		{"seed not a number", EnvSeed, "abc"},
		{"negative seed", EnvSeed, "-1"},
		{"depth not a number", EnvMaxDepth, "deep"},
		{"probability not a number", EnvNullProbability, "often"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Default().ApplyEnv(mapLookup(map[string]string{tt.env: tt.value}))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.env, verr.Field)
		})
	}
}
