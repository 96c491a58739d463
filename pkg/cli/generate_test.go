package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScalar(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"20", 20},
		{"2.5", 2.5},
		{"true", true},
		{"users", "users"},
		{"", ""},
		{"[1, 2]", "[1, 2]"},
		{"a: b", "a: b"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseScalar(tt.raw))
		})
	}
}
