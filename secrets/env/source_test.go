package env

import (
	"context"
	"testing"

	"github.com/GlintPay/grip/config"
	"github.com/GlintPay/grip/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	environ := func() []string {
		return []string{
			"PATH=/usr/bin",
			"ANTHROPIC_API_KEY=sk-ant",
			"GRIP_ANTHROPIC_API_KEY=sk-prefixed",
			"GRIP_IMAGE=ghcr.io/x/grip:1",
			"GRIP_=ignored",
			"WITH_EQUALS=a=b",
			"=bogus",
		}
	}

	tests := []struct {
		name     string
		config   config.EnvSourceConfig
		expected secrets.Values
	}{
		{
			name:   "everything",
			config: config.EnvSourceConfig{},
			expected: secrets.Values{
				"PATH":                   "/usr/bin",
				"ANTHROPIC_API_KEY":      "sk-ant",
				"GRIP_ANTHROPIC_API_KEY": "sk-prefixed",
				"GRIP_IMAGE":             "ghcr.io/x/grip:1",
				"GRIP_":                  "ignored",
				"WITH_EQUALS":            "a=b",
			},
		},
		{
			name:   "prefix stripped",
			config: config.EnvSourceConfig{Prefix: "GRIP_"},
			expected: secrets.Values{
				"ANTHROPIC_API_KEY": "sk-prefixed",
				"IMAGE":             "ghcr.io/x/grip:1",
			},
		},
		{
			name:   "allow-list",
			config: config.EnvSourceConfig{Names: []string{"ANTHROPIC_API_KEY", "NOT_THERE"}},
			expected: secrets.Values{
				"ANTHROPIC_API_KEY": "sk-ant",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Source{Config: tt.config, Environ: environ}
			snap, err := s.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, snap.Values)
			assert.Empty(t, snap.Version)
		})
	}
}
