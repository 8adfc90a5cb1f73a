package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	valid := Config{
		SpellPaths: []string{"spells"},
		Ticks:      10,
		Tick:       time.Millisecond,
	}

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "status port", mutate: func(c *Config) { c.StatusPort = 8080 }},
		{name: "no paths", mutate: func(c *Config) { c.SpellPaths = nil }, wantErr: "SpellPaths"},
		{name: "zero ticks", mutate: func(c *Config) { c.Ticks = 0 }, wantErr: "Ticks must be positive"},
		{name: "zero tick", mutate: func(c *Config) { c.Tick = 0 }, wantErr: "Tick must be positive"},
		{name: "negative pool", mutate: func(c *Config) { c.PoolSize = -1 }, wantErr: "PoolSize"},
		{name: "port too large", mutate: func(c *Config) { c.StatusPort = 70000 }, wantErr: "StatusPort"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			cfg := valid
			tc.mutate(&cfg)

			// --- Act ---
			got, err := NewConfig(cfg)

			// --- Assert ---
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, cfg, *got)
		})
	}
}
