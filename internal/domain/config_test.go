package domain

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultAPITimeout, cfg.API.Timeout)
	assert.Equal(t, DefaultLimit, cfg.View.Limit)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DriverSQLite, cfg.Server.Driver)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero limit", func(c *Config) { c.View.Limit = 0 }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"unknown driver", func(c *Config) { c.Server.Driver = "postgres" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRenderConfigTemplate(t *testing.T) {
	cfg := NewDefaultConfig()

	out := RenderConfigTemplate(cfg)

	assert.Contains(t, out, `base_url = "http://localhost:3000"`)
	assert.Contains(t, out, `timeout = "5s"`)
	assert.Contains(t, out, "limit = 5")

	// The rendered template must be valid TOML.
	var parsed map[string]any
	require.NoError(t, toml.Unmarshal([]byte(out), &parsed))
	api, ok := parsed["api"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "find", api["find_path"])
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/home/u/.config/todo/config.toml", ConfigPath("/home/u/.config"))
	assert.Equal(t, "/home/u/.config/todo/state.toml", PreferencePath("/home/u/.config"))
	assert.Equal(t, "/s/todo/todo.log", LogPath("/s"))
	assert.Equal(t, "/d/todo/tasks.db", DatabasePath("/d"))
}
