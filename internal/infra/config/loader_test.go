package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/runoshun/todo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, domain.AppDirName, domain.ConfigFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load_Defaults(t *testing.T) {
	// Setup: no config file in the config home
	dirs := Dirs{ConfigHome: t.TempDir()}

	// Execute
	cfg, err := NewLoader("", dirs).Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}

func TestLoader_Load_File(t *testing.T) {
	// Setup
	home := t.TempDir()
	writeConfig(t, home, `
[api]
base_url = "https://tasks.example.com"
token = "abc"
timeout = "10s"
find_path = "legacy"

[view]
limit = 20

[log]
level = "debug"

[server]
driver = "mysql"
dsn = "user:pw@tcp(db:3306)/todo"
hard_delete = true
`)

	// Execute
	cfg, err := NewLoader("", Dirs{ConfigHome: home}).Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://tasks.example.com", cfg.API.BaseURL)
	assert.Equal(t, "abc", cfg.API.Token)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, domain.LegacyFindPath, cfg.API.FindPath)
	assert.Equal(t, 20, cfg.View.Limit)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, domain.DriverMySQL, cfg.Server.Driver)
	assert.Equal(t, "user:pw@tcp(db:3306)/todo", cfg.Server.DSN)
	assert.True(t, cfg.Server.HardDelete)
	// Keys missing from the file keep their defaults
	assert.Equal(t, domain.DefaultServerAddr, cfg.Server.Addr)
}

func TestLoader_Load_TimeoutSeconds(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "[api]\ntimeout = 3\n")

	cfg, err := NewLoader("", Dirs{ConfigHome: home}).Load()

	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
}

func TestLoader_Load_EnvOverrides(t *testing.T) {
	// Setup
	home := t.TempDir()
	writeConfig(t, home, "[api]\nbase_url = \"http://from-file\"\n")
	t.Setenv("TODO_API_BASE_URL", "http://from-env:8080")
	t.Setenv("TODO_VIEW_LIMIT", "10")
	t.Setenv("TODO_LOG_LEVEL", "warn")

	// Execute
	cfg, err := NewLoader("", Dirs{ConfigHome: home}).Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8080", cfg.API.BaseURL)
	assert.Equal(t, 10, cfg.View.Limit)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoader_Load_ExplicitPath(t *testing.T) {
	t.Run("reads the given file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.toml")
		require.NoError(t, os.WriteFile(path, []byte("[view]\nlimit = 10\n"), 0o644))

		loader := NewLoader(path, Dirs{})
		cfg, err := loader.Load()

		require.NoError(t, err)
		assert.Equal(t, path, loader.Path())
		assert.Equal(t, 10, cfg.View.Limit)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.toml")

		_, err := NewLoader(path, Dirs{}).Load()

		assert.ErrorContains(t, err, "read config")
	})
}

func TestLoader_Load_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax error", "[api\n", "read config"},
		{"limit out of range", "[view]\nlimit = 0\n", "view.limit"},
		{"bad timeout", "[api]\ntimeout = \"soon\"\n", "api.timeout"},
		{"negative timeout", "[api]\ntimeout = \"-1s\"\n", "api.timeout"},
		{"unknown driver", "[server]\ndriver = \"postgres\"\n", "server.driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			writeConfig(t, home, tt.content)

			_, err := NewLoader("", Dirs{ConfigHome: home}).Load()

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoader_Load_RenderedTemplate(t *testing.T) {
	// The file written by `config init` loads back to the same values
	home := t.TempDir()
	want := domain.NewDefaultConfig()
	writeConfig(t, home, domain.RenderConfigTemplate(want))

	cfg, err := NewLoader("", Dirs{ConfigHome: home}).Load()

	require.NoError(t, err)
	assert.Equal(t, want, cfg)
}

func TestDefaultDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/x/config")
	t.Setenv("XDG_STATE_HOME", "/x/state")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "/home/me")

	dirs := DefaultDirs()

	assert.Equal(t, "/x/config", dirs.ConfigHome)
	assert.Equal(t, "/x/state", dirs.StateHome)
	assert.Equal(t, filepath.Join("/home/me", ".local", "share"), dirs.DataHome)
}
