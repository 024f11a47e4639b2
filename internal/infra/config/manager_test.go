package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/todo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Info(t *testing.T) {
	t.Run("file does not exist", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "todo", domain.ConfigFileName)

		info := NewManager(path).Info()

		assert.Equal(t, path, info.Path)
		assert.False(t, info.Exists)
	})

	t.Run("file exists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), domain.ConfigFileName)
		require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

		info := NewManager(path).Info()

		assert.True(t, info.Exists)
	})
}

func TestManager_Init(t *testing.T) {
	t.Run("creates directory and file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "todo", domain.ConfigFileName)
		manager := NewManager(path)

		err := manager.Init(domain.NewDefaultConfig(), false)

		require.NoError(t, err)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `base_url = "http://localhost:3000"`)
		assert.True(t, manager.Info().Exists)
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), domain.ConfigFileName)
		require.NoError(t, os.WriteFile(path, []byte("# mine"), 0o644))

		err := NewManager(path).Init(domain.NewDefaultConfig(), false)

		assert.ErrorIs(t, err, domain.ErrConfigExists)
		content, _ := os.ReadFile(path)
		assert.Equal(t, "# mine", string(content))
	})

	t.Run("force overwrites", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), domain.ConfigFileName)
		require.NoError(t, os.WriteFile(path, []byte("# mine"), 0o644))

		err := NewManager(path).Init(domain.NewDefaultConfig(), true)

		require.NoError(t, err)
		content, _ := os.ReadFile(path)
		assert.Contains(t, string(content), "[api]")
	})
}

func TestRender(t *testing.T) {
	cfg := domain.NewDefaultConfig()
	cfg.API.Token = "secret"
	cfg.API.Timeout = 1500 * time.Millisecond

	out, err := Render(cfg)
	require.NoError(t, err)

	assert.NotContains(t, out, "secret")

	var parsed map[string]map[string]any
	require.NoError(t, toml.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "1.5s", parsed["api"]["timeout"])
	assert.Equal(t, "********", parsed["api"]["token"])
	assert.Equal(t, int64(domain.DefaultLimit), parsed["view"]["limit"])
	assert.Equal(t, domain.DriverSQLite, parsed["server"]["driver"])
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"5s", 5 * time.Second, false},
		{"250ms", 250 * time.Millisecond, false},
		{"7", 7 * time.Second, false},
		{"0", 0, true},
		{"0s", 0, true},
		{"", 0, true},
		{"fast", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
