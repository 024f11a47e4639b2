package prefstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/todo/internal/domain"
)

func TestStore_LoadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "todo", "state.toml"))

	prefs, err := s.Load()

	require.NoError(t, err)
	assert.False(t, prefs.DarkMode)
}

func TestStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo", "state.toml")
	s := New(path)

	require.NoError(t, s.Save(domain.Preferences{DarkMode: true}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "darkMode = true")

	// A fresh store sees the persisted value
	prefs, err := New(path).Load()
	require.NoError(t, err)
	assert.True(t, prefs.DarkMode)

	require.NoError(t, s.Save(domain.Preferences{DarkMode: false}))
	prefs, err = s.Load()
	require.NoError(t, err)
	assert.False(t, prefs.DarkMode)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	require.NoError(t, os.WriteFile(path, []byte("darkMode = [oops"), 0o600))

	_, err := New(path).Load()

	assert.ErrorContains(t, err, "parse preferences")
}

func TestStore_IgnoresUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	require.NoError(t, os.WriteFile(path, []byte("darkMode = true\nfontSize = 12\n"), 0o600))

	prefs, err := New(path).Load()

	require.NoError(t, err)
	assert.True(t, prefs.DarkMode)
}
