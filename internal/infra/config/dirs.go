package config

import (
	"os"
	"path/filepath"
)

// Dirs are the XDG base directories the application writes under.
type Dirs struct {
	ConfigHome string
	StateHome  string
	DataHome   string
}

// DefaultDirs resolves the XDG base directories, falling back to the
// usual locations under the home directory.
func DefaultDirs() Dirs {
	home, _ := os.UserHomeDir()
	return Dirs{
		ConfigHome: xdgDir("XDG_CONFIG_HOME", home, ".config"),
		StateHome:  xdgDir("XDG_STATE_HOME", home, ".local", "state"),
		DataHome:   xdgDir("XDG_DATA_HOME", home, ".local", "share"),
	}
}

func xdgDir(env, home string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	if home == "" {
		return ""
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}
