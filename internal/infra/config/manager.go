package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/todo/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages the config file.
type Manager struct {
	path string
}

// NewManager creates a Manager for the config file at path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Info returns the config file location and whether it exists.
func (m *Manager) Info() domain.ConfigInfo {
	_, err := os.Stat(m.path)
	return domain.ConfigInfo{Path: m.path, Exists: err == nil}
}

// Init writes the commented default config. An existing file is only
// replaced when force is set.
func (m *Manager) Init(cfg *domain.Config, force bool) error {
	if !force {
		if _, err := os.Stat(m.path); err == nil {
			return domain.ErrConfigExists
		}
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(m.path, []byte(domain.RenderConfigTemplate(cfg)), 0o600)
}

// parseDuration accepts Go durations ("5s") and bare seconds ("5").
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("must be positive, got %q", s)
		}
		return d, nil
	}
	secs, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if secs <= 0 {
		return 0, fmt.Errorf("must be positive, got %q", s)
	}
	return time.Duration(secs) * time.Second, nil
}

// renderedConfig is the effective configuration as printed by `config show`.
type renderedConfig struct {
	API struct {
		BaseURL  string `toml:"base_url"`
		Token    string `toml:"token,omitempty"`
		Timeout  string `toml:"timeout"`
		FindPath string `toml:"find_path"`
	} `toml:"api"`
	View   domain.ViewConfig   `toml:"view"`
	Log    domain.LogConfig    `toml:"log"`
	Server domain.ServerConfig `toml:"server"`
}

// Render formats cfg as TOML. The API token is masked.
func Render(cfg *domain.Config) (string, error) {
	var r renderedConfig
	r.API.BaseURL = cfg.API.BaseURL
	if cfg.API.Token != "" {
		r.API.Token = "********"
	}
	r.API.Timeout = cfg.API.Timeout.String()
	r.API.FindPath = cfg.API.FindPath
	r.View = cfg.View
	r.Log = cfg.Log
	r.Server = cfg.Server

	out, err := toml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("render config: %w", err)
	}
	return string(out), nil
}
