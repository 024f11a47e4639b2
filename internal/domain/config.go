package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	API    APIConfig    `toml:"api"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
	View   ViewConfig   `toml:"view"`
}

// APIConfig holds settings for the REST backend from [api] section.
type APIConfig struct {
	BaseURL  string        `toml:"base_url"`
	Token    string        `toml:"token,omitempty"`
	FindPath string        `toml:"find_path"` // "find" (default) or "legacy"
	Timeout  time.Duration `toml:"-"`
}

// LegacyFindPath selects GET /tasks/:id instead of /tasks/find/:id.
const LegacyFindPath = "legacy"

// ViewConfig holds list view settings from [view] section.
type ViewConfig struct {
	Limit int `toml:"limit"`
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// ServerConfig holds settings for `todo serve` from [server] section.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	Driver     string `toml:"driver"` // sqlite or mysql
	DSN        string `toml:"dsn,omitempty"`
	HardDelete bool   `toml:"hard_delete"`
}

// Storage drivers for the reference server.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:3000"
	DefaultAPITimeout = 5 * time.Second
	DefaultLogLevel   = "info"
	DefaultServerAddr = "127.0.0.1:3000"
)

// File and directory names.
const (
	AppDirName         = "todo"
	ConfigFileName     = "config.toml"
	PreferenceFileName = "state.toml"
	LogFileName        = "todo.log"
	DatabaseFileName   = "tasks.db"
)

// ConfigDir returns the application config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func ConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// ConfigPath returns the default config file path.
func ConfigPath(configHome string) string {
	return filepath.Join(ConfigDir(configHome), ConfigFileName)
}

// PreferencePath returns the path of the persisted client state.
func PreferencePath(configHome string) string {
	return filepath.Join(ConfigDir(configHome), PreferenceFileName)
}

// LogPath returns the log file path under the state directory.
func LogPath(stateHome string) string {
	return filepath.Join(stateHome, AppDirName, LogFileName)
}

// DatabasePath returns the default SQLite file of the reference server.
func DatabasePath(dataHome string) string {
	return filepath.Join(dataHome, AppDirName, DatabaseFileName)
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:  DefaultBaseURL,
			Timeout:  DefaultAPITimeout,
			FindPath: "find",
		},
		View:   ViewConfig{Limit: DefaultLimit},
		Log:    LogConfig{Level: DefaultLogLevel},
		Server: ServerConfig{Addr: DefaultServerAddr, Driver: DriverSQLite},
	}
}

// Validate checks values that cannot be defaulted silently.
func (c *Config) Validate() error {
	if err := ValidateLimit(c.View.Limit); err != nil {
		return fmt.Errorf("view.limit: %w", err)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	switch c.Server.Driver {
	case DriverSQLite, DriverMySQL:
	default:
		return fmt.Errorf("server.driver: unsupported driver %q", c.Server.Driver)
	}
	return nil
}

// RenderConfigTemplate renders the commented config file written by `config init`.
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}
	return buf.String()
}
