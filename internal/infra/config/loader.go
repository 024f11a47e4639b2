// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/runoshun/todo/internal/domain"
)

// EnvPrefix prefixes environment overrides, e.g. TODO_API_BASE_URL.
const EnvPrefix = "TODO"

// Loader reads the TOML config file and applies environment overrides.
type Loader struct {
	path     string
	explicit bool
}

// NewLoader creates a Loader. An empty path selects the default config file,
// which may be absent; an explicit path must exist.
func NewLoader(path string, dirs Dirs) *Loader {
	if path != "" {
		return &Loader{path: path, explicit: true}
	}
	return &Loader{path: domain.ConfigPath(dirs.ConfigHome)}
}

// Path returns the config file path the loader reads.
func (l *Loader) Path() string {
	return l.path
}

// Load returns the configuration: defaults <- file <- environment.
func (l *Loader) Load() (*domain.Config, error) {
	def := domain.NewDefaultConfig()

	v := viper.New()
	if l.explicit {
		v.SetConfigFile(l.path)
	} else {
		v.SetConfigName(strings.TrimSuffix(domain.ConfigFileName, filepath.Ext(domain.ConfigFileName)))
		v.AddConfigPath(filepath.Dir(l.path))
	}
	v.SetConfigType("toml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default for AutomaticEnv to see it.
	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("api.token", def.API.Token)
	v.SetDefault("api.timeout", def.API.Timeout.String())
	v.SetDefault("api.find_path", def.API.FindPath)
	v.SetDefault("view.limit", def.View.Limit)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.driver", def.Server.Driver)
	v.SetDefault("server.dsn", def.Server.DSN)
	v.SetDefault("server.hard_delete", def.Server.HardDelete)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", l.path, err)
		}
	}

	timeout, err := parseDuration(v.GetString("api.timeout"))
	if err != nil {
		return nil, fmt.Errorf("api.timeout: %w", err)
	}

	cfg := &domain.Config{
		API: domain.APIConfig{
			BaseURL:  strings.TrimSpace(v.GetString("api.base_url")),
			Token:    v.GetString("api.token"),
			Timeout:  timeout,
			FindPath: v.GetString("api.find_path"),
		},
		View: domain.ViewConfig{Limit: v.GetInt("view.limit")},
		Log:  domain.LogConfig{Level: v.GetString("log.level")},
		Server: domain.ServerConfig{
			Addr:       v.GetString("server.addr"),
			Driver:     strings.ToLower(v.GetString("server.driver")),
			DSN:        v.GetString("server.dsn"),
			HardDelete: v.GetBool("server.hard_delete"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
