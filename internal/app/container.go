// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/infra/config"
	"github.com/runoshun/todo/internal/infra/export"
	"github.com/runoshun/todo/internal/infra/httpapi"
	"github.com/runoshun/todo/internal/infra/logging"
	"github.com/runoshun/todo/internal/infra/prefstore"
	"github.com/runoshun/todo/internal/infra/restapi"
	"github.com/runoshun/todo/internal/infra/sqlstore"
	"github.com/runoshun/todo/internal/tasklist"
	"github.com/runoshun/todo/internal/usecase"
)

// Options are the command-line overrides applied on top of the config file.
type Options struct {
	Stderr     io.Writer   // Console log sink (nil = none)
	Dirs       config.Dirs // XDG directories (zero = resolve from the environment)
	ConfigPath string      // Explicit config file (--config)
	APIURL     string      // Overrides api.base_url (--api-url)
	LogLevel   string      // Overrides log.level (--log-level)
}

// Paths holds the files the application reads and writes.
type Paths struct {
	ConfigFile     string
	PreferenceFile string
	LogFile        string
	Database       string // Default SQLite file for `serve`
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	API           domain.TaskAPI
	Prefs         domain.PreferenceStore
	ConfigManager domain.ConfigManager
	Exporter      domain.TaskExporter
	Clock         domain.Clock

	// Pointer fields
	Logger    *slog.Logger
	AppConfig *domain.Config
	logs      *logging.Logger

	// Preferences as loaded at startup
	Preferences domain.Preferences

	// Configuration
	Paths Paths
}

// New creates a Container from the config file, environment and opts.
func New(ctx context.Context, opts Options) (*Container, error) {
	dirs := opts.Dirs
	if dirs == (config.Dirs{}) {
		dirs = config.DefaultDirs()
	}

	loader := config.NewLoader(opts.ConfigPath, dirs)
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if opts.APIURL != "" {
		cfg.API.BaseURL = strings.TrimSpace(opts.APIURL)
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	paths := Paths{
		ConfigFile:     loader.Path(),
		PreferenceFile: domain.PreferencePath(dirs.ConfigHome),
		Database:       domain.DatabasePath(dirs.DataHome),
	}
	if dirs.StateHome != "" {
		paths.LogFile = domain.LogPath(dirs.StateHome)
	}

	logs := logging.New(logging.Options{
		Console: opts.Stderr,
		Path:    paths.LogFile,
		Level:   logging.ParseLevel(cfg.Log.Level),
	})
	logger := logs.Slog()

	api, err := restapi.New(ctx, restapi.Options{
		Logger:   logger,
		BaseURL:  cfg.API.BaseURL,
		Token:    cfg.API.Token,
		FindPath: cfg.API.FindPath,
		Timeout:  cfg.API.Timeout,
	})
	if err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("api client: %w", err)
	}

	prefs := prefstore.New(paths.PreferenceFile)
	loaded, err := prefs.Load()
	if err != nil {
		logger.Warn("load preferences failed, using defaults", "error", err)
	}

	clock := domain.RealClock{}
	return &Container{
		API:           api,
		Prefs:         prefs,
		ConfigManager: config.NewManager(paths.ConfigFile),
		Exporter:      export.New(clock),
		Clock:         clock,
		Logger:        logger,
		AppConfig:     cfg,
		logs:          logs,
		Preferences:   loaded,
		Paths:         paths,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg *domain.Config, api domain.TaskAPI, prefs domain.PreferenceStore, clock domain.Clock, logger *slog.Logger) *Container {
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Container{
		API:       api,
		Prefs:     prefs,
		Exporter:  export.New(clock),
		Clock:     clock,
		Logger:    logger,
		AppConfig: cfg,
	}
	if prefs != nil {
		if loaded, err := prefs.Load(); err == nil {
			c.Preferences = loaded
		}
	}
	return c
}

// Close releases the log file.
func (c *Container) Close() error {
	if c.logs == nil {
		return nil
	}
	return c.logs.Close()
}

// SetConsoleLogging toggles log output on stderr. The TUI turns it off.
func (c *Container) SetConsoleLogging(enabled bool) {
	if c.logs != nil {
		c.logs.SetConsoleEnabled(enabled)
	}
}

// UseCase factory methods

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.API)
}

// CountTasksUseCase returns a new CountTasks use case.
func (c *Container) CountTasksUseCase() *usecase.CountTasks {
	return usecase.NewCountTasks(c.API)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.API)
}

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.API, c.Clock, c.Logger)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.API, c.Logger)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.API, c.Logger)
}

// ToggleDarkModeUseCase returns a new ToggleDarkMode use case.
func (c *Container) ToggleDarkModeUseCase() *usecase.ToggleDarkMode {
	return usecase.NewToggleDarkMode(c.Prefs)
}

// ImportTasksUseCase returns a new ImportTasks use case.
func (c *Container) ImportTasksUseCase() *usecase.ImportTasks {
	return usecase.NewImportTasks(c.API, c.Clock, c.Logger)
}

// ExportTasksUseCase returns a new ExportTasks use case.
func (c *Container) ExportTasksUseCase() *usecase.ExportTasks {
	return usecase.NewExportTasks(c.API, c.Exporter)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.AppConfig)
}

// TaskListController returns a list controller showing view.
// A zero limit takes the configured default.
func (c *Container) TaskListController(view domain.ViewState) *tasklist.Controller {
	if view.Limit == 0 {
		view.Limit = c.AppConfig.View.Limit
	}
	return tasklist.New(tasklist.Deps{
		List:   c.ListTasksUseCase(),
		Count:  c.CountTasksUseCase(),
		Delete: c.DeleteTaskUseCase(),
		Logger: c.Logger.With("component", "tasklist"),
	}, view)
}

// OpenTaskStore opens the reference server's storage from [server].
func (c *Container) OpenTaskStore() (domain.TaskStore, error) {
	srv := c.AppConfig.Server
	return sqlstore.Open(srv.Driver, srv.DSN, c.Paths.Database)
}

// ServerHandler returns the HTTP handler of the reference server.
func (c *Container) ServerHandler(store domain.TaskStore) *httpapi.Handler {
	return httpapi.NewHandler(store, httpapi.Options{
		Clock:      c.Clock,
		Logger:     c.Logger.With("component", "server"),
		HardDelete: c.AppConfig.Server.HardDelete,
	})
}
