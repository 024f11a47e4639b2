// Package cli provides the command-line interface for todo.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/todo/internal/app"
	"github.com/runoshun/todo/internal/domain"
)

// Command group IDs.
const (
	groupTask  = "task"
	groupSetup = "setup"
)

// ContainerFactory builds the container once the global flags are parsed.
type ContainerFactory func(ctx context.Context, opts app.Options) (*app.Container, error)

// provider returns the container built for the running command.
type provider func() *app.Container

// NewRootCommand creates the root command for todo.
// The container is built by factory in PersistentPreRunE, so --config,
// --api-url and --log-level apply to every subcommand.
func NewRootCommand(factory ContainerFactory, version string) *cobra.Command {
	var (
		opts      app.Options
		container *app.Container
		viewQuery string
	)
	get := func() *app.Container { return container }

	root := &cobra.Command{
		Use:   "todo",
		Short: "Terminal to-do list manager",
		Long: `todo manages a to-do list kept by a REST task backend.

Run without arguments to open the interactive list. The list view can be
restored from a query string printed in its status line:

  todo --view "page=2&limit=10&status=1"`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if container != nil {
				return nil
			}
			if factory == nil {
				return errors.New("no container factory")
			}
			opts.Stderr = cmd.ErrOrStderr()
			c, err := factory(cmd.Context(), opts)
			if err != nil {
				return err
			}
			container = c
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if container == nil {
				return nil
			}
			return container.Close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := domain.ViewState{Page: 1}
			if viewQuery != "" {
				parsed, err := domain.ParseViewState(viewQuery)
				if err != nil {
					return fmt.Errorf("--view: %w", err)
				}
				view = parsed
			}
			c := get()
			// The screen belongs to the TUI; logs go to the file only.
			c.SetConsoleLogging(false)
			return launchTUIFunc(c, view)
		},
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Config file (default <config dir>/todo/config.toml)")
	root.PersistentFlags().StringVar(&opts.APIURL, "api-url", "", "REST backend base URL (overrides api.base_url)")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.Flags().StringVar(&viewQuery, "view", "", "Initial list view as a query string (page, limit, status, overdue, search)")

	root.AddGroup(
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	taskCmds := []*cobra.Command{
		newListCommand(get),
		newShowCommand(get),
		newNewCommand(get),
		newEditCommand(get),
		newRmCommand(get),
		newCountCommand(get),
		newImportCommand(get),
		newExportCommand(get),
	}
	for _, cmd := range taskCmds {
		cmd.GroupID = groupTask
	}

	setupCmds := []*cobra.Command{
		newThemeCommand(get),
		newConfigCommand(get),
		newServeCommand(get),
	}
	for _, cmd := range setupCmds {
		cmd.GroupID = groupSetup
	}

	root.AddCommand(taskCmds...)
	root.AddCommand(setupCmds...)
	return root
}
