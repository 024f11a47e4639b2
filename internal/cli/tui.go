package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/todo/internal/app"
	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/tui"
)

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// launchTUI runs the interactive list starting at view.
func launchTUI(c *app.Container, view domain.ViewState) error {
	model := tui.New(tui.Deps{
		Controller:     c.TaskListController(view),
		ShowTask:       c.ShowTaskUseCase(),
		NewTask:        c.NewTaskUseCase(),
		EditTask:       c.EditTaskUseCase(),
		ToggleDarkMode: c.ToggleDarkModeUseCase(),
		Clock:          c.Clock,
		Logger:         c.Logger.With("component", "tui"),
	}, c.Preferences)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
