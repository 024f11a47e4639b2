package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/todo/internal/usecase"
)

// newThemeCommand creates the theme command.
func newThemeCommand(get provider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme [toggle]",
		Short: "Show or toggle dark mode",
		Long: `Show the persisted theme, or flip it with "toggle".

The TUI reads the same setting at startup; "d" toggles it there.

Examples:
  todo theme
  todo theme toggle`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c := get()
			w := cmd.OutOrStdout()

			if len(args) == 0 {
				_, _ = fmt.Fprintln(w, themeName(c.Preferences.DarkMode))
				return nil
			}

			out, err := c.ToggleDarkModeUseCase().Execute(cmd.Context(), usecase.ToggleDarkModeInput{
				Current: c.Preferences.DarkMode,
			})
			if out != nil {
				c.Preferences.DarkMode = out.DarkMode
			}
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(w, "Theme: %s\n", themeName(out.DarkMode))
			return nil
		},
	}

	return cmd
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
