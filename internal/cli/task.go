package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/usecase"
)

// Output formats of list and show.
const (
	outputTable = "table"
	outputText  = "text"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// newNewCommand creates the new command for creating tasks.
func newNewCommand(get provider) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Due         string
		Status      string
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new task",
		Long: `Create a new task on the backend.

Examples:
  # Create a task
  todo new --title "Buy milk"

  # With a due date and description
  todo new -t "File taxes" --due 2026-04-15 -d "Bring the receipts"

  # Start it as in progress
  todo new -t "Write report" --status in_progress`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := get()
			input := usecase.NewTaskInput{
				Title:       opts.Title,
				Description: opts.Description,
				DueDate:     opts.Due,
			}
			if opts.Status != "" {
				st, err := domain.ParseStatus(opts.Status)
				if err != nil {
					return err
				}
				input.Status = st
			}

			out, err := c.NewTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s\n", out.Task.ID, out.Task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "Task title (required)")
	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Task description")
	cmd.Flags().StringVar(&opts.Due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Initial status (default pending)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// newListCommand creates the list command.
func newListCommand(get provider) *cobra.Command {
	var flags viewFlags
	var output string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `Display one page of tasks.

Tasks are ordered by creation time. A search replaces the status and
overdue filters and is paged locally.

Examples:
  # First page
  todo list

  # Second page of in-progress tasks, ten per page
  todo list --status in_progress --page 2 --limit 10

  # Same view as a query string
  todo list --view "page=2&limit=10&status=1"

  # Search titles
  todo list -q milk

  # Machine-readable
  todo list -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := get()
			view, err := flags.build(cmd, c.AppConfig.View.Limit)
			if err != nil {
				return err
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{View: view})
			if err != nil {
				return err
			}

			tasks := out.Tasks
			if tasks == nil {
				tasks = []domain.Task{}
			}

			w := cmd.OutOrStdout()
			switch output {
			case outputJSON:
				return writeJSON(w, tasks)
			case outputYAML:
				return writeYAML(w, tasks)
			case outputTable, "":
			default:
				return fmt.Errorf("unknown output %q (want table, json or yaml)", output)
			}

			total := out.Total
			if !out.Searched {
				counted, err := c.CountTasksUseCase().Execute(cmd.Context(), usecase.CountTasksInput{
					Status:  view.Status,
					Overdue: view.Overdue,
				})
				if err != nil {
					return err
				}
				total = counted.Count
			}

			printTaskTable(w, tasks, c.Clock.Now())
			_, _ = fmt.Fprintf(w, "Page %d of %d (%d tasks)\n", view.Page, domain.TotalPages(total, view.Limit), total)
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json or yaml")

	return cmd
}

// printTaskTable prints tasks as a table. Overdue due dates are marked.
func printTaskTable(w io.Writer, tasks []domain.Task, now time.Time) {
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(w, "No tasks found")
		return
	}

	overdue := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "STATUS", "DUE", "TITLE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cell.Bold(true)
			}
			if col == 2 && row >= 0 && row < len(tasks) && tasks[row].IsOverdue(now) {
				return cell.Inherit(overdue)
			}
			return cell
		})

	for i := range tasks {
		task := &tasks[i]
		due := "-"
		if task.DueDate != nil {
			due = task.DueDate.Format(domain.DueDateLayout)
			if task.IsOverdue(now) {
				due += " !"
			}
		}
		t.Row(task.ID, task.Status.Display(), due, task.Title)
	}

	_, _ = fmt.Fprintln(w, t.Render())
}

// newShowCommand creates the show command.
func newShowCommand(get provider) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display task details",
		Long: `Display one task.

Examples:
  todo show 3f1c
  todo show 3f1c -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := get()
			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch output {
			case outputJSON:
				return writeJSON(w, out.Task)
			case outputYAML:
				return writeYAML(w, out.Task)
			case outputText, "":
				printTaskDetails(w, out.Task, c.Clock.Now())
				return nil
			default:
				return fmt.Errorf("unknown output %q (want text, json or yaml)", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, json or yaml")

	return cmd
}

// printTaskDetails prints a task for humans.
func printTaskDetails(w io.Writer, task *domain.Task, now time.Time) {
	_, _ = fmt.Fprintf(w, "%s: %s\n\n", task.ID, task.Title)

	_, _ = fmt.Fprintf(w, "Status:  %s\n", task.Status.Display())
	due := task.DueLabel()
	if task.IsOverdue(now) {
		due += " (overdue)"
	}
	_, _ = fmt.Fprintf(w, "Due:     %s\n", due)
	_, _ = fmt.Fprintf(w, "Created: %s\n", task.CreatedAt.Format(time.RFC3339))
	if task.UpdatedAt != nil {
		_, _ = fmt.Fprintf(w, "Updated: %s\n", task.UpdatedAt.Format(time.RFC3339))
	}

	if desc := strings.TrimSpace(task.Description); desc != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", desc)
	}
}

// newEditCommand creates the edit command.
func newEditCommand(get provider) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Due         string
		Status      string
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Edit a task's title, description, due date or status.

Without flags the task opens in $EDITOR as Markdown with a frontmatter
header (title, status, due); the body is the description.

Examples:
  # Open in editor
  todo edit 3f1c

  # Mark as completed
  todo edit 3f1c --status completed

  # Clear the due date
  todo edit 3f1c --due ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := get()
			taskID := args[0]

			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("description") &&
				!flags.Changed("due") && !flags.Changed("status") {
				return editTaskWithEditor(cmd, get, taskID)
			}

			input := usecase.EditTaskInput{TaskID: taskID}
			if flags.Changed("title") {
				input.Title = &opts.Title
			}
			if flags.Changed("description") {
				input.Description = &opts.Description
			}
			if flags.Changed("due") {
				input.DueDate = &opts.Due
			}
			if flags.Changed("status") {
				st, err := domain.ParseStatus(opts.Status)
				if err != nil {
					return err
				}
				input.Status = &st
			}

			out, err := c.EditTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&opts.Due, "due", "", `New due date (YYYY-MM-DD, "" clears it)`)
	cmd.Flags().StringVar(&opts.Status, "status", "", "New status")

	return cmd
}

// editTaskWithEditor edits a task as Markdown in the user's editor.
func editTaskWithEditor(cmd *cobra.Command, get provider, taskID string) error {
	c := get()
	showOut, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: taskID})
	if err != nil {
		return err
	}
	task := showOut.Task

	markdown := task.ToMarkdown()
	edited, err := editInEditor(markdown)
	if err != nil {
		return err
	}
	if edited == markdown {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No changes made")
		return nil
	}

	updated := *task
	if err := updated.FromMarkdown(edited); err != nil {
		return err
	}
	due := ""
	if updated.DueDate != nil {
		due = updated.DueDate.Format(domain.DueDateLayout)
	}

	out, err := c.EditTaskUseCase().Execute(cmd.Context(), usecase.EditTaskInput{
		TaskID:      taskID,
		Title:       &updated.Title,
		Description: &updated.Description,
		Status:      &updated.Status,
		DueDate:     &due,
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", out.Task.ID)
	return nil
}

// newRmCommand creates the rm command for deleting tasks.
func newRmCommand(get provider) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Long: `Delete a task after confirmation.

Examples:
  # Asks "Delete task 3f1c? [y/N]"
  todo rm 3f1c

  # No prompt
  todo rm 3f1c --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := get()

			var flow domain.DeleteFlow
			if err := flow.Request(args[0]); err != nil {
				return err
			}
			defer flow.Settle()

			w := cmd.OutOrStdout()
			if !yes && !confirm(cmd.InOrStdin(), w, fmt.Sprintf("Delete task %s?", flow.Target())) {
				flow.Cancel()
				_, _ = fmt.Fprintln(w, "Cancelled")
				return nil
			}

			id, err := flow.Confirm()
			if err != nil {
				return err
			}
			if _, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: id}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(w, "Deleted task %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")

	return cmd
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	_, _ = fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		_, _ = fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// newCountCommand creates the count command.
func newCountCommand(get provider) *cobra.Command {
	var opts struct {
		Status  string
		Overdue bool
	}

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count tasks",
		Long: `Print the number of tasks matching the filters.

Examples:
  todo count
  todo count --status completed
  todo count --overdue`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.CountTasksInput{Overdue: opts.Overdue}
			if opts.Status != "" {
				st, err := domain.ParseStatus(opts.Status)
				if err != nil {
					return err
				}
				input.Status = st
			}

			out, err := get().CountTasksUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Count)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status")
	cmd.Flags().BoolVar(&opts.Overdue, "overdue", false, "Only tasks past their due date")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
