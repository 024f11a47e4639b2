package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/todo/internal/infra/export"
	"github.com/runoshun/todo/internal/usecase"
)

// newImportCommand creates the import command.
func newImportCommand(get provider) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create tasks from a YAML file",
		Long: `Create tasks in bulk from a YAML file ("-" reads stdin).

All entries are validated before anything is created.

File format:
  tasks:
    - title: Write report
      description: Quarterly numbers
      due: 2026-03-31
      status: in_progress
    - title: Book flights

Examples:
  todo import tasks.yaml
  todo import tasks.yaml --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var content []byte
			var err error
			if args[0] == "-" {
				content, err = io.ReadAll(cmd.InOrStdin())
			} else {
				content, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			out, err := get().ImportTasksUseCase().Execute(cmd.Context(), usecase.ImportTasksInput{
				Content: content,
				DryRun:  dryRun,
			})

			w := cmd.OutOrStdout()
			if out != nil {
				if dryRun {
					_, _ = fmt.Fprintln(w, "Dry run - tasks that would be created:")
				}
				for i, task := range out.Tasks {
					if dryRun {
						_, _ = fmt.Fprintf(w, "  %d. %s [%s] due %s\n", i+1, task.Title, task.Status.Display(), task.DueLabel())
					} else {
						_, _ = fmt.Fprintf(w, "Created task %s: %s\n", task.ID, task.Title)
					}
				}
				if !dryRun {
					_, _ = fmt.Fprintf(w, "Created %d task(s)\n", len(out.Tasks))
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and show the tasks without creating them")

	return cmd
}

// newExportCommand creates the export command.
func newExportCommand(get provider) *cobra.Command {
	var flags viewFlags
	var opts struct {
		Format string
		Output string
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks to JSON, YAML, CSV or PDF",
		Long: `Write every task matching the filters to a document.

All pages are exported. The format defaults to the output file's extension,
or JSON on stdout.

Examples:
  todo export -o tasks.csv
  todo export --status completed --format yaml
  todo export --overdue -o overdue.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := get()
			view, err := flags.build(cmd, c.AppConfig.View.Limit)
			if err != nil {
				return err
			}

			format := opts.Format
			if format == "" {
				format = formatFromPath(opts.Output)
			}

			w := cmd.OutOrStdout()
			var file *os.File
			if opts.Output != "" && opts.Output != "-" {
				file, err = os.Create(opts.Output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				w = file
			}

			out, err := c.ExportTasksUseCase().Execute(cmd.Context(), usecase.ExportTasksInput{
				Writer: w,
				Format: format,
				View:   view,
			})
			if file != nil {
				if closeErr := file.Close(); err == nil && closeErr != nil {
					err = fmt.Errorf("close output: %w", closeErr)
				}
				if err != nil {
					_ = os.Remove(opts.Output)
				}
			}
			if err != nil {
				return err
			}

			if file != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d task(s) to %s\n", out.Count, opts.Output)
			}
			return nil
		},
	}

	flags.register(cmd, false)
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: "+strings.Join(export.Formats, ", "))
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (default stdout)")

	return cmd
}

// formatFromPath maps a file extension to an export format.
func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, f := range export.Formats {
		if ext == f {
			return f
		}
	}
	if ext == "yml" {
		return "yaml"
	}
	return "json"
}
