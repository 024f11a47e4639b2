package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/runoshun/todo/internal/domain"
)

// ExportTasksInput contains the parameters for exporting tasks.
// Page and limit of View are ignored: every matching task is exported.
type ExportTasksInput struct {
	Writer io.Writer
	Format string
	View   domain.ViewState
}

// ExportTasksOutput contains the result of exporting tasks.
type ExportTasksOutput struct {
	Count int
}

// ExportTasks is the use case for writing the filtered task list to a document.
type ExportTasks struct {
	api      domain.TaskAPI
	exporter domain.TaskExporter
}

// NewExportTasks creates a new ExportTasks use case.
func NewExportTasks(api domain.TaskAPI, exporter domain.TaskExporter) *ExportTasks {
	return &ExportTasks{
		api:      api,
		exporter: exporter,
	}
}

// Execute collects all matching tasks page by page and renders them.
func (uc *ExportTasks) Execute(ctx context.Context, in ExportTasksInput) (*ExportTasksOutput, error) {
	tasks, err := uc.collect(ctx, in.View)
	if err != nil {
		return nil, err
	}
	if err := uc.exporter.Export(in.Writer, in.Format, tasks); err != nil {
		return nil, fmt.Errorf("export tasks: %w", err)
	}
	return &ExportTasksOutput{Count: len(tasks)}, nil
}

func (uc *ExportTasks) collect(ctx context.Context, v domain.ViewState) ([]domain.Task, error) {
	if v.Searching() {
		found, err := uc.api.SearchByTitle(ctx, v.Search)
		if err != nil {
			return nil, fmt.Errorf("search tasks: %w", err)
		}
		return domain.FilterByTitle(found, v.Search), nil
	}

	q := v.Query()
	q.Limit = domain.MaxLimit
	var all []domain.Task
	for q.Page = 1; ; q.Page++ {
		page, err := uc.api.List(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		all = append(all, page...)
		if len(page) < q.Limit {
			return all, nil
		}
	}
}
