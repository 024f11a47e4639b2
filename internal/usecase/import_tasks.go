package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/todo/internal/domain"
)

// ImportTasksInput contains the parameters for importing tasks from a file.
type ImportTasksInput struct {
	Content []byte // YAML file content
	DryRun  bool   // If true, parse and validate without creating tasks
}

// ImportTasksOutput contains the result of importing tasks.
type ImportTasksOutput struct {
	Tasks []domain.Task // Created tasks (or tasks that would be created in dry-run mode)
}

// ImportTasks is the use case for creating tasks in bulk from a YAML file.
type ImportTasks struct {
	api    domain.TaskAPI
	clock  domain.Clock
	logger *slog.Logger
}

// NewImportTasks creates a new ImportTasks use case.
func NewImportTasks(api domain.TaskAPI, clock domain.Clock, logger *slog.Logger) *ImportTasks {
	return &ImportTasks{
		api:    api,
		clock:  clock,
		logger: logger,
	}
}

// Execute validates every draft before creating any of them.
// Creation stops at the first backend error; tasks created so far are returned
// alongside it.
func (uc *ImportTasks) Execute(ctx context.Context, in ImportTasksInput) (*ImportTasksOutput, error) {
	drafts, err := domain.ParseTaskDrafts(in.Content)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	tasks := make([]domain.Task, 0, len(drafts))
	for _, d := range drafts {
		due, _ := domain.ParseDueDate(d.Due) // validated by ParseTaskDrafts
		tasks = append(tasks, domain.Task{
			Title:       d.Title,
			Description: d.Description,
			Status:      d.Status,
			DueDate:     due,
			CreatedAt:   now,
		})
	}

	if in.DryRun {
		return &ImportTasksOutput{Tasks: tasks}, nil
	}

	out := &ImportTasksOutput{Tasks: make([]domain.Task, 0, len(tasks))}
	for i := range tasks {
		created, err := uc.api.Create(ctx, &tasks[i])
		if err != nil {
			return out, fmt.Errorf("task %d: create task: %w", i+1, err)
		}
		out.Tasks = append(out.Tasks, *created)
	}

	uc.logger.Info("tasks imported", "count", len(out.Tasks))

	return out, nil
}
