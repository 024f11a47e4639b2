package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/runoshun/todo/internal/domain"
)

// NewTaskInput contains the parameters for creating a new task.
type NewTaskInput struct {
	Title       string        // Task title (required)
	Description string        // Task description (optional)
	DueDate     string        // YYYY-MM-DD (optional)
	Status      domain.Status // Initial status (empty = pending)
}

// NewTaskOutput contains the result of creating a new task.
type NewTaskOutput struct {
	Task *domain.Task // The task as stored by the backend
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	api    domain.TaskAPI
	clock  domain.Clock
	logger *slog.Logger
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(api domain.TaskAPI, clock domain.Clock, logger *slog.Logger) *NewTask {
	return &NewTask{
		api:    api,
		clock:  clock,
		logger: logger,
	}
}

// Execute validates the form and creates the task.
func (uc *NewTask) Execute(ctx context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	title := strings.TrimSpace(in.Title)
	if err := domain.ValidateTitle(title); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = domain.StatusPending
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	due, err := domain.ParseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       title,
		Description: in.Description,
		Status:      status,
		DueDate:     due,
		CreatedAt:   uc.clock.Now(),
	}

	created, err := uc.api.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	uc.logger.Info("task created", "id", created.ID, "title", created.Title)

	return &NewTaskOutput{Task: created}, nil
}
