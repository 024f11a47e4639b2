package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/todo/internal/domain"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID string // Task ID to delete
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct{}

// DeleteTask is the use case for deleting a task.
type DeleteTask struct {
	api    domain.TaskAPI
	logger *slog.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(api domain.TaskAPI, logger *slog.Logger) *DeleteTask {
	return &DeleteTask{
		api:    api,
		logger: logger,
	}
}

// Execute deletes the task. Whether the backend soft- or hard-deletes is its concern.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	if in.TaskID == "" {
		return nil, domain.ErrNoDeleteTarget
	}
	if err := uc.api.Delete(ctx, in.TaskID); err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}

	uc.logger.Info("task deleted", "id", in.TaskID)

	return &DeleteTaskOutput{}, nil
}
