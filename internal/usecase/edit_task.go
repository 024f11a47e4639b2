package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/runoshun/todo/internal/domain"
)

// EditTaskInput contains the parameters for editing a task.
// All fields except TaskID are optional. Only non-nil fields will be updated.
type EditTaskInput struct {
	Title       *string        // New title (nil = no change)
	Description *string        // New description (nil = no change)
	Status      *domain.Status // New status (nil = no change)
	DueDate     *string        // New due date; "" clears it (nil = no change)
	TaskID      string         // Task ID to edit (required)
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task *domain.Task // The updated task
}

// EditTask is the use case for editing an existing task.
type EditTask struct {
	api    domain.TaskAPI
	logger *slog.Logger
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(api domain.TaskAPI, logger *slog.Logger) *EditTask {
	return &EditTask{
		api:    api,
		logger: logger,
	}
}

// Execute validates the changes and sends them as a partial update.
func (uc *EditTask) Execute(ctx context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	patch, err := buildPatch(in)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	task, err := uc.api.Update(ctx, in.TaskID, patch)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	uc.logger.Info("task updated", "id", task.ID)

	return &EditTaskOutput{Task: task}, nil
}

func buildPatch(in EditTaskInput) (domain.TaskPatch, error) {
	var patch domain.TaskPatch

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := domain.ValidateTitle(title); err != nil {
			return patch, err
		}
		patch.Title = &title
	}
	patch.Description = in.Description

	if in.Status != nil {
		if !in.Status.IsValid() {
			return patch, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *in.Status)
		}
		st := *in.Status
		patch.Status = &st
	}

	if in.DueDate != nil {
		due, err := domain.ParseDueDate(*in.DueDate)
		if err != nil {
			return patch, err
		}
		if due == nil {
			patch.ClearDueDate = true
		} else {
			patch.DueDate = due
		}
	}

	return patch, nil
}
