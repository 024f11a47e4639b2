package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/todo/internal/domain"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID string
}

// ShowTaskOutput contains the task details.
type ShowTaskOutput struct {
	Task *domain.Task
}

// ShowTask is the use case for fetching a single task.
type ShowTask struct {
	api domain.TaskAPI
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(api domain.TaskAPI) *ShowTask {
	return &ShowTask{
		api: api,
	}
}

// Execute returns the task with the given ID.
func (uc *ShowTask) Execute(ctx context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	if in.TaskID == "" {
		return nil, domain.ErrTaskNotFound
	}
	task, err := uc.api.Get(ctx, in.TaskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &ShowTaskOutput{Task: task}, nil
}
