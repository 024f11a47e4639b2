package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/todo/internal/domain"
)

// CountTasksInput contains the parameters for counting tasks.
type CountTasksInput struct {
	Status  domain.Status // Empty = every status
	Overdue bool
}

// CountTasksOutput contains the result of counting tasks.
type CountTasksOutput struct {
	Count int
}

// CountTasks is the use case for counting tasks on the backend.
type CountTasks struct {
	api domain.TaskAPI
}

// NewCountTasks creates a new CountTasks use case.
func NewCountTasks(api domain.TaskAPI) *CountTasks {
	return &CountTasks{
		api: api,
	}
}

// Execute returns the number of tasks matching the filters.
func (uc *CountTasks) Execute(ctx context.Context, in CountTasksInput) (*CountTasksOutput, error) {
	if in.Status != "" && !in.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, in.Status)
	}
	n, err := uc.api.Count(ctx, domain.TaskQuery{Status: in.Status, Overdue: in.Overdue})
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	if n < 0 {
		n = 0
	}
	return &CountTasksOutput{Count: n}, nil
}
