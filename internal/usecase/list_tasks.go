// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/todo/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	View domain.ViewState
}

// ListTasksOutput contains the result of listing tasks.
// Fields are ordered to minimize memory padding.
type ListTasksOutput struct {
	Tasks []domain.Task // Tasks on the requested page
	// Total is the number of search matches. It is only set when Searched is
	// true; paged listings get their total from CountTasks.
	Total    int
	Searched bool
}

// ListTasks is the use case for fetching one page of the list view.
type ListTasks struct {
	api domain.TaskAPI
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(api domain.TaskAPI) *ListTasks {
	return &ListTasks{
		api: api,
	}
}

// Execute returns the tasks for the given view.
// A non-empty search goes to the title search endpoint, which has no paging,
// so the results are paged here. Status and overdue filters do not apply to
// searches.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	v := in.View
	if v.Page < 1 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidPage, v.Page)
	}
	if err := domain.ValidateLimit(v.Limit); err != nil {
		return nil, err
	}

	if v.Searching() {
		found, err := uc.api.SearchByTitle(ctx, v.Search)
		if err != nil {
			return nil, fmt.Errorf("search tasks: %w", err)
		}
		found = domain.FilterByTitle(found, v.Search)
		return &ListTasksOutput{
			Tasks:    domain.PageSlice(found, v.Page, v.Limit),
			Total:    len(found),
			Searched: true,
		}, nil
	}

	tasks, err := uc.api.List(ctx, v.Query())
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return &ListTasksOutput{Tasks: tasks}, nil
}
