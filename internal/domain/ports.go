package domain

import (
	"context"
	"io"
	"time"
)

// TaskQuery selects a page of tasks.
// An empty Status means every status.
type TaskQuery struct {
	Status  Status
	Page    int
	Limit   int
	Overdue bool
}

// Offset returns the number of rows skipped before the page.
func (q TaskQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// TaskPatch carries a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title        *string
	Description  *string
	Status       *Status
	DueDate      *time.Time
	ClearDueDate bool
}

// IsEmpty returns true if the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.DueDate == nil && !p.ClearDueDate
}

// Apply writes the patch onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.ClearDueDate {
		t.DueDate = nil
	}
	if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
}

// TaskAPI is the client-side view of the REST task backend.
type TaskAPI interface {
	// List returns one page of tasks matching q.
	List(ctx context.Context, q TaskQuery) ([]Task, error)
	// Count returns the number of tasks matching q's filters (paging ignored).
	Count(ctx context.Context, q TaskQuery) (int, error)
	// SearchByTitle returns every task whose title contains title.
	SearchByTitle(ctx context.Context, title string) ([]Task, error)
	// Get returns a single task. Returns ErrTaskNotFound if absent.
	Get(ctx context.Context, id string) (*Task, error)
	// Create stores a new task and returns it as stored.
	Create(ctx context.Context, task *Task) (*Task, error)
	// Update applies a partial update and returns the result.
	Update(ctx context.Context, id string, patch TaskPatch) (*Task, error)
	// Delete removes a task.
	Delete(ctx context.Context, id string) error
}

// TaskStore is the persistence port of the reference backend.
type TaskStore interface {
	List(ctx context.Context, q TaskQuery, now time.Time) ([]Task, error)
	Count(ctx context.Context, q TaskQuery, now time.Time) (int, error)
	Search(ctx context.Context, title string) ([]Task, error)
	// Get returns ErrTaskNotFound for unknown or soft-deleted ids.
	Get(ctx context.Context, id string) (*Task, error)
	Insert(ctx context.Context, task *Task) error
	Update(ctx context.Context, task *Task) error
	// Delete soft-deletes at the given time, or removes the row when hard is set.
	Delete(ctx context.Context, id string, at time.Time, hard bool) error
	Close() error
}

// PreferenceStore persists client preferences.
type PreferenceStore interface {
	// Load returns the zero Preferences when nothing has been saved yet.
	Load() (Preferences, error)
	Save(p Preferences) error
}

// ConfigInfo describes the config file in use.
type ConfigInfo struct {
	Path   string
	Exists bool
}

// ConfigManager locates and initialises the config file.
type ConfigManager interface {
	Info() ConfigInfo
	// Init writes the commented template for cfg.
	// Returns ErrConfigExists unless force is set.
	Init(cfg *Config, force bool) error
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// TaskExporter renders tasks into a document format (json, csv, pdf, ...).
type TaskExporter interface {
	Export(w io.Writer, format string, tasks []Task) error
}
