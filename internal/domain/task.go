// Package domain contains core business entities and interfaces.
package domain

import (
	"errors"
	"strings"
	"time"
)

// DueDateLayout is the input and display format of due dates.
const DueDateLayout = "2006-01-02"

// Task represents a to-do item owned by the backend.
// Fields are ordered to minimize memory padding.
type Task struct {
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty" yaml:"deletedAt,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Status      Status     `json:"status" yaml:"status"`
}

// IsOverdue reports whether the due date has passed and the task is not completed.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusCompleted
}

// IsDeleted returns true if the task was soft-deleted.
func (t *Task) IsDeleted() bool {
	return t.DeletedAt != nil
}

// DueLabel returns the due date for display.
func (t *Task) DueLabel() string {
	if t.DueDate == nil {
		return "No due date provided"
	}
	return t.DueDate.Format(DueDateLayout)
}

// ValidateTitle returns ErrEmptyTitle for blank titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// ParseDueDate parses a YYYY-MM-DD date. An empty string yields nil.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(DueDateLayout, s, time.Local)
	if err != nil {
		return nil, ErrInvalidDueDate
	}
	return &d, nil
}

// ToMarkdown converts the task to a Markdown format with frontmatter.
// Only editable fields are included.
func (t *Task) ToMarkdown() string {
	due := ""
	if t.DueDate != nil {
		due = t.DueDate.Format(DueDateLayout)
	}
	status := t.Status
	if status == "" {
		status = StatusPending
	}
	return "---\ntitle: " + t.Title +
		"\nstatus: " + status.Name() +
		"\ndue: " + due +
		"\n---\n\n" + t.Description
}

// FromMarkdown parses Markdown with frontmatter and updates the editable fields.
// Returns an error if parsing fails; the task is left untouched in that case.
func (t *Task) FromMarkdown(content string) error {
	if !strings.HasPrefix(content, "---\n") {
		return errors.New("invalid frontmatter: missing opening ---")
	}

	lines := strings.Split(content[4:], "\n")
	endIdx := -1
	for i, line := range lines {
		if line == "---" {
			endIdx = i
			break
		}
	}
	if endIdx == -1 {
		return errors.New("invalid frontmatter: missing closing ---")
	}

	var title, status, due string
	for _, line := range lines[:endIdx] {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "title":
			title = value
		case "status":
			status = value
		case "due":
			due = value
		}
	}

	if err := ValidateTitle(title); err != nil {
		return err
	}
	st := t.Status
	if status != "" {
		parsed, err := ParseStatus(status)
		if err != nil {
			return err
		}
		st = parsed
	}
	dueDate, err := ParseDueDate(due)
	if err != nil {
		return err
	}

	description := strings.Join(lines[endIdx+1:], "\n")

	t.Title = title
	t.Status = st
	t.DueDate = dueDate
	t.Description = strings.TrimLeft(description, "\n")
	return nil
}

// FilterByTitle keeps tasks whose title contains needle, ignoring case.
// A blank needle keeps everything.
func FilterByTitle(tasks []Task, needle string) []Task {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return tasks
	}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), needle) {
			out = append(out, t)
		}
	}
	return out
}
