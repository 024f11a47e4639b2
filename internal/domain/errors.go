package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidDueDate   = errors.New("invalid due date (want YYYY-MM-DD)")
	ErrInvalidLimit     = errors.New("invalid page size")
	ErrInvalidPage      = errors.New("invalid page number")
	ErrInvalidView      = errors.New("invalid view query")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrNoDeleteTarget   = errors.New("no task selected for deletion")
	ErrConfigExists     = errors.New("config file already exists")
)
