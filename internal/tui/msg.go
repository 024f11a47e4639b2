package tui

import (
	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/tasklist"
)

// Msg is the sealed interface for all TUI messages.
// All message types must implement the sealed() method.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgTasksFetched carries the answer to a list request.
type MsgTasksFetched struct {
	Resp tasklist.Response
}

func (MsgTasksFetched) sealed() {}

// MsgCountFetched carries the answer to a count request.
type MsgCountFetched struct {
	Resp tasklist.CountResponse
}

func (MsgCountFetched) sealed() {}

// MsgTaskDeleted is sent when a delete request finishes.
type MsgTaskDeleted struct {
	Err error
	ID  string
}

func (MsgTaskDeleted) sealed() {}

// MsgTaskSaved is sent when the form was saved.
type MsgTaskSaved struct {
	Task    *domain.Task
	Created bool
}

func (MsgTaskSaved) sealed() {}

// MsgEditLoaded is sent when a task was fetched for editing.
type MsgEditLoaded struct {
	Task *domain.Task
}

func (MsgEditLoaded) sealed() {}

// MsgFormError is sent when saving the form failed. The form stays open.
type MsgFormError struct {
	Err error
}

func (MsgFormError) sealed() {}

// MsgDarkModeToggled is sent after the theme preference was persisted.
type MsgDarkModeToggled struct {
	Err      error
	Seq      uint64
	DarkMode bool
}

func (MsgDarkModeToggled) sealed() {}

// MsgError is sent when an error occurs.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}
