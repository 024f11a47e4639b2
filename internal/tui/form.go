package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/usecase"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldDue
	fieldStatus
	fieldCount
)

// taskForm is the new/edit dialog.
// Fields are ordered to minimize memory padding.
type taskForm struct {
	err         error
	taskID      string // Empty when creating
	status      domain.Status
	title       textinput.Model
	due         textinput.Model
	description textarea.Model
	focus       formField
}

// newTaskForm creates a form, prefilled from task when editing.
func newTaskForm(task *domain.Task) *taskForm {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.Prompt = ""
	title.CharLimit = 200

	desc := textarea.New()
	desc.Placeholder = "Description (markdown, optional)"
	desc.ShowLineNumbers = false
	desc.CharLimit = 2000
	desc.SetHeight(4)

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD (optional)"
	due.Prompt = ""
	due.CharLimit = len(domain.DueDateLayout)

	f := &taskForm{
		title:       title,
		description: desc,
		due:         due,
		status:      domain.StatusPending,
	}
	if task != nil {
		f.taskID = task.ID
		f.title.SetValue(task.Title)
		f.title.CursorEnd()
		f.description.SetValue(task.Description)
		if task.DueDate != nil {
			f.due.SetValue(task.DueDate.Format(domain.DueDateLayout))
			f.due.CursorEnd()
		}
		if task.Status.IsValid() {
			f.status = task.Status
		}
	}
	return f
}

func (f *taskForm) editing() bool {
	return f.taskID != ""
}

// setWidth resizes the inputs to fit a dialog of the given inner width.
func (f *taskForm) setWidth(width int) {
	if width < 20 {
		width = 20
	}
	f.title.Width = width
	f.due.Width = width
	f.description.SetWidth(width)
}

// focusField moves input focus to field.
func (f *taskForm) focusField(field formField) tea.Cmd {
	f.focus = field
	f.title.Blur()
	f.description.Blur()
	f.due.Blur()
	switch field {
	case fieldTitle:
		return f.title.Focus()
	case fieldDescription:
		return f.description.Focus()
	case fieldDue:
		return f.due.Focus()
	case fieldStatus, fieldCount:
	}
	return nil
}

func (f *taskForm) cycleStatus(delta int) {
	statuses := domain.AllStatuses()
	idx := 0
	for i, s := range statuses {
		if s == f.status {
			idx = i
		}
	}
	idx = (idx + delta + len(statuses)) % len(statuses)
	f.status = statuses[idx]
}

// update handles a key press. submit reports that the form should be saved.
func (f *taskForm) update(msg tea.KeyMsg, keys KeyMap) (submit bool, cmd tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Submit):
		return true, nil
	case key.Matches(msg, keys.NextItem):
		return false, f.focusField((f.focus + 1) % fieldCount)
	case key.Matches(msg, keys.PrevItem):
		return false, f.focusField((f.focus + fieldCount - 1) % fieldCount)
	}

	switch f.focus {
	case fieldTitle:
		if msg.Type == tea.KeyEnter {
			return false, f.focusField(fieldDescription)
		}
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	case fieldDue:
		if msg.Type == tea.KeyEnter {
			return false, f.focusField(fieldStatus)
		}
		f.due, cmd = f.due.Update(msg)
	case fieldStatus:
		switch msg.String() {
		case "enter":
			return true, nil
		case "left", "h":
			f.cycleStatus(-1)
		case "right", "l", " ":
			f.cycleStatus(1)
		}
	case fieldCount:
	}
	return false, cmd
}

// newInput builds the create request from the form.
func (f *taskForm) newInput() usecase.NewTaskInput {
	return usecase.NewTaskInput{
		Title:       strings.TrimSpace(f.title.Value()),
		Description: f.description.Value(),
		DueDate:     strings.TrimSpace(f.due.Value()),
		Status:      f.status,
	}
}

// editInput builds the update request from the form. Every field is sent;
// an empty due date clears it.
func (f *taskForm) editInput() usecase.EditTaskInput {
	title := strings.TrimSpace(f.title.Value())
	desc := f.description.Value()
	due := strings.TrimSpace(f.due.Value())
	status := f.status
	return usecase.EditTaskInput{
		TaskID:      f.taskID,
		Title:       &title,
		Description: &desc,
		DueDate:     &due,
		Status:      &status,
	}
}

// view renders the form body.
func (f *taskForm) view(styles Styles) string {
	label := func(field formField, text string) string {
		if f.focus == field {
			return styles.FormFocused.Render("> " + text)
		}
		return styles.FormLabel.Render("  " + text)
	}

	heading := "New task"
	if f.editing() {
		heading = "Edit task " + f.taskID
	}

	status := "‹ " + styles.StatusStyle(f.status).Render(StatusIcon(f.status)+" "+f.status.Display()) + " ›"

	lines := []string{
		styles.DialogTitle.Render(heading),
		"",
		label(fieldTitle, "Title"),
		"  " + f.title.View(),
		"",
		label(fieldDescription, "Description"),
		f.description.View(),
		"",
		label(fieldDue, "Due date"),
		"  " + f.due.View(),
		"",
		label(fieldStatus, "Status") + "  " + status,
	}
	if f.err != nil {
		lines = append(lines, "", styles.ErrorMsg.Render(escapeNewlines(f.err.Error())))
	}
	lines = append(lines, "",
		styles.Footer.Render("tab next • ctrl+s save • esc cancel"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
