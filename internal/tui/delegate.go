package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/runoshun/todo/internal/domain"
)

type taskItem struct {
	task domain.Task
}

func (t taskItem) FilterValue() string {
	return t.task.Title
}

// escapeNewlines replaces newline characters with spaces for single-line display.
func escapeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

// padRight fills line with spaces up to width cells.
func padRight(line string, width int) string {
	if w := runewidth.StringWidth(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return line
}

// taskDelegate renders a task as two lines: status and title with the due
// date on the right, then the first line of the description.
type taskDelegate struct {
	now      time.Time
	movingID string
	styles   Styles
}

func newTaskDelegate(styles Styles, now time.Time, movingID string) taskDelegate {
	return taskDelegate{styles: styles, now: now, movingID: movingID}
}

func (d taskDelegate) Height() int {
	return 2
}

func (d taskDelegate) Spacing() int {
	return 1
}

func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(taskItem)
	if !ok {
		return
	}
	task := ti.task
	selected := index == m.Index()
	moving := task.ID == d.movingID

	indicatorChar := " "
	switch {
	case moving:
		indicatorChar = "≡"
	case selected:
		indicatorChar = ">"
	}

	statusText := fmt.Sprintf("%-11s", task.Status.Display())
	overdue := task.IsOverdue(d.now)
	due := task.DueLabel()
	if overdue {
		due += " !"
	}

	// "  > ○ In progress  " prefix plus the due column
	prefixWidth := 19
	listWidth := m.Width()
	dueWidth := runewidth.StringWidth(due)
	maxTitleLen := listWidth - prefixWidth - dueWidth - 2
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}

	title := task.Title
	if runewidth.StringWidth(title) > maxTitleLen {
		title = runewidth.Truncate(title, maxTitleLen, "...")
	}

	statusStyle := d.styles.StatusStyle(task.Status)
	titleStyle := d.styles.TaskTitle
	indicatorStyle := d.styles.SelectionIndicator
	if selected {
		statusStyle = statusStyle.Bold(true)
		titleStyle = d.styles.TaskTitleSelected
		indicatorStyle = indicatorStyle.Bold(true)
	}
	if moving {
		indicatorStyle = d.styles.Moving
		titleStyle = d.styles.Moving
	}

	left := "  " + indicatorStyle.Render(indicatorChar) + " " +
		statusStyle.Render(StatusIcon(task.Status)) + " " +
		statusStyle.Render(statusText) + "  " +
		titleStyle.Render(title)

	gap := listWidth - prefixWidth - runewidth.StringWidth(title) - dueWidth
	if gap < 2 {
		gap = 2
	}
	line := left + strings.Repeat(" ", gap) + d.styles.DueStyle(&task, overdue).Render(due)
	_, _ = fmt.Fprintln(w, line)

	descLine := strings.Repeat(" ", prefixWidth)
	if task.Description != "" {
		desc := escapeNewlines(task.Description)
		maxDescLen := listWidth - prefixWidth - 2
		if maxDescLen < 10 {
			maxDescLen = 10
		}
		if runewidth.StringWidth(desc) > maxDescLen {
			desc = runewidth.Truncate(desc, maxDescLen, "...")
		}
		descLine += desc
	}
	descStyle := d.styles.TaskDesc
	if selected {
		descStyle = d.styles.TaskDescSelected
	}
	_, _ = fmt.Fprint(w, descStyle.Render(padRight(descLine, listWidth)))
}
