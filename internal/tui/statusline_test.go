package tui

import (
	"errors"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestStatusLine_Render_KeyHints(t *testing.T) {
	styles := NewStyles(false)
	sl := NewStatusLine(100, &styles)

	out := sl.Render(StatusLineInfo{
		Page:     "page 1/3 · 12 tasks",
		Location: "limit=5&page=1",
		KeyHints: []KeyHint{{Key: "j/k", Desc: "nav"}, {Key: "q", Desc: "quit"}},
	})

	assert.Contains(t, out, "j/k nav  q quit")
	assert.Contains(t, out, "page 1/3 · 12 tasks  ?limit=5&page=1")
	assert.Equal(t, 100, lipgloss.Width(out))
}

func TestStatusLine_Render_ErrorReplacesHints(t *testing.T) {
	styles := NewStyles(false)
	sl := NewStatusLine(100, &styles)

	out := sl.Render(StatusLineInfo{
		Err:      errors.New("list tasks: boom"),
		Notice:   "Deleted task t1",
		KeyHints: []KeyHint{{Key: "q", Desc: "quit"}},
	})

	assert.Contains(t, out, "Error: list tasks: boom")
	assert.NotContains(t, out, "quit")
	assert.NotContains(t, out, "Deleted task")
}

func TestStatusLine_Render_Notice(t *testing.T) {
	styles := NewStyles(false)
	sl := NewStatusLine(80, &styles)

	out := sl.Render(StatusLineInfo{Notice: "Created task t9"})

	assert.Contains(t, out, "Created task t9")
}

func TestStatusLine_Render_TruncatesLongError(t *testing.T) {
	styles := NewStyles(false)
	sl := NewStatusLine(40, &styles)

	out := sl.Render(StatusLineInfo{
		Err:  errors.New("a very long error message that does not fit on one line"),
		Page: "page 1/1",
	})

	assert.Contains(t, out, "…")
	assert.LessOrEqual(t, lipgloss.Width(out), 40)
	assert.Contains(t, out, "page 1/1")
}
