package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// KeyHint represents a key and its description.
type KeyHint struct {
	Key  string
	Desc string
}

// StatusLineInfo contains information for rendering the status line.
// Fields are ordered to minimize memory padding.
type StatusLineInfo struct {
	Err      error
	Notice   string
	Location string // Encoded view, e.g. "page=2&limit=10"
	Page     string // e.g. "2/5 · 23 tasks"
	KeyHints []KeyHint
}

// StatusLine renders a unified status line at the bottom of the screen.
type StatusLine struct {
	styles *Styles
	width  int
}

// NewStatusLine creates a new StatusLine with the given width and styles.
func NewStatusLine(width int, styles *Styles) *StatusLine {
	return &StatusLine{
		width:  width,
		styles: styles,
	}
}

// Render renders the status line with the given info.
// An error takes the place of the key hints.
func (s *StatusLine) Render(info StatusLineInfo) string {
	var left string
	switch {
	case info.Err != nil:
		left = s.styles.ErrorMsg.Render("Error: " + escapeNewlines(info.Err.Error()))
	case info.Notice != "":
		left = s.styles.Notice.Render(info.Notice)
	default:
		hints := make([]string, 0, len(info.KeyHints))
		for _, h := range info.KeyHints {
			hints = append(hints, s.styles.FooterKey.Render(h.Key)+" "+h.Desc)
		}
		left = strings.Join(hints, "  ")
	}

	right := info.Page
	if info.Location != "" {
		right += "  ?" + info.Location
	}

	if s.width <= 0 {
		return left + "  " + right
	}

	rightLen := lipgloss.Width(right)
	maxLeft := s.width - rightLen - 2
	if maxLeft < 10 {
		// Not enough room for both: the left side wins.
		right = ""
		rightLen = 0
		maxLeft = s.width
	}
	if lipgloss.Width(left) > maxLeft {
		left = truncate.StringWithTail(left, uint(maxLeft), "…")
	}

	spacing := s.width - lipgloss.Width(left) - rightLen
	if spacing < 1 {
		spacing = 1
	}
	return s.styles.Footer.Render(left + strings.Repeat(" ", spacing) + right)
}

// statusInfo returns status line info for the current mode.
func (m *Model) statusInfo() StatusLineInfo {
	info := StatusLineInfo{
		Err:      m.currentErr(),
		Notice:   m.notice,
		Location: m.ctl.Location(),
		Page:     m.pageLabel(),
	}

	switch m.mode {
	case ModeNormal:
		info.KeyHints = []KeyHint{
			{Key: "j/k", Desc: "nav"},
			{Key: "h/l", Desc: "page"},
			{Key: "n", Desc: "new"},
			{Key: "x", Desc: "delete"},
			{Key: "/", Desc: "search"},
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		}
	case ModeSearch:
		info.KeyHints = []KeyHint{
			{Key: "enter", Desc: "done"},
			{Key: "esc", Desc: "clear"},
		}
	case ModeMove:
		info.KeyHints = []KeyHint{
			{Key: "j/k", Desc: "move"},
			{Key: "m/enter", Desc: "drop"},
			{Key: "esc", Desc: "cancel"},
		}
	case ModeDetail:
		info.KeyHints = []KeyHint{
			{Key: "j/k", Desc: "scroll"},
			{Key: "e", Desc: "edit"},
			{Key: "esc", Desc: "back"},
		}
	case ModeConfirm, ModeForm, ModeHelp:
		// Dialogs show their own hints
	}

	return info
}
