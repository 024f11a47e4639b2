package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer renders task descriptions for the detail view.
// The glamour renderer is rebuilt when the wrap width or theme changes.
type markdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
	dark     bool
}

// style returns the glamour standard style name for the theme.
func (r *markdownRenderer) style() string {
	if r.dark {
		return "dark"
	}
	return "light"
}

// setDark switches the theme; the next render rebuilds the renderer.
func (r *markdownRenderer) setDark(dark bool) {
	if r.dark != dark {
		r.dark = dark
		r.renderer = nil
	}
}

// render converts markdown input into ANSI-styled terminal text with the requested wrap width.
func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}

	wrapWidth := width
	if wrapWidth < 24 {
		wrapWidth = 24
	}

	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style()),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}
