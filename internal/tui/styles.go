package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/todo/internal/domain"
)

// Palette is a set of colors for one theme.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color

	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color
	DescNormal    lipgloss.Color
	DescSelected  lipgloss.Color

	Pending    lipgloss.Color
	InProgress lipgloss.Color
	Completed  lipgloss.Color
}

// DarkPalette is used when dark mode is on.
var DarkPalette = Palette{
	Primary:   lipgloss.Color("#A29BFE"), // Lavender
	Secondary: lipgloss.Color("#6C5CE7"), // Purple
	Muted:     lipgloss.Color("#636E72"), // Gray
	Error:     lipgloss.Color("#FF7675"), // Soft red
	Success:   lipgloss.Color("#55EFC4"), // Mint
	Warning:   lipgloss.Color("#FDCB6E"), // Yellow

	TitleNormal:   lipgloss.Color("#DFE6E9"),
	TitleSelected: lipgloss.Color("#FFEAA7"),
	DescNormal:    lipgloss.Color("#636E72"),
	DescSelected:  lipgloss.Color("#B2BEC3"),

	Pending:    lipgloss.Color("#74B9FF"),
	InProgress: lipgloss.Color("#FDCB6E"),
	Completed:  lipgloss.Color("#00B894"),
}

// LightPalette is the default.
var LightPalette = Palette{
	Primary:   lipgloss.Color("#6C5CE7"),
	Secondary: lipgloss.Color("#A29BFE"),
	Muted:     lipgloss.Color("#7F8C8D"),
	Error:     lipgloss.Color("#D63031"),
	Success:   lipgloss.Color("#00866B"),
	Warning:   lipgloss.Color("#E17055"),

	TitleNormal:   lipgloss.Color("#2D3436"),
	TitleSelected: lipgloss.Color("#6C5CE7"),
	DescNormal:    lipgloss.Color("#7F8C8D"),
	DescSelected:  lipgloss.Color("#4B5557"),

	Pending:    lipgloss.Color("#0984E3"),
	InProgress: lipgloss.Color("#E17055"),
	Completed:  lipgloss.Color("#00866B"),
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	Palette Palette

	// App
	App        lipgloss.Style
	Header     lipgloss.Style
	HeaderText lipgloss.Style
	Badge      lipgloss.Style
	BadgeOn    lipgloss.Style

	// Task list
	TaskTitle          lipgloss.Style
	TaskTitleSelected  lipgloss.Style
	TaskDesc           lipgloss.Style
	TaskDescSelected   lipgloss.Style
	SelectionIndicator lipgloss.Style
	Moving             lipgloss.Style
	DueDate            lipgloss.Style
	DueOverdue         lipgloss.Style
	DueNone            lipgloss.Style
	Empty              lipgloss.Style

	// Status badges
	StatusPending    lipgloss.Style
	StatusInProgress lipgloss.Style
	StatusCompleted  lipgloss.Style

	// Footer
	Footer    lipgloss.Style
	FooterKey lipgloss.Style

	// Dialog
	Dialog       lipgloss.Style
	DialogTitle  lipgloss.Style
	DialogPrompt lipgloss.Style

	// Input
	Input       lipgloss.Style
	InputPrompt lipgloss.Style
	FormLabel   lipgloss.Style
	FormFocused lipgloss.Style

	// Error
	ErrorMsg lipgloss.Style
	Notice   lipgloss.Style

	// Detail view
	DetailTitle lipgloss.Style
	DetailLabel lipgloss.Style
	DetailValue lipgloss.Style
}

// NewStyles returns the styles for the light or dark theme.
func NewStyles(dark bool) Styles {
	p := LightPalette
	if dark {
		p = DarkPalette
	}

	return Styles{
		Palette: p,

		App: lipgloss.NewStyle().
			Padding(1, 2),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),

		HeaderText: lipgloss.NewStyle().
			Foreground(p.Muted),

		Badge: lipgloss.NewStyle().
			Foreground(p.Muted),

		BadgeOn: lipgloss.NewStyle().
			Foreground(p.Warning).
			Bold(true),

		TaskTitle: lipgloss.NewStyle().
			Foreground(p.TitleNormal),

		TaskTitleSelected: lipgloss.NewStyle().
			Foreground(p.TitleSelected).
			Bold(true),

		TaskDesc: lipgloss.NewStyle().
			Foreground(p.DescNormal),

		TaskDescSelected: lipgloss.NewStyle().
			Foreground(p.DescSelected),

		SelectionIndicator: lipgloss.NewStyle().
			Foreground(p.TitleSelected),

		Moving: lipgloss.NewStyle().
			Foreground(p.Warning).
			Bold(true),

		DueDate: lipgloss.NewStyle().
			Foreground(p.Success),

		DueOverdue: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),

		DueNone: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),

		Empty: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true).
			PaddingLeft(2),

		StatusPending: lipgloss.NewStyle().
			Foreground(p.Pending),

		StatusInProgress: lipgloss.NewStyle().
			Foreground(p.InProgress),

		StatusCompleted: lipgloss.NewStyle().
			Foreground(p.Completed),

		Footer: lipgloss.NewStyle().
			Foreground(p.Muted),

		FooterKey: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),

		Dialog: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary),

		DialogTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),

		DialogPrompt: lipgloss.NewStyle(),

		Input: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Muted),

		InputPrompt: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),

		FormLabel: lipgloss.NewStyle().
			Foreground(p.Muted),

		FormFocused: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),

		Notice: lipgloss.NewStyle().
			Foreground(p.Success),

		DetailTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),

		DetailLabel: lipgloss.NewStyle().
			Foreground(p.Muted).
			Width(10),

		DetailValue: lipgloss.NewStyle().
			Foreground(p.TitleNormal),
	}
}

// StatusStyle returns the style for a given status.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	switch status {
	case domain.StatusInProgress:
		return s.StatusInProgress
	case domain.StatusCompleted:
		return s.StatusCompleted
	default:
		return s.StatusPending
	}
}

// DueStyle returns the style for a task's due date.
func (s Styles) DueStyle(task *domain.Task, overdue bool) lipgloss.Style {
	switch {
	case task.DueDate == nil:
		return s.DueNone
	case overdue:
		return s.DueOverdue
	default:
		return s.DueDate
	}
}

// StatusIcon returns an icon for a given status.
func StatusIcon(status domain.Status) string {
	switch status {
	case domain.StatusPending:
		return "○"
	case domain.StatusInProgress:
		return "●"
	case domain.StatusCompleted:
		return "✓"
	default:
		return "?"
	}
}
