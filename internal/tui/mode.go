// Package tui provides the terminal user interface for todo.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal  Mode = iota // Default navigation mode
	ModeSearch              // Title search input
	ModeConfirm             // Delete confirmation dialog
	ModeForm                // New/edit task form
	ModeMove                // A task is picked up for reordering
	ModeHelp                // Help overlay
	ModeDetail              // Task detail view
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeSearch:
		return "search"
	case ModeConfirm:
		return "confirm"
	case ModeForm:
		return "form"
	case ModeMove:
		return "move"
	case ModeHelp:
		return "help"
	case ModeDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// IsInputMode returns true if the mode accepts text input.
func (m Mode) IsInputMode() bool {
	switch m {
	case ModeSearch, ModeForm:
		return true
	case ModeNormal, ModeConfirm, ModeMove, ModeHelp, ModeDetail:
		return false
	}
	return false
}
