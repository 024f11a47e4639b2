package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the model.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.mode {
	case ModeHelp:
		content = m.viewHelp()
	case ModeDetail:
		content = m.viewDetail()
	case ModeForm:
		content = m.viewForm()
	case ModeConfirm:
		content = m.viewConfirmDialog()
	case ModeNormal, ModeSearch, ModeMove:
		content = m.viewMain()
	}

	return m.styles.App.Render(content)
}

// viewMain renders the header, the list and the status line.
func (m *Model) viewMain() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	if m.mode == ModeSearch || m.ctl.View().Search != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
	}

	if len(m.taskList.Items()) == 0 {
		b.WriteString(m.viewEmptyState())
	} else {
		b.WriteString(m.taskList.View())
	}
	b.WriteString("\n\n")

	b.WriteString(m.viewStatusLine())
	return b.String()
}

// viewHeader renders "Tasks" with the active filters right-aligned.
func (m *Model) viewHeader() string {
	title := m.styles.Header.Render("Tasks")
	if m.mode == ModeMove {
		title += " " + m.styles.Moving.Render("[moving]")
	}

	theme := "light"
	if m.darkMode {
		theme = "dark"
	}
	right := m.styles.HeaderText.Render(m.filterLabel() + " · " + theme)

	headerWidth := m.width - 4
	spacing := headerWidth - lipgloss.Width(title) - lipgloss.Width(right)
	if spacing < 2 {
		spacing = 2
	}
	return title + strings.Repeat(" ", spacing) + right
}

func (m *Model) viewEmptyState() string {
	if m.ctl.Loading() {
		return m.styles.Empty.Render("Loading tasks...")
	}
	var b strings.Builder
	b.WriteString(m.styles.Empty.Render("No tasks found"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Footer.Render("  Press "))
	b.WriteString(m.styles.FooterKey.Render("n"))
	b.WriteString(m.styles.Footer.Render(" to create a task"))
	return b.String()
}

func (m *Model) viewStatusLine() string {
	return NewStatusLine(m.width-4, &m.styles).Render(m.statusInfo())
}

// viewConfirmDialog renders the delete confirmation.
func (m *Model) viewConfirmDialog() string {
	id, open := m.ctl.DeleteDialog()
	if !open {
		return m.viewMain()
	}

	target := id
	for _, task := range m.ctl.Tasks() {
		if task.ID == id {
			target = fmt.Sprintf("%q", task.Title)
			break
		}
	}

	titleStyle := m.styles.DialogTitle.Foreground(m.styles.Palette.Error)
	title := titleStyle.Render("Delete task " + target + "?")
	prompt := m.styles.DialogPrompt.Render("This action cannot be undone.")

	yesBtn := m.styles.FooterKey.Render("[ y ] Delete")
	noBtn := m.styles.Footer.Render("[ n ] Cancel")
	buttons := lipgloss.JoinHorizontal(lipgloss.Left, yesBtn, "  ", noBtn)

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		prompt,
		"",
		buttons,
	)

	dialog := m.styles.Dialog.BorderForeground(m.styles.Palette.Error).Render(content)
	return lipgloss.Place(m.width-4, m.height-2, lipgloss.Center, lipgloss.Center, dialog)
}

func (m *Model) viewForm() string {
	if m.form == nil {
		return m.viewMain()
	}
	dialog := m.styles.Dialog.Render(m.form.view(m.styles))
	return lipgloss.Place(m.width-4, m.height-2, lipgloss.Center, lipgloss.Center, dialog)
}

func (m *Model) viewDetail() string {
	footer := m.styles.Footer.Render(fmt.Sprintf("%3.f%%", m.detail.ScrollPercent()*100))
	return lipgloss.JoinVertical(lipgloss.Left,
		m.detail.View(),
		"",
		m.viewStatusLine()+" "+footer,
	)
}

// viewHelp renders the full key binding list.
func (m *Model) viewHelp() string {
	title := m.styles.Header.Render("KEYBOARD SHORTCUTS")

	h := m.help
	h.ShowAll = true
	h.Width = 0 // no column limit
	body := h.View(m.keys)

	hint := m.styles.Footer.Render("Press any key to close")
	return m.styles.Dialog.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))
}
