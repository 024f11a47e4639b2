package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/tasklist"
	"github.com/runoshun/todo/internal/usecase"
)

// Deps holds what the TUI needs from the application container.
type Deps struct {
	Controller     *tasklist.Controller
	ShowTask       *usecase.ShowTask
	NewTask        *usecase.NewTask
	EditTask       *usecase.EditTask
	ToggleDarkMode *usecase.ToggleDarkMode
	Clock          domain.Clock
	Logger         *slog.Logger
}

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies (pointers first for alignment)
	ctl      *tasklist.Controller
	logger   *slog.Logger
	err      error
	form     *taskForm
	markdown *markdownRenderer
	theme    *themeSaver
	deps     Deps

	notice string

	// Components (structs with pointers)
	keys     KeyMap
	styles   Styles
	help     help.Model
	taskList list.Model
	detail   viewport.Model
	search   textinput.Model

	// Numeric state (smaller types last)
	themeSeq uint64
	mode     Mode
	moveFrom int
	width    int
	height   int
	darkMode bool
}

// New creates a new TUI Model.
func New(deps Deps, prefs domain.Preferences) *Model {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Clock == nil {
		deps.Clock = domain.RealClock{}
	}

	si := textinput.New()
	si.Placeholder = "Search titles..."
	si.Prompt = "/ "
	si.CharLimit = 100
	si.SetValue(deps.Controller.View().Search)

	styles := NewStyles(prefs.DarkMode)
	taskList := list.New([]list.Item{}, newTaskDelegate(styles, deps.Clock.Now(), ""), 0, 0)
	taskList.SetShowTitle(false)
	taskList.SetShowStatusBar(false)
	taskList.SetShowHelp(false)
	taskList.SetShowPagination(false)
	taskList.SetFilteringEnabled(false)
	taskList.DisableQuitKeybindings()

	return &Model{
		ctl:      deps.Controller,
		logger:   deps.Logger,
		deps:     deps,
		markdown: &markdownRenderer{dark: prefs.DarkMode},
		theme:    &themeSaver{},
		keys:     DefaultKeyMap(),
		styles:   styles,
		help:     help.New(),
		taskList: taskList,
		search:   si,
		mode:     ModeNormal,
		darkMode: prefs.DarkMode,
		moveFrom: -1,
	}
}

// Init issues the first fetch.
func (m *Model) Init() tea.Cmd {
	return m.run(m.ctl.Start())
}

// Mode returns the current UI mode.
func (m *Model) Mode() Mode {
	return m.mode
}

// DarkMode reports whether the dark theme is active.
func (m *Model) DarkMode() bool {
	return m.darkMode
}

// run turns a controller refresh into commands that fetch in the background.
func (m *Model) run(r tasklist.Refresh) tea.Cmd {
	ctl := m.ctl
	cmds := []tea.Cmd{func() tea.Msg {
		return MsgTasksFetched{Resp: ctl.Fetch(context.Background(), r.List)}
	}}
	if r.Count != nil {
		req := *r.Count
		cmds = append(cmds, func() tea.Msg {
			return MsgCountFetched{Resp: ctl.FetchCount(context.Background(), req)}
		})
	}
	return tea.Batch(cmds...)
}

// deleteTask returns a command that deletes id.
func (m *Model) deleteTask(id string) tea.Cmd {
	ctl := m.ctl
	return func() tea.Msg {
		return MsgTaskDeleted{ID: id, Err: ctl.Delete(context.Background(), id)}
	}
}

// loadForEdit fetches the latest copy of a task before opening the form.
func (m *Model) loadForEdit(id string) tea.Cmd {
	uc := m.deps.ShowTask
	return func() tea.Msg {
		out, err := uc.Execute(context.Background(), usecase.ShowTaskInput{TaskID: id})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgEditLoaded{Task: out.Task}
	}
}

// saveForm returns a command that creates or updates the task in f.
func (m *Model) saveForm(f *taskForm) tea.Cmd {
	if f.editing() {
		uc := m.deps.EditTask
		in := f.editInput()
		return func() tea.Msg {
			out, err := uc.Execute(context.Background(), in)
			if err != nil {
				return MsgFormError{Err: err}
			}
			return MsgTaskSaved{Task: out.Task}
		}
	}
	uc := m.deps.NewTask
	in := f.newInput()
	return func() tea.Msg {
		out, err := uc.Execute(context.Background(), in)
		if err != nil {
			return MsgFormError{Err: err}
		}
		return MsgTaskSaved{Task: out.Task, Created: true}
	}
}

// themeSaver serializes preference writes from toggle commands. A save
// older than one already written is skipped, so the file always ends on
// the theme of the last key press.
type themeSaver struct {
	mu      sync.Mutex
	written uint64
}

// toggleDarkMode flips the theme immediately and persists it in the background.
func (m *Model) toggleDarkMode() tea.Cmd {
	dark := !m.darkMode
	m.setDarkMode(dark)
	m.themeSeq++
	seq := m.themeSeq
	saver := m.theme
	uc := m.deps.ToggleDarkMode
	return func() tea.Msg {
		saver.mu.Lock()
		defer saver.mu.Unlock()
		if seq < saver.written {
			return MsgDarkModeToggled{Seq: seq, DarkMode: dark}
		}
		saver.written = seq
		_, err := uc.Execute(context.Background(), usecase.ToggleDarkModeInput{Current: !dark, Set: &dark})
		return MsgDarkModeToggled{Seq: seq, DarkMode: dark, Err: err}
	}
}

func (m *Model) setDarkMode(dark bool) {
	m.darkMode = dark
	m.styles = NewStyles(dark)
	m.markdown.setDark(dark)
	m.refreshDelegate()
	if m.mode == ModeDetail {
		m.initDetailViewport()
	}
}

// refreshDelegate rebuilds the list delegate for the current theme and move state.
func (m *Model) refreshDelegate() {
	movingID := ""
	if m.mode == ModeMove {
		if task := m.SelectedTask(); task != nil {
			movingID = task.ID
		}
	}
	m.taskList.SetDelegate(newTaskDelegate(m.styles, m.deps.Clock.Now(), movingID))
}

// SelectedTask returns the currently selected task, or nil if none.
func (m *Model) SelectedTask() *domain.Task {
	if m.taskList.SelectedItem() == nil {
		return nil
	}
	if ti, ok := m.taskList.SelectedItem().(taskItem); ok {
		task := ti.task
		return &task
	}
	return nil
}

// syncList copies the controller's visible tasks into the list, keeping the cursor in range.
func (m *Model) syncList() {
	tasks := m.ctl.Visible()
	items := make([]list.Item, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, taskItem{task: task})
	}
	idx := m.taskList.Index()
	m.taskList.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx < 0 {
		idx = 0
	}
	m.taskList.Select(idx)
}

// currentErr returns the error to show in the status line.
func (m *Model) currentErr() error {
	if m.err != nil {
		return m.err
	}
	return m.ctl.Err()
}

func (m *Model) clearErr() {
	m.err = nil
	m.notice = ""
	m.ctl.ClearErr()
}

// pageLabel summarises the pagination state, e.g. "page 2/5 · 23 tasks".
func (m *Model) pageLabel() string {
	pages := m.ctl.TotalPages()
	view := m.ctl.View()
	label := fmt.Sprintf("page %d/%d · %d tasks", view.Page, pages, m.ctl.Total())
	if m.ctl.Loading() {
		label = "loading… " + label
	}
	return label
}

// filterLabel describes the active filters for the header.
func (m *Model) filterLabel() string {
	view := m.ctl.View()
	parts := []string{"status: " + statusFilterName(view.Status)}
	if view.Overdue {
		parts = append(parts, "overdue")
	}
	if view.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", view.Search))
	}
	parts = append(parts, fmt.Sprintf("show: %d", view.Limit))
	return strings.Join(parts, " · ")
}

func statusFilterName(s domain.Status) string {
	if s == "" {
		return "all"
	}
	return strings.ToLower(s.Display())
}

// nextStatusFilter cycles all → pending → in progress → completed → all.
func nextStatusFilter(s domain.Status) domain.Status {
	statuses := domain.AllStatuses()
	if s == "" {
		return statuses[0]
	}
	for i, st := range statuses {
		if st == s && i+1 < len(statuses) {
			return statuses[i+1]
		}
	}
	return ""
}

func (m *Model) initDetailViewport() {
	width := m.width - 8
	height := m.height - 6
	if width < 40 {
		width = 40
	}
	if height < 10 {
		height = 10
	}
	m.detail = viewport.New(width, height)
	m.detail.SetContent(m.detailContent(width))
}

func (m *Model) detailContent(width int) string {
	task := m.SelectedTask()
	if task == nil {
		return "No task selected"
	}

	now := m.deps.Clock.Now()
	overdue := task.IsOverdue(now)
	due := task.DueLabel()
	if overdue {
		due += " (overdue)"
	}

	row := func(label, value string, style lipgloss.Style) string {
		return m.styles.DetailLabel.Render(label) + style.Render(value)
	}

	lines := []string{
		m.styles.DetailTitle.Render(task.Title),
		m.styles.Footer.Render(task.ID),
		"",
		row("Status", StatusIcon(task.Status)+" "+task.Status.Display(), m.styles.StatusStyle(task.Status)),
		row("Due", due, m.styles.DueStyle(task, overdue)),
		row("Created", task.CreatedAt.Local().Format("2006-01-02 15:04"), m.styles.DetailValue),
	}
	if task.UpdatedAt != nil {
		lines = append(lines, row("Updated", task.UpdatedAt.Local().Format("2006-01-02 15:04"), m.styles.DetailValue))
	}
	if desc := m.markdown.render(task.Description, width); desc != "" {
		lines = append(lines, "", desc)
	}
	return strings.Join(lines, "\n")
}
