package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/todo/internal/domain"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = msg.Width - 10
		m.taskList.SetSize(msg.Width-4, m.listHeight())
		if m.form != nil {
			m.form.setWidth(m.formWidth())
		}
		if m.mode == ModeDetail {
			m.initDetailViewport()
		}
		return m, nil

	case MsgTasksFetched:
		if m.ctl.Apply(msg.Resp) {
			m.syncList()
			m.refreshDelegate()
		}
		return m, nil

	case MsgCountFetched:
		if r, _ := m.ctl.ApplyCount(msg.Resp); r != nil {
			return m, m.run(*r)
		}
		return m, nil

	case MsgTaskDeleted:
		r, ok := m.ctl.ApplyDelete(msg.ID, msg.Err)
		if !ok {
			return m, nil
		}
		m.notice = "Deleted task " + msg.ID
		return m, m.run(r)

	case MsgTaskSaved:
		m.form = nil
		m.mode = ModeNormal
		if msg.Created {
			m.notice = "Created task " + msg.Task.ID
		} else {
			m.notice = "Updated task " + msg.Task.ID
		}
		return m, m.run(m.ctl.Reload())

	case MsgFormError:
		if m.form != nil {
			m.form.err = msg.Err
			return m, nil
		}
		m.err = msg.Err
		return m, nil

	case MsgEditLoaded:
		m.form = newTaskForm(msg.Task)
		m.form.setWidth(m.formWidth())
		m.mode = ModeForm
		return m, m.form.focusField(fieldTitle)

	case MsgDarkModeToggled:
		if msg.Seq != m.themeSeq {
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Warn("save preferences failed", "error", msg.Err)
			m.err = msg.Err
		}
		return m, nil

	case MsgError:
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey handles keyboard input based on current mode.
// Any key press dismisses the last error.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.clearErr()

	switch m.mode {
	case ModeNormal:
		return m.handleNormalMode(msg)
	case ModeSearch:
		return m.handleSearchMode(msg)
	case ModeConfirm:
		return m.handleConfirmMode(msg)
	case ModeForm:
		return m.handleFormMode(msg)
	case ModeMove:
		return m.handleMoveMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	case ModeDetail:
		return m.handleDetailMode(msg)
	}

	return m, nil
}

// handleNormalMode handles keys in normal navigation mode.
func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		if m.ctl.View().Search != "" {
			m.search.SetValue("")
			return m, m.run(m.ctl.SetSearch(""))
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if r, ok := m.ctl.PrevPage(); ok {
			return m, m.run(r)
		}
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		if r, ok := m.ctl.NextPage(); ok {
			return m, m.run(r)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.run(m.ctl.Reload())

	case key.Matches(msg, m.keys.Status):
		return m, m.run(m.ctl.SetStatus(nextStatusFilter(m.ctl.View().Status)))

	case key.Matches(msg, m.keys.Overdue):
		return m, m.run(m.ctl.SetOverdue(!m.ctl.View().Overdue))

	case key.Matches(msg, m.keys.Limit):
		r, err := m.ctl.SetLimit(domain.NextLimit(m.ctl.View().Limit))
		if err != nil {
			m.err = err
			return m, nil
		}
		return m, m.run(r)

	case key.Matches(msg, m.keys.Search):
		m.mode = ModeSearch
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Theme):
		return m, m.toggleDarkMode()

	case key.Matches(msg, m.keys.New):
		m.form = newTaskForm(nil)
		m.form.setWidth(m.formWidth())
		m.mode = ModeForm
		return m, m.form.focusField(fieldTitle)

	case key.Matches(msg, m.keys.Edit):
		if task := m.SelectedTask(); task != nil {
			return m, m.loadForEdit(task.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		return m.requestDelete()

	case key.Matches(msg, m.keys.Detail):
		if m.SelectedTask() != nil {
			m.mode = ModeDetail
			m.initDetailViewport()
		}
		return m, nil

	case key.Matches(msg, m.keys.Move):
		if m.SelectedTask() != nil {
			m.moveFrom = m.taskList.Index()
			m.mode = ModeMove
			m.refreshDelegate()
		}
		return m, nil

	case key.Matches(msg, m.keys.MoveUp):
		m.moveSelected(-1)
		return m, nil

	case key.Matches(msg, m.keys.MoveDown):
		m.moveSelected(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

// requestDelete opens the confirmation for the selected task.
func (m *Model) requestDelete() (tea.Model, tea.Cmd) {
	task := m.SelectedTask()
	if task == nil {
		return m, nil
	}
	if err := m.ctl.RequestDelete(task.ID); err != nil {
		m.err = err
		return m, nil
	}
	m.mode = ModeConfirm
	return m, nil
}

// moveSelected swaps the selected task with its neighbour in direction delta
// and keeps it selected.
func (m *Model) moveSelected(delta int) bool {
	from := m.taskList.Index()
	to := from + delta
	if !m.ctl.Reorder(from, to) {
		return false
	}
	m.syncList()
	m.taskList.Select(to)
	m.refreshDelegate()
	return true
}

// handleSearchMode applies the search text as it is typed.
func (m *Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.search.Blur()
		m.mode = ModeNormal
		return m, nil
	case tea.KeyEsc:
		m.search.Blur()
		m.search.SetValue("")
		m.mode = ModeNormal
		if m.ctl.View().Search != "" {
			return m, m.run(m.ctl.SetSearch(""))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.ctl.View().Search {
		return m, tea.Batch(cmd, m.run(m.ctl.SetSearch(q)))
	}
	return m, cmd
}

// handleConfirmMode handles the delete confirmation dialog.
func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.mode = ModeNormal
		id, err := m.ctl.ConfirmDelete()
		if err != nil {
			m.err = err
			return m, nil
		}
		return m, m.deleteTask(id)

	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.ctl.CancelDelete()
		m.mode = ModeNormal
		return m, nil
	}
	return m, nil
}

// handleFormMode routes keys to the form.
func (m *Model) handleFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = ModeNormal
		return m, nil
	}
	if msg.Type == tea.KeyEsc {
		m.form = nil
		m.mode = ModeNormal
		return m, nil
	}

	submit, cmd := m.form.update(msg, m.keys)
	if submit {
		m.form.err = nil
		return m, m.saveForm(m.form)
	}
	return m, cmd
}

// handleMoveMode moves the picked-up task with the cursor.
func (m *Model) handleMoveMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.MoveUp):
		m.moveSelected(-1)
	case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.MoveDown):
		m.moveSelected(1)
	case key.Matches(msg, m.keys.Move), msg.Type == tea.KeyEnter:
		m.mode = ModeNormal
		m.moveFrom = -1
		m.refreshDelegate()
	case key.Matches(msg, m.keys.Escape):
		// Put it back where it was picked up.
		if cur := m.taskList.Index(); m.moveFrom >= 0 && cur != m.moveFrom {
			m.ctl.Reorder(cur, m.moveFrom)
			m.syncList()
			m.taskList.Select(m.moveFrom)
		}
		m.mode = ModeNormal
		m.moveFrom = -1
		m.refreshDelegate()
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

// handleHelpMode closes help on any key.
func (m *Model) handleHelpMode(_ tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	return m, nil
}

// handleDetailMode handles keys in the detail view.
func (m *Model) handleDetailMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Detail):
		m.mode = ModeNormal
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		task := m.SelectedTask()
		m.mode = ModeNormal
		if task != nil {
			return m, m.loadForEdit(task.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// listHeight is the room left for the list after header and footer.
func (m *Model) listHeight() int {
	h := m.height - 7
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) formWidth() int {
	w := m.width - 12
	if w > 70 {
		w = 70
	}
	return w
}
