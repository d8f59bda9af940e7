package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/tuidoist/internal/api"
	"github.com/hy4ri/tuidoist/internal/colors"
	"github.com/hy4ri/tuidoist/internal/filter"
	"github.com/hy4ri/tuidoist/internal/reconcile"
	"github.com/hy4ri/tuidoist/internal/tui/components"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.Busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case reconcile.FailureMsg:
		return m, m.handleFailure(msg)

	case reconcile.StatusMsg:
		return m, m.setStatus(msg.Text, false)

	case components.DialogCancelledMsg:
		if m.mode == modeNewLabel {
			m.openLabels(nil)
			return m, nil
		}
		m.closeDialog()
		return m, nil

	case components.PickedMsg:
		return m, m.handlePicked(msg.IDs)

	case components.SubmittedMsg:
		return m, m.handleSubmitted(msg.Value)

	case components.ConfirmedMsg:
		id := m.target
		m.closeDialog()
		if msg.Yes {
			return m, m.ctrl.Delete(id)
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	if cmd, ok := m.ctrl.Handle(msg); ok {
		m.sync()
		if m.mode == modeLabels {
			m.refreshLabelPicker()
		}
		return m, m.track(cmd)
	}
	return m, nil
}

func (m *Model) handleFailure(msg reconcile.FailureMsg) tea.Cmd {
	cmds := []tea.Cmd{m.ring()}
	if !msg.Silent {
		text := api.Describe(msg.Err)
		if msg.Op != "" {
			text = fmt.Sprintf("Failed to %s: %s", msg.Op, text)
		}
		cmds = append(cmds, m.setStatus(text, true))
	}
	m.log.WithError(msg.Err).Debugw("failure shown", "op", msg.Op, "silent", msg.Silent)
	return tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		m.ctrl.Close()
		return tea.Quit
	}

	switch m.mode {
	case modeNormal:
		return m.handleNormalKey(msg)
	case modeHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Quit) || msg.Type == tea.KeyEsc {
			m.mode = modeNormal
			m.help.ShowAll = false
		}
		return nil
	case modeLabels:
		if msg.String() == "n" {
			m.pendingLabels = m.checkedLabels()
			m.mode = modeNewLabel
			m.dialog = components.NewPrompt("New label", "name [color]", "",
				"e.g. urgent red • enter: create • esc: back")
			m.dialog.SetSize(m.width, m.height)
			return nil
		}
	case modeFilter:
		if msg.String() == "/" {
			m.mode = modeQuery
			m.dialog = components.NewPrompt("Filter query", "p1 & #Work", "",
				"any Todoist filter query • enter: apply • esc: cancel")
			m.dialog.SetSize(m.width, m.height)
			return nil
		}
	}

	if m.dialog == nil {
		m.mode = modeNormal
		return nil
	}
	var cmd tea.Cmd
	m.dialog, cmd = m.dialog.Update(msg)
	return cmd
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	task := m.table.Selected()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Close()
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
		m.help.ShowAll = true
		return nil

	case key.Matches(msg, m.keys.Refresh):
		return m.track(m.ctrl.Refresh())

	case key.Matches(msg, m.keys.Up):
		m.table.Update(tea.KeyMsg{Type: tea.KeyUp})
	case key.Matches(msg, m.keys.Down):
		m.table.Update(tea.KeyMsg{Type: tea.KeyDown})
	case key.Matches(msg, m.keys.Top):
		m.table.Top()
	case key.Matches(msg, m.keys.Bottom):
		m.table.Bottom()

	case key.Matches(msg, m.keys.Details):
		m.showDetails = !m.showDetails
		m.layout()

	case key.Matches(msg, m.keys.Add):
		m.openPrompt(modeAdd, "", components.NewPrompt("Add task", "Buy milk tomorrow #Shopping @errand p1", "",
			"Todoist quick add syntax • enter: add • esc: cancel"))

	case key.Matches(msg, m.keys.Project):
		m.openProjectPicker()

	case key.Matches(msg, m.keys.Filter):
		m.openFilterPicker()

	default:
		if task == nil {
			if m.taskKey(msg) {
				return m.ring()
			}
			return nil
		}
		return m.handleTaskKey(msg, task)
	}

	m.detail.SetTask(m.table.Selected())
	return nil
}

// taskKey reports whether msg is bound to an action on the selected task.
func (m *Model) taskKey(msg tea.KeyMsg) bool {
	return key.Matches(msg, m.keys.Complete, m.keys.Delete, m.keys.Edit, m.keys.Move,
		m.keys.Labels, m.keys.Priority, m.keys.Clear, m.keys.Copy)
}

func (m *Model) handleTaskKey(msg tea.KeyMsg, task *api.Task) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Complete):
		return m.ctrl.Complete(task.ID)

	case key.Matches(msg, m.keys.Delete):
		m.openPrompt(modeConfirmDelete, task.ID,
			components.NewConfirm(fmt.Sprintf("Delete %q?", task.Content)))

	case key.Matches(msg, m.keys.Edit):
		m.openPrompt(modeEdit, task.ID, components.NewPrompt("Edit task", "content #project @label due",
			task.Content, "#project @label and dates like tomorrow • enter: save • esc: cancel"))

	case key.Matches(msg, m.keys.Move):
		m.openMovePicker(task)

	case key.Matches(msg, m.keys.Labels):
		m.target = task.ID
		m.openLabels(append([]string{}, task.Labels...))

	case key.Matches(msg, m.keys.Priority):
		return m.ctrl.SetPriority(task.ID, int(msg.Runes[0]-'0'))

	case key.Matches(msg, m.keys.Clear):
		return m.ctrl.SetPriority(task.ID, 0)

	case key.Matches(msg, m.keys.Copy):
		if err := m.copy(task.Content); err != nil {
			m.log.WithError(err).Warn("clipboard write failed")
			return tea.Batch(m.ring(), m.setStatus("Clipboard unavailable", true))
		}
		return m.setStatus("Copied to clipboard", false)
	}
	return nil
}

func (m *Model) openPrompt(md mode, target string, dialog components.Component) {
	m.mode = md
	m.target = target
	m.dialog = dialog
	m.dialog.SetSize(m.width, m.height)
}

func (m *Model) closeDialog() {
	m.mode = modeNormal
	m.dialog = nil
	m.target = ""
}

func (m *Model) openMovePicker(task *api.Task) {
	var items []components.PickerItem
	cursor := 0
	for i, p := range m.store.Projects.Items() {
		items = append(items, components.PickerItem{ID: p.ID, Title: p.Name, Color: p.Color})
		if p.ID == task.ProjectID {
			cursor = i
		}
	}
	picker := components.NewPicker("Move to project", items, false)
	for i := 0; i < cursor; i++ {
		picker.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	m.openPrompt(modeMove, task.ID, picker)
}

func (m *Model) openProjectPicker() {
	items := []components.PickerItem{{ID: "", Title: "All Projects", Color: colors.Default}}
	for _, p := range m.store.Projects.Items() {
		items = append(items, components.PickerItem{ID: p.ID, Title: p.Name, Color: p.Color})
	}
	m.openPrompt(modeProject, "", components.NewPicker("Select project", items, false))
}

func (m *Model) openFilterPicker() {
	var items []components.PickerItem
	for _, row := range filter.Rows(m.store.Filters.Items()) {
		items = append(items, components.PickerItem{ID: row.ID, Title: row.Name, Color: row.Color})
	}
	picker := components.NewPicker("Filters", items, false)
	picker.SetHint("enter: apply • /: custom query • esc: cancel")
	m.openPrompt(modeFilter, "", picker)
}

// openLabels shows the label picker for m.target. checked seeds the
// selection; nil keeps whatever the open picker had checked.
func (m *Model) openLabels(checked []string) {
	if checked == nil {
		checked = m.checkedLabels()
	}
	picker := components.NewPicker("Labels", m.labelItems(checked), true)
	picker.SetHint("space: toggle • n: new label • enter: save • esc: cancel")

	target := m.target
	m.openPrompt(modeLabels, target, picker)
	m.pendingLabels = checked
}

// refreshLabelPicker rebuilds the label rows after the cache changed.
func (m *Model) refreshLabelPicker() {
	picker, ok := m.dialog.(*components.Picker)
	if !ok {
		return
	}
	picker.SetItems(m.labelItems(picker.Checked()))
}

func (m *Model) checkedLabels() []string {
	if picker, ok := m.dialog.(*components.Picker); ok && m.mode == modeLabels {
		return picker.Checked()
	}
	return m.pendingLabels
}

// labelItems lists the cached labels plus any checked names the cache does
// not know, matching names case-insensitively.
func (m *Model) labelItems(checked []string) []components.PickerItem {
	isChecked := func(name string) bool {
		for _, c := range checked {
			if strings.EqualFold(c, name) {
				return true
			}
		}
		return false
	}

	var items []components.PickerItem
	known := map[string]bool{}
	for _, l := range m.store.Labels.Items() {
		known[strings.ToLower(l.Name)] = true
		items = append(items, components.PickerItem{ID: l.Name, Title: l.Name, Color: l.Color, Checked: isChecked(l.Name)})
	}
	for _, name := range checked {
		if !known[strings.ToLower(name)] {
			known[strings.ToLower(name)] = true
			items = append(items, components.PickerItem{ID: name, Title: name, Color: colors.Default, Checked: true})
		}
	}
	return items
}

func (m *Model) handlePicked(ids []string) tea.Cmd {
	target := m.target
	md := m.mode
	m.closeDialog()

	switch md {
	case modeMove:
		if len(ids) == 1 {
			return m.ctrl.Move(target, ids[0])
		}
	case modeLabels:
		m.pendingLabels = nil
		return m.ctrl.SetLabels(target, ids)
	case modeProject:
		if len(ids) == 1 {
			return m.track(m.ctrl.SelectProject(ids[0]))
		}
	case modeFilter:
		if len(ids) == 1 {
			return m.track(m.ctrl.Select(ids[0]))
		}
	}
	return nil
}

func (m *Model) handleSubmitted(value string) tea.Cmd {
	target := m.target
	md := m.mode

	if md == modeNewLabel {
		name, color := splitLabelInput(value)
		checked := m.pendingLabels
		if name != "" {
			checked = append(append([]string(nil), checked...), name)
		}
		m.openLabels(checked)
		if name == "" {
			return nil
		}
		return m.ctrl.CreateLabel(name, color)
	}

	m.closeDialog()
	if value == "" {
		return nil
	}

	switch md {
	case modeAdd:
		return m.ctrl.Add(value)
	case modeEdit:
		return m.ctrl.Edit(target, value)
	case modeQuery:
		return m.track(m.ctrl.Select(value))
	}
	return nil
}

// splitLabelInput reads "name [color]". A trailing word is taken as the
// color only when it names a Todoist color.
func splitLabelInput(value string) (name, color string) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return "", ""
	}
	if len(fields) > 1 && colors.IsKnown(fields[len(fields)-1]) {
		return strings.Join(fields[:len(fields)-1], " "), strings.ToLower(fields[len(fields)-1])
	}
	return strings.Join(fields, " "), colors.Default
}
