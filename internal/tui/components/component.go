// Package components provides the widgets the task screen is built from.
package components

import tea "github.com/charmbracelet/bubbletea"

// Component is a sub-model that handles a specific part of the UI.
// Each component manages its own state, handles relevant messages,
// and renders its own view.
type Component interface {
	Update(msg tea.Msg) (Component, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// DialogCancelledMsg is emitted when a modal is dismissed with esc.
type DialogCancelledMsg struct{}

// PickedMsg is emitted when a picker is confirmed. Single-choice pickers
// report one id; multi-choice pickers report every checked id in order.
type PickedMsg struct {
	IDs []string
}

// SubmittedMsg is emitted when a prompt is confirmed.
type SubmittedMsg struct {
	Value string
}

// ConfirmedMsg is emitted when a yes/no dialog is answered.
type ConfirmedMsg struct {
	Yes bool
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
