package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/tuidoist/internal/tui/components"
	"github.com/hy4ri/tuidoist/internal/tui/styles"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.mode == modeHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.dialog != nil {
		b.WriteString(components.Center(m.width, max(m.height-4, 5), m.dialog.View()))
	} else {
		b.WriteString(m.table.View())
		if m.showDetails {
			b.WriteString("\n")
			b.WriteString(m.detail.View())
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderHeader() string {
	title := styles.Title.Render(m.Title())
	if m.spinning && m.ctrl.Busy() {
		title += " " + m.spinner.View()
	}
	return title
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	style := styles.StatusBarSuccess
	if m.statusErr {
		style = styles.StatusBarError
	}
	return style.Render(m.status)
}

func (m *Model) renderHelp() string {
	body := styles.DialogTitle.Render("Keyboard Shortcuts") + "\n" +
		m.help.View(m.keys) + "\n" +
		styles.DialogHint.Render("Press ESC or ? to close")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, styles.Dialog.Render(body))
}
