package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/tuidoist/internal/tui/styles"
)

// PickerItem is one selectable row.
type PickerItem struct {
	ID      string
	Title   string
	Color   string
	Checked bool
}

// Picker is a modal list. In multi mode space toggles rows and enter
// confirms the checked set; otherwise enter picks the row under the cursor.
type Picker struct {
	title  string
	hint   string
	items  []PickerItem
	cursor int
	multi  bool

	width, height int
}

// NewPicker creates a picker over items.
func NewPicker(title string, items []PickerItem, multi bool) *Picker {
	p := &Picker{title: title, multi: multi, height: 12}
	p.SetItems(items)
	if multi {
		p.hint = "space: toggle • enter: save • esc: cancel"
	} else {
		p.hint = "enter: select • esc: cancel"
	}
	return p
}

// SetHint replaces the key hint under the list.
func (p *Picker) SetHint(hint string) {
	p.hint = hint
}

// SetItems replaces the rows, keeping the cursor in range.
func (p *Picker) SetItems(items []PickerItem) {
	p.items = append([]PickerItem(nil), items...)
	if p.cursor >= len(p.items) {
		p.cursor = len(p.items) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// Items returns the rows with their current checked state.
func (p *Picker) Items() []PickerItem {
	return append([]PickerItem(nil), p.items...)
}

// Cursor returns the highlighted row index.
func (p *Picker) Cursor() int {
	return p.cursor
}

// Checked returns the ids of the checked rows in list order.
func (p *Picker) Checked() []string {
	var ids []string
	for _, item := range p.items {
		if item.Checked {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// Update implements Component.
func (p *Picker) Update(msg tea.Msg) (Component, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch key.String() {
	case "up", "k", "ctrl+p":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j", "ctrl+n":
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}
	case "g", "home":
		p.cursor = 0
	case "G", "end":
		if len(p.items) > 0 {
			p.cursor = len(p.items) - 1
		}
	case " ", "x":
		if p.multi && len(p.items) > 0 {
			p.items[p.cursor].Checked = !p.items[p.cursor].Checked
		}
	case "enter":
		if p.multi {
			return p, emit(PickedMsg{IDs: p.Checked()})
		}
		if len(p.items) == 0 {
			return p, nil
		}
		return p, emit(PickedMsg{IDs: []string{p.items[p.cursor].ID}})
	case "esc", "q":
		return p, emit(DialogCancelledMsg{})
	}
	return p, nil
}

// View implements Component.
func (p *Picker) View() string {
	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render(p.title))
	b.WriteString("\n")

	if len(p.items) == 0 {
		b.WriteString(styles.Empty.Render("Nothing to choose from"))
	}

	// window the list around the cursor
	visible := p.height
	if visible < 3 {
		visible = 3
	}
	start := 0
	if p.cursor >= visible {
		start = p.cursor - visible + 1
	}
	end := start + visible
	if end > len(p.items) {
		end = len(p.items)
	}

	for i := start; i < end; i++ {
		item := p.items[i]
		cursor := "  "
		if i == p.cursor {
			cursor = styles.PickerCursor.Render("> ")
		}
		box := ""
		if p.multi {
			box = "[ ] "
			if item.Checked {
				box = "[x] "
			}
		}
		b.WriteString(cursor + box + styles.Dot(item.Title, item.Color))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.DialogHint.Render(p.hint))

	style := styles.Dialog
	if p.width > 0 {
		style = style.Width(min(p.width-4, 60))
	}
	return style.Render(b.String())
}

// SetSize implements Component.
func (p *Picker) SetSize(width, height int) {
	p.width = width
	p.height = max(height-10, 3)
}

// Center places a dialog in the middle of a width x height area.
func Center(width, height int, dialog string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, dialog)
}
