package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/tuidoist/internal/tui/styles"
)

// Prompt is a single-line text dialog.
type Prompt struct {
	title string
	hint  string
	input textinput.Model
	width int
}

// NewPrompt creates a focused prompt prefilled with value.
func NewPrompt(title, placeholder, value, hint string) *Prompt {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 500
	input.Width = 50
	input.SetValue(value)
	input.CursorEnd()
	input.Focus()

	return &Prompt{title: title, hint: hint, input: input}
}

// Value returns the current text.
func (p *Prompt) Value() string {
	return p.input.Value()
}

// Update implements Component.
func (p *Prompt) Update(msg tea.Msg) (Component, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			return p, emit(SubmittedMsg{Value: strings.TrimSpace(p.input.Value())})
		case tea.KeyEsc:
			return p, emit(DialogCancelledMsg{})
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// View implements Component.
func (p *Prompt) View() string {
	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render(p.title))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	if p.hint != "" {
		b.WriteString("\n")
		b.WriteString(styles.DialogHint.Render(p.hint))
	}

	style := styles.Dialog
	if p.width > 0 {
		style = style.Width(min(p.width-4, 70))
	}
	return style.Render(b.String())
}

// SetSize implements Component.
func (p *Prompt) SetSize(width, _ int) {
	p.width = width
	p.input.Width = max(min(width-12, 62), 10)
}

// Confirm is a yes/no dialog.
type Confirm struct {
	question string
	width    int
}

// NewConfirm creates a yes/no dialog.
func NewConfirm(question string) *Confirm {
	return &Confirm{question: question}
}

// Update implements Component.
func (c *Confirm) Update(msg tea.Msg) (Component, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	switch key.String() {
	case "y", "Y", "enter":
		return c, emit(ConfirmedMsg{Yes: true})
	case "n", "N", "esc", "q":
		return c, emit(ConfirmedMsg{Yes: false})
	}
	return c, nil
}

// View implements Component.
func (c *Confirm) View() string {
	body := styles.DialogTitle.Render(c.question) + "\n" + styles.DialogHint.Render("y: yes • n: no")
	style := styles.Dialog
	if c.width > 0 {
		style = style.Width(min(c.width-4, 60))
	}
	return style.Render(body)
}

// SetSize implements Component.
func (c *Confirm) SetSize(width, _ int) {
	c.width = width
}
