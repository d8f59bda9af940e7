package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the task screen bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Refresh  key.Binding
	Complete key.Binding
	Delete   key.Binding
	Add      key.Binding
	Edit     key.Binding
	Move     key.Binding
	Labels   key.Binding
	Project  key.Binding
	Filter   key.Binding
	Priority key.Binding
	Clear    key.Binding
	Details  key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the bindings. Without vim mode j/k/g/G are left
// free and only the arrow and home/end keys navigate.
func DefaultKeyMap(vim bool) KeyMap {
	up, down, top, bottom := []string{"up"}, []string{"down"}, []string{"home"}, []string{"end"}
	upHelp, downHelp, topHelp, bottomHelp := "↑", "↓", "home", "end"
	if vim {
		up, down = append(up, "k"), append(down, "j")
		top, bottom = append(top, "g"), append(bottom, "G")
		upHelp, downHelp, topHelp, bottomHelp = "k/↑", "j/↓", "g", "G"
	}

	return KeyMap{
		Up:       key.NewBinding(key.WithKeys(up...), key.WithHelp(upHelp, "up")),
		Down:     key.NewBinding(key.WithKeys(down...), key.WithHelp(downHelp, "down")),
		Top:      key.NewBinding(key.WithKeys(top...), key.WithHelp(topHelp, "top")),
		Bottom:   key.NewBinding(key.WithKeys(bottom...), key.WithHelp(bottomHelp, "bottom")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Complete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "complete")),
		Delete:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Move:     key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "move")),
		Labels:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "labels")),
		Project:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "project")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Priority: key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "priority")),
		Clear:    key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "clear priority")),
		Details:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "details")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Complete, k.Edit, k.Filter, k.Project, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Details, k.Copy},
		{k.Add, k.Edit, k.Complete, k.Delete, k.Priority, k.Clear},
		{k.Move, k.Labels, k.Project, k.Filter, k.Refresh},
		{k.Help, k.Quit},
	}
}
