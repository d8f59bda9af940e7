// Package styles provides Lip Gloss styles for the TUI.
package styles

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/tuidoist/internal/colors"
)

// Terminal-adaptive colors that work in both light and dark terminals.
var (
	// Subtle is a muted color for secondary text
	Subtle = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}

	// Highlight is the accent color for selected items
	Highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#DC4C3E"}

	ErrorColor   = lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF6666"}
	SuccessColor = lipgloss.AdaptiveColor{Light: "#00AA00", Dark: "#66FF66"}

	barBackground = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#1F1F1F"}
)

// Priority colors (P1=red, P2=orange, P3=blue, P4=default)
var (
	Priority1Color = lipgloss.Color("#D0473D")
	Priority2Color = lipgloss.Color("#EA8811")
	Priority3Color = lipgloss.Color("#296FDF")
)

var (
	// Title is the header line
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Highlight)

	Subtitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Subtle)

	Empty = lipgloss.NewStyle().
		Foreground(Subtle).
		Italic(true).
		PaddingLeft(1)
)

// PriorityStyle returns the style for an API priority (4 = urgent).
func PriorityStyle(priority int) lipgloss.Style {
	switch priority {
	case 4:
		return lipgloss.NewStyle().Foreground(Priority1Color).Bold(true)
	case 3:
		return lipgloss.NewStyle().Foreground(Priority2Color)
	case 2:
		return lipgloss.NewStyle().Foreground(Priority3Color)
	default:
		return lipgloss.NewStyle()
	}
}

// Chip renders text on the Todoist color named color, with a readable
// foreground. Unknown colors use the default Todoist color.
func Chip(text, color string) string {
	hex := colors.HexOrDefault(color)
	return lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Foreground(lipgloss.Color(colors.Contrast(hex))).
		Padding(0, 1).
		Render(text)
}

// Dot renders "● text" with the dot in the Todoist color.
func Dot(text, color string) string {
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(colors.HexOrDefault(color))).Render("●")
	return dot + " " + text
}

// StatusBar styles
var (
	StatusBar = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}).
			Background(barBackground).
			Padding(0, 1)

	StatusBarError = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Background(barBackground).
			Bold(true).
			Padding(0, 1)

	StatusBarSuccess = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Background(barBackground).
				Bold(true).
				Padding(0, 1)
)

// Dialog styles
var (
	Dialog = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Highlight).
		Padding(1, 2)

	DialogTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight).
			MarginBottom(1)

	DialogHint = lipgloss.NewStyle().
			Foreground(Subtle).
			MarginTop(1)

	PickerCursor = lipgloss.NewStyle().
			Foreground(Highlight).
			Bold(true)
)

// Task detail styles
var (
	DetailPane = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Subtle).
			Padding(0, 1)

	DetailLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(Subtle).
			Width(10)

	DetailDescription = lipgloss.NewStyle().
				Italic(true)
)

var Spinner = lipgloss.NewStyle().
	Foreground(Highlight)

// Table returns the task table styles.
func Table() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Subtle).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(colors.HexOrDefault("berry_red"))).
		Bold(false)
	return s
}
