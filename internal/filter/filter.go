// Package filter decides which tasks are shown for a filter selection.
//
// Built-in filters (today, overdue, this week) are evaluated locally against
// the cached task snapshot. Any other selector is a user-defined query that
// the server evaluates.
package filter

import (
	"strings"

	"github.com/hy4ri/tuidoist/internal/api"
)

// Kind classifies a filter selection.
type Kind int

const (
	Unfiltered Kind = iota
	Today
	Overdue
	ThisWeek
	UserDefined
)

func (k Kind) String() string {
	switch k {
	case Unfiltered:
		return "all"
	case Today:
		return "today"
	case Overdue:
		return "overdue"
	case ThisWeek:
		return "7_days"
	case UserDefined:
		return "user"
	}
	return "unknown"
}

// Selector is a parsed filter selection.
type Selector struct {
	Kind Kind
	// Query is the opaque string sent to the server. Only set for UserDefined.
	Query string
	// Name is what the title bar shows.
	Name string
	// FilterID is set when the selection matched a saved filter.
	FilterID string
}

// All is the unfiltered selection.
var All = Selector{Kind: Unfiltered, Name: "All Tasks"}

var builtinAliases = map[string]Kind{
	"":            Unfiltered,
	"all":         Unfiltered,
	"today":       Today,
	"overdue":     Overdue,
	"7 days":      ThisWeek,
	"7_days":      ThisWeek,
	"this_week":   ThisWeek,
	"this week":   ThisWeek,
	"next 7 days": ThisWeek,
}

var builtinNames = map[Kind]string{
	Unfiltered: "All Tasks",
	Today:      "Today",
	Overdue:    "Overdue",
	ThisWeek:   "Next 7 Days",
}

// Parse classifies raw. Built-in keywords win; then a saved filter matched by
// id or case-insensitive name. Anything else is forwarded to the server
// verbatim as a query, never rejected here.
func Parse(raw string, saved []api.Filter) Selector {
	key := strings.ToLower(strings.TrimSpace(raw))
	if kind, ok := builtinAliases[key]; ok {
		return Selector{Kind: kind, Name: builtinNames[kind]}
	}

	for _, f := range saved {
		if f.ID == raw || strings.EqualFold(f.Name, strings.TrimSpace(raw)) {
			return Selector{Kind: UserDefined, Query: f.Query, Name: f.Name, FilterID: f.ID}
		}
	}

	query := strings.TrimSpace(raw)
	return Selector{Kind: UserDefined, Query: query, Name: query}
}

// Remote reports whether the selection needs a server-side filter query.
func (s Selector) Remote() bool {
	return s.Kind == UserDefined
}

// IsAll reports whether nothing is filtered.
func (s Selector) IsAll() bool {
	return s.Kind == Unfiltered
}

// Row is one entry of the filter dialog.
type Row struct {
	ID      string
	Name    string
	Color   string
	BuiltIn bool
}

// Rows lists the built-in filters followed by the saved ones in server order.
func Rows(saved []api.Filter) []Row {
	rows := []Row{
		{ID: "all", Name: "All Tasks", Color: "charcoal", BuiltIn: true},
		{ID: "today", Name: "Today", Color: "orange", BuiltIn: true},
		{ID: "7_days", Name: "Next 7 Days", Color: "blue", BuiltIn: true},
		{ID: "overdue", Name: "Overdue", Color: "red", BuiltIn: true},
	}
	for _, f := range saved {
		rows = append(rows, Row{ID: f.ID, Name: f.Name, Color: f.Color})
	}
	return rows
}
