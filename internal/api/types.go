// Package api provides a client for the Todoist unified API v1.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Task represents a Todoist task.
type Task struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	SectionID   *string   `json:"section_id"`
	Content     string    `json:"content"`
	Description string    `json:"description"`
	Checked     bool      `json:"checked"`
	Labels      []string  `json:"labels"`
	ParentID    *string   `json:"parent_id"`
	Priority    int       `json:"priority"`
	Due         *Due      `json:"due"`
	Deadline    *Deadline `json:"deadline"`
	Duration    *Duration `json:"duration"`
	NoteCount   int       `json:"note_count"`
	AddedAt     string    `json:"added_at"`
	UpdatedAt   string    `json:"updated_at"`
	ChildOrder  int       `json:"child_order"`
}

// Due represents a task's due date information.
type Due struct {
	String      string  `json:"string"`
	Date        string  `json:"date"`
	IsRecurring bool    `json:"is_recurring"`
	Datetime    *string `json:"datetime"`
	Timezone    *string `json:"timezone"`
	Lang        string  `json:"lang"`
}

// Deadline is a hard date distinct from the due date.
type Deadline struct {
	Date string `json:"date"`
	Lang string `json:"lang"`
}

// Duration represents a task's duration.
type Duration struct {
	Amount int    `json:"amount"`
	Unit   string `json:"unit"` // "minute" or "day"
}

// String renders the duration as "30 minutes" or "1 day".
func (d *Duration) String() string {
	if d == nil {
		return ""
	}
	unit := d.Unit
	if d.Amount != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s", d.Amount, unit)
}

// Project represents a Todoist project.
type Project struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Color        string  `json:"color"`
	ParentID     *string `json:"parent_id"`
	ChildOrder   int     `json:"child_order"`
	IsShared     bool    `json:"is_shared"`
	IsFavorite   bool    `json:"is_favorite"`
	InboxProject bool    `json:"inbox_project"`
	ViewStyle    string  `json:"view_style"`
}

// Label represents a personal label.
type Label struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	ItemOrder  int    `json:"item_order"`
	IsFavorite bool   `json:"is_favorite"`
}

// UpdateTaskRequest represents the request body for updating a task.
// Nil fields are left unchanged by the server.
type UpdateTaskRequest struct {
	Content   *string  `json:"content,omitempty"`
	DueString *string  `json:"due_string,omitempty"`
	Labels    []string `json:"labels,omitempty"`
	Priority  *int     `json:"priority,omitempty"`
}

// CreateLabelRequest represents the request body for creating a label.
type CreateLabelRequest struct {
	Name       string `json:"name" validate:"required,max=60,excludesall=@#"`
	Color      string `json:"color,omitempty" validate:"omitempty,todoist_color"`
	IsFavorite bool   `json:"is_favorite,omitempty"`
}

// TaskFilter contains optional filters for listing tasks.
type TaskFilter struct {
	ProjectID string
	Label     string
	IDs       []string
}

// Page is one page of a paginated collection.
//
// Decoding also accepts a bare JSON array or an array nested one level deep;
// both normalize into Results with no cursor.
type Page[T any] struct {
	Results    []T     `json:"results"`
	NextCursor *string `json:"next_cursor"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		items, err := decodeList[T](data)
		if err != nil {
			return err
		}
		p.Results = items
		p.NextCursor = nil
		return nil
	}

	var raw struct {
		Results    json.RawMessage `json:"results"`
		NextCursor *string         `json:"next_cursor"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	items, err := decodeList[T](raw.Results)
	if err != nil {
		return err
	}
	p.Results = items
	p.NextCursor = raw.NextCursor
	return nil
}

// decodeList decodes [a, b] or [[a, b]] into a flat slice.
func decodeList[T any](data []byte) ([]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	inner := bytes.TrimSpace(data[1:])
	if len(inner) > 0 && inner[0] == '[' {
		var nested [][]T
		if err := json.Unmarshal(data, &nested); err != nil {
			return nil, err
		}
		var flat []T
		for _, batch := range nested {
			flat = append(flat, batch...)
		}
		return flat, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FilterItem is one element of a filter query response: either a full task
// or a bare task id.
type FilterItem struct {
	Task *Task
	ID   string
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FilterItem) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &f.ID)
	}
	var task Task
	if err := json.Unmarshal(data, &task); err != nil {
		return err
	}
	f.Task = &task
	f.ID = task.ID
	return nil
}

// FilterResult is the normalized answer to a filter query.
// When the server returned only identifiers, Tasks is empty and IDs is set.
type FilterResult struct {
	Tasks []Task
	IDs   []string
}

// IDsOnly reports whether the server returned identifiers without task bodies.
func (r *FilterResult) IDsOnly() bool {
	return len(r.Tasks) == 0 && len(r.IDs) > 0
}

// DueDay returns the calendar day the task is due, in loc.
// Both "2025-01-22" and "2025-01-22T15:00:00" forms are accepted.
func (t *Task) DueDay(loc *time.Location) (time.Time, bool) {
	if t.Due == nil || len(t.Due.Date) < len("2006-01-02") {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation("2006-01-02", t.Due.Date[:10], loc)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// PriorityLabel maps the API priority (4 = urgent) to the P1..P4 label users see.
func PriorityLabel(priority int) string {
	if priority < 1 || priority > 4 {
		priority = 1
	}
	return fmt.Sprintf("P%d", 5-priority)
}
