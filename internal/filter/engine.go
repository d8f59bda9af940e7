package filter

import (
	"time"

	"github.com/hy4ri/tuidoist/internal/api"
)

// Clock returns the current time. Only its calendar date and location matter.
type Clock func() time.Time

// Engine evaluates selections against a task snapshot.
type Engine struct {
	now Clock
}

// NewEngine creates an engine reading the date from now, or time.Now if nil.
func NewEngine(now Clock) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// today returns local midnight of the current date.
func (e *Engine) today() time.Time {
	n := e.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
}

// Week returns the Monday and Sunday bounding the current date.
func (e *Engine) Week() (time.Time, time.Time) {
	today := e.today()
	offset := (int(today.Weekday()) + 6) % 7
	start := today.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// Match evaluates a built-in kind for one task. Tasks without a due date
// never match a date predicate. UserDefined always matches since the server
// already applied it.
func (e *Engine) Match(kind Kind, task *api.Task) bool {
	switch kind {
	case Unfiltered, UserDefined:
		return true
	}

	today := e.today()
	day, ok := task.DueDay(today.Location())
	if !ok {
		return false
	}

	switch kind {
	case Today:
		return day.Equal(today)
	case Overdue:
		return day.Before(today)
	case ThisWeek:
		start, end := e.Week()
		return !day.Before(start) && !day.After(end)
	}
	return false
}

// Apply returns the tasks to render for sel, keeping snapshot order.
// A non-empty projectID restricts the result to that project.
func (e *Engine) Apply(sel Selector, tasks []api.Task, projectID string) []api.Task {
	out := make([]api.Task, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		if projectID != "" && t.ProjectID != projectID {
			continue
		}
		if !e.Match(sel.Kind, t) {
			continue
		}
		out = append(out, *t)
	}
	return out
}

// Intersect keeps the tasks of full whose ids appear in ids, in ids order.
// Ids missing from full are dropped.
func Intersect(ids []string, full []api.Task) []api.Task {
	byID := make(map[string]int, len(full))
	for i, t := range full {
		byID[t.ID] = i
	}

	out := make([]api.Task, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		i, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, full[i])
	}
	return out
}

// Materialize turns a server filter answer into tasks. When the server sent
// only identifiers they are resolved against full.
func Materialize(res *api.FilterResult, full []api.Task) []api.Task {
	if res == nil {
		return nil
	}
	if res.IDsOnly() {
		return Intersect(res.IDs, full)
	}
	return res.Tasks
}
