// Package cache mirrors the remote Todoist collections in memory.
//
// Each collection is published as an immutable snapshot together with its
// lookup indices, so a reader never sees a collection paired with indices
// built from a different fetch. Writes go through Replace, Upsert and
// Remove only.
package cache

import (
	"github.com/hy4ri/tuidoist/internal/api"
)

// Kind names one of the cached collections.
type Kind int

const (
	Projects Kind = iota
	Labels
	Filters
	Tasks
)

func (k Kind) String() string {
	switch k {
	case Projects:
		return "projects"
	case Labels:
		return "labels"
	case Filters:
		return "filters"
	case Tasks:
		return "tasks"
	}
	return "unknown"
}

// UnknownProject is shown for a project id missing from the cache.
const UnknownProject = "Unknown Project"

// UnknownTask is shown for a task id missing from the cache.
const UnknownTask = "Unknown Task"

// Store holds the latest snapshot of every collection.
type Store struct {
	Projects *Collection[api.Project]
	Labels   *Collection[api.Label]
	Filters  *Collection[api.Filter]
	Tasks    *Collection[api.Task]
}

// New creates an empty store.
func New() *Store {
	return &Store{
		Projects: NewCollection(Keys[api.Project]{
			ID:    func(p api.Project) string { return p.ID },
			Name:  func(p api.Project) string { return p.Name },
			Color: func(p api.Project) string { return p.Color },
		}),
		Labels: NewCollection(Keys[api.Label]{
			ID:    func(l api.Label) string { return l.ID },
			Name:  func(l api.Label) string { return l.Name },
			Color: func(l api.Label) string { return l.Color },
		}),
		Filters: NewCollection(Keys[api.Filter]{
			ID:    func(f api.Filter) string { return f.ID },
			Name:  func(f api.Filter) string { return f.Name },
			Color: func(f api.Filter) string { return f.Color },
		}),
		Tasks: NewCollection(Keys[api.Task]{
			ID:   func(t api.Task) string { return t.ID },
			Name: func(t api.Task) string { return t.Content },
		}),
	}
}

// Name returns the display name for id in the given collection.
// It never fails: a missing project reads "Unknown Project", a missing task
// "Unknown Task", and a missing label or filter falls back to the id itself.
func (s *Store) Name(kind Kind, id string) string {
	switch kind {
	case Projects:
		if name, ok := s.Projects.Name(id); ok {
			return name
		}
		return UnknownProject
	case Labels:
		return s.LabelName(id)
	case Filters:
		if name, ok := s.Filters.Name(id); ok {
			return name
		}
		return id
	case Tasks:
		if name, ok := s.Tasks.Name(id); ok {
			return name
		}
		return UnknownTask
	}
	return id
}

// Color returns the Todoist color name for id, or false when there is none.
// Callers render the default style on false.
func (s *Store) Color(kind Kind, id string) (string, bool) {
	switch kind {
	case Projects:
		return s.Projects.Color(id)
	case Labels:
		return s.LabelColor(id)
	case Filters:
		return s.Filters.Color(id)
	}
	return "", false
}

// ProjectName is Name(Projects, id).
func (s *Store) ProjectName(id string) string {
	return s.Name(Projects, id)
}

// LabelName resolves a label reference. Tasks reference labels by name, so
// the identifier is tried as an id first and then as a name; the canonical
// casing is returned. Unknown labels read as the identifier itself.
func (s *Store) LabelName(identifier string) string {
	v := s.Labels.Snapshot()
	if name, ok := v.Name(identifier); ok {
		return name
	}
	if id, ok := v.IDByName(identifier); ok {
		if name, ok := v.Name(id); ok {
			return name
		}
	}
	return identifier
}

// LabelColor resolves a label reference by id, then by name.
func (s *Store) LabelColor(identifier string) (string, bool) {
	v := s.Labels.Snapshot()
	if color, ok := v.Color(identifier); ok {
		return color, true
	}
	if id, ok := v.IDByName(identifier); ok {
		return v.Color(id)
	}
	return "", false
}

// Counts returns the number of cached entities per collection.
func (s *Store) Counts() map[Kind]int {
	return map[Kind]int{
		Projects: s.Projects.Len(),
		Labels:   s.Labels.Len(),
		Filters:  s.Filters.Len(),
		Tasks:    s.Tasks.Len(),
	}
}
