package reconcile

import (
	"github.com/hy4ri/tuidoist/internal/api"
	"github.com/hy4ri/tuidoist/internal/cache"
	"github.com/hy4ri/tuidoist/internal/filter"
)

// MetaFetchedMsg carries one projects, labels and filters fetch.
// Errs holds the collections that failed; their cache is left alone.
type MetaFetchedMsg struct {
	Gen      uint64
	Projects []api.Project
	Labels   []api.Label
	Filters  []api.Filter
	Errs     map[cache.Kind]error
}

// TasksFetchedMsg carries one task fetch for a selection.
type TasksFetchedMsg struct {
	Gen      uint64
	Selector filter.Selector

	Tasks    []api.Task
	TasksErr error

	// Result and FilterErr are only set for server-side queries.
	Result    *api.FilterResult
	FilterErr error
}

// MutationMsg reports the outcome of a task or label change.
type MutationMsg struct {
	Op     Op
	TaskID string
	Label  *api.Label
	// Changed is set when the server state changed even though Err is set,
	// as when an edit was saved but the follow-up move failed.
	Changed bool
	Err     error
}

// FailureMsg asks the display to notify the user. Silent failures only ring
// the bell.
type FailureMsg struct {
	Op     string
	Err    error
	Silent bool
}

// StatusMsg is a transient confirmation for the status bar.
type StatusMsg struct {
	Text string
}
