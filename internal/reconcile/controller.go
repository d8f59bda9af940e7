// Package reconcile keeps the cache in step with Todoist.
//
// The controller is owned by the Bubble Tea update loop. Fetches and
// mutations run as tea.Cmds that only talk to the remote; their results come
// back as messages and are applied to the cache by Handle, on the update
// goroutine. Each cache region has at most one fetch in flight. Requests
// made while a region is busy are queued and coalesced, and a result is only
// applied when it belongs to the newest fetch started for its region.
package reconcile

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/tuidoist/internal/api"
	"github.com/hy4ri/tuidoist/internal/cache"
	"github.com/hy4ri/tuidoist/internal/filter"
	"github.com/hy4ri/tuidoist/internal/logging"
)

// DefaultTimeout bounds one fetch or mutation round.
const DefaultTimeout = 30 * time.Second

// Remote is the part of the Todoist client the controller drives.
type Remote interface {
	Initialized() bool
	GetProjects(ctx context.Context) ([]api.Project, error)
	GetLabels(ctx context.Context) ([]api.Label, error)
	GetFilters(ctx context.Context) ([]api.Filter, error)
	GetTasks(ctx context.Context, filter api.TaskFilter) ([]api.Task, error)
	FilterTasks(ctx context.Context, query string) (*api.FilterResult, error)
	CloseTask(ctx context.Context, id string) error
	DeleteTask(ctx context.Context, id string) error
	QuickAddTask(ctx context.Context, text string) (*api.Task, error)
	UpdateTask(ctx context.Context, id string, req api.UpdateTaskRequest) (*api.Task, error)
	SetTaskLabels(ctx context.Context, id string, labels []string) (*api.Task, error)
	MoveTask(ctx context.Context, id, projectID string) error
	CreateLabel(ctx context.Context, req api.CreateLabelRequest) (*api.Label, error)
}

var _ Remote = (*api.Client)(nil)

// Region is a group of collections fetched together.
type Region int

const (
	// RegionMeta covers projects, labels and filters.
	RegionMeta Region = iota
	// RegionTasks covers the task list and the active filter query.
	RegionTasks
	numRegions
)

func (r Region) String() string {
	if r == RegionMeta {
		return "meta"
	}
	return "tasks"
}

type regionState struct {
	started  uint64 // generation of the newest started fetch
	inflight bool
	queued   bool

	// the in-flight fetch began before a local change to the cache and its
	// result must not be applied
	superseded bool

	// meta only: whether the in-flight or queued fetch is followed by a
	// task fetch once applied
	chain       bool
	queuedChain bool
}

// Options configures a Controller.
type Options struct {
	Logger  *logging.Logger
	Clock   filter.Clock
	Timeout time.Duration
}

// Controller sequences fetches and applies their results to the store.
// Its methods must be called from the update goroutine only.
type Controller struct {
	remote  Remote
	store   *cache.Store
	engine  *filter.Engine
	log     *logging.Logger
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	regions [numRegions]regionState

	want      filter.Selector // requested selection
	sel       filter.Selector // selection the task list reflects
	matches   []string        // ids returned by the last server query
	projectID string
}

// New creates a controller over remote and store.
func New(remote Remote, store *cache.Store, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		remote:  remote,
		store:   store,
		engine:  filter.NewEngine(opts.Clock),
		log:     opts.Logger.WithComponent("reconcile"),
		timeout: opts.Timeout,
		ctx:     ctx,
		cancel:  cancel,
		want:    filter.All,
		sel:     filter.All,
	}
}

// Close aborts in-flight requests.
func (c *Controller) Close() {
	c.cancel()
}

// Initialized reports whether remote operations are possible.
func (c *Controller) Initialized() bool {
	return c.remote.Initialized()
}

// Store returns the cache the controller writes to.
func (c *Controller) Store() *cache.Store {
	return c.store
}

// Busy reports whether any fetch is in flight or queued.
func (c *Controller) Busy() bool {
	for _, st := range c.regions {
		if st.inflight || st.queued {
			return true
		}
	}
	return false
}

// Stale reports whether a task refetch is pending.
func (c *Controller) Stale() bool {
	st := c.regions[RegionTasks]
	return st.inflight || st.queued
}

// Selector returns the selection the current task list reflects.
func (c *Controller) Selector() filter.Selector {
	return c.sel
}

// ProjectID returns the active project, or "" for all projects.
func (c *Controller) ProjectID() string {
	return c.projectID
}

// Visible returns the tasks to render for the current selection and project.
func (c *Controller) Visible() []api.Task {
	tasks := c.store.Tasks.Items()
	if c.sel.Remote() {
		tasks = filter.Intersect(c.matches, tasks)
	}
	return c.engine.Apply(c.sel, tasks, c.projectID)
}

// Refresh starts a full cycle: projects, labels and filters, then tasks.
func (c *Controller) Refresh() tea.Cmd {
	if !c.remote.Initialized() {
		return nil
	}
	return c.requestMeta(true)
}

// RefreshTasks refetches the task list for the requested selection.
func (c *Controller) RefreshTasks() tea.Cmd {
	if !c.remote.Initialized() {
		return nil
	}
	return c.requestTasks()
}

// Select changes the filter. raw is a built-in keyword, a saved filter's id
// or name, or a query forwarded to the server as is. Selecting always runs
// one full fetch cycle before the list changes.
func (c *Controller) Select(raw string) tea.Cmd {
	c.want = filter.Parse(raw, c.store.Filters.Items())
	c.log.Debugw("filter selected", "kind", c.want.Kind.String(), "query", c.want.Query)
	return c.Refresh()
}

// SelectProject restricts the list to one project; "" shows all projects.
func (c *Controller) SelectProject(projectID string) tea.Cmd {
	c.projectID = projectID
	return c.RefreshTasks()
}

func (c *Controller) requestMeta(chain bool) tea.Cmd {
	st := &c.regions[RegionMeta]
	if st.inflight {
		st.queued = true
		st.queuedChain = st.queuedChain || chain
		return nil
	}
	return c.startMeta(chain)
}

func (c *Controller) startMeta(chain bool) tea.Cmd {
	st := &c.regions[RegionMeta]
	st.started++
	st.inflight = true
	st.chain = chain
	return c.fetchMeta(st.started)
}

func (c *Controller) requestTasks() tea.Cmd {
	st := &c.regions[RegionTasks]
	if st.inflight {
		st.queued = true
		return nil
	}
	return c.startTasks()
}

func (c *Controller) startTasks() tea.Cmd {
	st := &c.regions[RegionTasks]
	st.started++
	st.inflight = true
	return c.fetchTasks(st.started, c.want)
}

func (c *Controller) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.ctx, c.timeout)
}

// fetchMeta runs off the update goroutine and must only touch the remote.
func (c *Controller) fetchMeta(gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.requestContext()
		defer cancel()

		msg := MetaFetchedMsg{Gen: gen, Errs: map[cache.Kind]error{}}
		var err error

		if msg.Projects, err = c.remote.GetProjects(ctx); err != nil {
			msg.Errs[cache.Projects] = err
		}
		if msg.Labels, err = c.remote.GetLabels(ctx); err != nil {
			msg.Errs[cache.Labels] = err
		}
		if msg.Filters, err = c.remote.GetFilters(ctx); err != nil {
			msg.Errs[cache.Filters] = err
		}
		return msg
	}
}

func (c *Controller) fetchTasks(gen uint64, sel filter.Selector) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.requestContext()
		defer cancel()

		msg := TasksFetchedMsg{Gen: gen, Selector: sel}
		if sel.Remote() {
			msg.Result, msg.FilterErr = c.remote.FilterTasks(ctx, sel.Query)
		}
		msg.Tasks, msg.TasksErr = c.remote.GetTasks(ctx, api.TaskFilter{})
		return msg
	}
}

// Handle applies a controller message. It reports whether msg was one.
func (c *Controller) Handle(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case MetaFetchedMsg:
		return c.applyMeta(msg), true
	case TasksFetchedMsg:
		return c.applyTasks(msg), true
	case MutationMsg:
		return c.applyMutation(msg), true
	}
	return nil, false
}

// accept claims a result for its region. Results from superseded fetches
// are dropped so the cache never regresses to older data.
func (c *Controller) accept(region Region, gen uint64) bool {
	st := &c.regions[region]
	if !st.inflight || gen != st.started {
		c.log.Debugw("discarding stale result", "region", region.String(), "gen", gen, "newest", st.started)
		return false
	}
	st.inflight = false
	if st.superseded {
		st.superseded = false
		c.log.Debugw("discarding result overtaken by a local change", "region", region.String(), "gen", gen)
		return false
	}
	return true
}

// supersedeTasks drops the in-flight task fetch, if any, and queues a
// fresh one in its place.
func (c *Controller) supersedeTasks() {
	st := &c.regions[RegionTasks]
	if st.inflight {
		st.superseded = true
		st.queued = true
	}
}

// nextTasks starts the queued task fetch once the region is idle.
func (c *Controller) nextTasks() tea.Cmd {
	st := &c.regions[RegionTasks]
	if st.inflight || !st.queued {
		return nil
	}
	st.queued = false
	return c.startTasks()
}

func (c *Controller) applyMeta(msg MetaFetchedMsg) tea.Cmd {
	if !c.accept(RegionMeta, msg.Gen) {
		return nil
	}

	var errs []error
	if err := msg.Errs[cache.Projects]; err != nil {
		errs = append(errs, err)
	} else {
		c.store.Projects.Replace(msg.Projects)
	}
	if err := msg.Errs[cache.Labels]; err != nil {
		errs = append(errs, err)
	} else {
		c.store.Labels.Replace(msg.Labels)
	}
	if err := msg.Errs[cache.Filters]; err != nil {
		errs = append(errs, err)
	} else {
		c.store.Filters.Replace(msg.Filters)
	}

	counts := c.store.Counts()
	c.log.Infow("metadata fetched",
		"projects", counts[cache.Projects],
		"labels", counts[cache.Labels],
		"filters", counts[cache.Filters],
		"failed", len(errs))

	var cmds []tea.Cmd
	if len(errs) > 0 {
		err := errors.Join(errs...)
		c.log.WithError(err).Errorw("metadata fetch failed")
		cmds = append(cmds, failure("refresh", err))
	}

	st := &c.regions[RegionMeta]
	if st.chain {
		st.chain = false
		cmds = append(cmds, c.requestTasks())
	}
	if st.queued {
		chain := st.queuedChain
		st.queued, st.queuedChain = false, false
		cmds = append(cmds, c.startMeta(chain))
	}
	return tea.Batch(cmds...)
}

func (c *Controller) applyTasks(msg TasksFetchedMsg) tea.Cmd {
	if !c.accept(RegionTasks, msg.Gen) {
		return c.nextTasks()
	}

	var cmds []tea.Cmd
	if msg.TasksErr != nil {
		c.log.WithError(msg.TasksErr).Errorw("task fetch failed")
		cmds = append(cmds, failure("refresh", msg.TasksErr))
	} else {
		c.store.Tasks.Replace(msg.Tasks)
	}

	switch {
	case !msg.Selector.Remote():
		c.sel = msg.Selector
		c.matches = nil
	case msg.FilterErr != nil:
		// keep showing the previous selection
		c.log.WithError(msg.FilterErr).Errorw("filter query failed", "query", msg.Selector.Query)
		cmds = append(cmds, failure("filter", msg.FilterErr))
	default:
		c.sel = msg.Selector
		c.matches = c.match(msg.Result)
	}

	c.log.Infow("tasks fetched", "tasks", c.store.Counts()[cache.Tasks], "filter", c.sel.Name, "matches", len(c.matches))

	cmds = append(cmds, c.nextTasks())
	return tea.Batch(cmds...)
}

// match resolves a server filter answer against the cache and returns the
// matching ids. Full task bodies are cached; ids the cache lacks are dropped.
func (c *Controller) match(res *api.FilterResult) []string {
	matched := filter.Materialize(res, c.store.Tasks.Items())
	ids := make([]string, 0, len(matched))
	for _, t := range matched {
		if !res.IDsOnly() {
			c.store.Tasks.Upsert(t)
		}
		ids = append(ids, t.ID)
	}
	return ids
}

func failure(op string, err error) tea.Cmd {
	return func() tea.Msg {
		return FailureMsg{Op: op, Err: err}
	}
}

func status(text string) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Text: text}
	}
}
