package reconcile

import (
	"context"
	"fmt"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/tuidoist/internal/api"
	"github.com/hy4ri/tuidoist/internal/cache"
)

// fakeRemote is an in-memory Todoist. Commands run on other goroutines in
// production, so every field is guarded.
type fakeRemote struct {
	mu sync.Mutex

	uninitialized bool
	projects      []api.Project
	labels        []api.Label
	filters       []api.Filter
	tasks         []api.Task
	filterResult  *api.FilterResult
	errs          map[string]error

	calls     []string
	updates   []api.UpdateTaskRequest
	moves     [][2]string
	labelSets map[string][]string
	nextID    int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		errs:      map[string]error{},
		labelSets: map[string][]string{},
	}
}

func (f *fakeRemote) enter(name string) error {
	f.calls = append(f.calls, name)
	return f.errs[name]
}

func (f *fakeRemote) setErr(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[name] = err
}

func (f *fakeRemote) setTasks(tasks []api.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = tasks
}

func (f *fakeRemote) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeRemote) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) Initialized() bool {
	return !f.uninitialized
}

func (f *fakeRemote) GetProjects(ctx context.Context) ([]api.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetProjects"); err != nil {
		return nil, err
	}
	return append([]api.Project(nil), f.projects...), nil
}

func (f *fakeRemote) GetLabels(ctx context.Context) ([]api.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetLabels"); err != nil {
		return nil, err
	}
	return append([]api.Label(nil), f.labels...), nil
}

func (f *fakeRemote) GetFilters(ctx context.Context) ([]api.Filter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetFilters"); err != nil {
		return nil, err
	}
	return append([]api.Filter(nil), f.filters...), nil
}

func (f *fakeRemote) GetTasks(ctx context.Context, _ api.TaskFilter) ([]api.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetTasks"); err != nil {
		return nil, err
	}
	return append([]api.Task(nil), f.tasks...), nil
}

func (f *fakeRemote) FilterTasks(ctx context.Context, query string) (*api.FilterResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("FilterTasks"); err != nil {
		return nil, err
	}
	if f.filterResult == nil {
		return &api.FilterResult{}, nil
	}
	res := *f.filterResult
	return &res, nil
}

func (f *fakeRemote) CloseTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enter("CloseTask")
}

func (f *fakeRemote) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enter("DeleteTask")
}

func (f *fakeRemote) QuickAddTask(ctx context.Context, text string) (*api.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("QuickAddTask"); err != nil {
		return nil, err
	}
	f.nextID++
	task := api.Task{ID: fmt.Sprintf("new-%d", f.nextID), Content: text}
	f.tasks = append(f.tasks, task)
	return &task, nil
}

func (f *fakeRemote) UpdateTask(ctx context.Context, id string, req api.UpdateTaskRequest) (*api.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdateTask"); err != nil {
		return nil, err
	}
	f.updates = append(f.updates, req)
	for i := range f.tasks {
		if f.tasks[i].ID == id && req.Content != nil {
			f.tasks[i].Content = *req.Content
		}
	}
	return &api.Task{ID: id}, nil
}

func (f *fakeRemote) SetTaskLabels(ctx context.Context, id string, labels []string) (*api.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("SetTaskLabels"); err != nil {
		return nil, err
	}
	f.labelSets[id] = labels
	return &api.Task{ID: id, Labels: labels}, nil
}

func (f *fakeRemote) MoveTask(ctx context.Context, id, projectID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("MoveTask"); err != nil {
		return err
	}
	f.moves = append(f.moves, [2]string{id, projectID})
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].ProjectID = projectID
		}
	}
	return nil
}

func (f *fakeRemote) CreateLabel(ctx context.Context, req api.CreateLabelRequest) (*api.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateLabel"); err != nil {
		return nil, err
	}
	f.nextID++
	label := api.Label{ID: fmt.Sprintf("label-%d", f.nextID), Name: req.Name, Color: req.Color}
	f.labels = append(f.labels, label)
	return &label, nil
}

// exec runs cmd and flattens batches without applying anything.
func exec(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, exec(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// drain runs cmd to quiescence, feeding controller messages back through
// Handle the way the update loop would. It returns the messages meant for
// the display.
func drain(t *testing.T, c *Controller, cmd tea.Cmd) []tea.Msg {
	t.Helper()

	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("controller did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		for _, msg := range exec(next) {
			if follow, ok := c.Handle(msg); ok {
				if follow != nil {
					queue = append(queue, follow)
				}
				continue
			}
			out = append(out, msg)
		}
	}
	return out
}

func failures(msgs []tea.Msg) []FailureMsg {
	var out []FailureMsg
	for _, m := range msgs {
		if f, ok := m.(FailureMsg); ok {
			out = append(out, f)
		}
	}
	return out
}

func statuses(msgs []tea.Msg) []string {
	var out []string
	for _, m := range msgs {
		if s, ok := m.(StatusMsg); ok {
			out = append(out, s.Text)
		}
	}
	return out
}

func newController(remote *fakeRemote, opts Options) (*Controller, *cache.Store) {
	store := cache.New()
	c := New(remote, store, opts)
	return c, store
}
