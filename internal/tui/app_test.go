package tui

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/hy4ri/tuidoist/internal/api"
	"github.com/hy4ri/tuidoist/internal/cache"
	"github.com/hy4ri/tuidoist/internal/reconcile"
)

type harness struct {
	tm     *teatest.TestModel
	server *todoist
	bells  *atomic.Int32
	copied *atomic.Value
}

func start(t *testing.T, server *todoist, opts Options) *harness {
	t.Helper()

	var client *api.Client
	if server != nil {
		client = server.serve(t)
	} else {
		client = api.NewClient("")
	}

	bells := &atomic.Int32{}
	copied := &atomic.Value{}
	if opts.Bell == nil {
		opts.Bell = func() error { bells.Add(1); return nil }
	}
	if opts.Copy == nil {
		opts.Copy = func(s string) error { copied.Store(s); return nil }
	}
	opts.VimMode = true

	ctrl := reconcile.New(client, cache.New(), reconcile.Options{})
	tm := teatest.NewTestModel(t, New(ctrl, opts), teatest.WithInitialTermSize(120, 30))
	return &harness{tm: tm, server: server, bells: bells, copied: copied}
}

func (h *harness) waitFor(t *testing.T, text string) {
	t.Helper()
	teatest.WaitFor(t, h.tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte(text))
	}, teatest.WithDuration(3*time.Second), teatest.WithCheckInterval(10*time.Millisecond))
}

func (h *harness) keys(s string) {
	for _, r := range s {
		h.tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) enter() {
	h.tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
}

func (h *harness) quit(t *testing.T) *Model {
	t.Helper()
	h.tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	return h.tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second)).(*Model)
}

func TestLoadsTasks(t *testing.T) {
	h := start(t, newTodoist(), Options{})

	h.waitFor(t, "Write report")
	m := h.quit(t)

	if got := m.Title(); got != "Tuidoist - All Projects" {
		t.Errorf("Title() = %q", got)
	}
	tasks := m.table.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tasks))
	}
	if got := m.store.ProjectName(tasks[0].ProjectID); got != "Work" {
		t.Errorf("project of first row = %q", got)
	}
}

func TestNotInitialized(t *testing.T) {
	h := start(t, nil, Options{})

	h.waitFor(t, "No API token configured")
	m := h.quit(t)

	if len(m.table.Tasks()) != 0 {
		t.Error("expected an empty list")
	}
}

func TestCompleteTask(t *testing.T) {
	server := newTodoist()
	h := start(t, server, Options{})
	h.waitFor(t, "Write report")

	h.keys("d")
	h.waitFor(t, "Task completed")
	m := h.quit(t)

	if _, ok := m.store.Tasks.Get("1"); ok {
		t.Error("completed task still cached")
	}
	if _, ok := server.task("1"); ok {
		t.Error("server was not asked to close the task")
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	server := newTodoist()
	h := start(t, server, Options{})
	h.waitFor(t, "Write report")

	h.keys("D")
	h.waitFor(t, `Delete "Write report"?`)
	h.keys("n")
	h.waitFor(t, "Water plants")
	h.keys("jD")
	h.waitFor(t, `Delete "Water plants"?`)
	h.keys("y")
	h.waitFor(t, "Task deleted")
	h.quit(t)

	if _, ok := server.task("1"); !ok {
		t.Error("declined delete removed the task")
	}
	if _, ok := server.task("2"); ok {
		t.Error("confirmed delete did not reach the server")
	}
}

func TestEditSendsParsedShortcuts(t *testing.T) {
	server := newTodoist()
	h := start(t, server, Options{})
	h.waitFor(t, "Write report")

	h.keys("e")
	h.waitFor(t, "Edit task")
	h.keys(" tomorrow @waiting")
	h.enter()
	h.waitFor(t, "Task updated")
	h.quit(t)

	body := server.lastUpdate()
	var content, due string
	var labels []string
	json.Unmarshal(body["content"], &content)
	json.Unmarshal(body["due_string"], &due)
	json.Unmarshal(body["labels"], &labels)

	if content != "Write report" || due != "tomorrow" || !reflect.DeepEqual(labels, []string{"waiting"}) {
		t.Errorf("update = %q %q %v", content, due, labels)
	}
}

func TestPriorityKeys(t *testing.T) {
	server := newTodoist()
	h := start(t, server, Options{})
	h.waitFor(t, "Write report")

	h.keys("j2")
	h.waitFor(t, "Priority updated")
	h.quit(t)

	if task, _ := server.task("2"); task.Priority != 3 {
		t.Errorf("priority = %d, want 3", task.Priority)
	}
}

func TestFilterDialogSelectsBuiltIn(t *testing.T) {
	h := start(t, newTodoist(), Options{})
	h.waitFor(t, "Write report")

	h.keys("f")
	h.waitFor(t, "Next 7 Days")
	h.keys("jjj") // All Tasks, Today, Next 7 Days, Overdue
	h.enter()
	h.waitFor(t, "Tuidoist - All Projects - Overdue")
	m := h.quit(t)

	tasks := m.table.Tasks()
	if len(tasks) != 1 || tasks[0].ID != "1" {
		t.Errorf("overdue rows = %+v", tasks)
	}
}

func TestSavedFilterUsesServerQuery(t *testing.T) {
	h := start(t, newTodoist(), Options{})
	h.waitFor(t, "Write report")

	h.keys("f")
	h.waitFor(t, "Waiting")
	h.keys("G")
	h.enter()
	h.waitFor(t, "Tuidoist - All Projects - Waiting")
	m := h.quit(t)

	tasks := m.table.Tasks()
	if len(tasks) != 1 || tasks[0].ID != "2" {
		t.Errorf("filtered rows = %+v", tasks)
	}
}

func TestRejectedQueryKeepsListAndRings(t *testing.T) {
	h := start(t, newTodoist(), Options{})
	h.waitFor(t, "Write report")

	h.keys("f/")
	h.waitFor(t, "Filter query")
	h.keys("p1 & today")
	h.enter()
	h.waitFor(t, "Failed to filter")
	m := h.quit(t)

	if !m.ctrl.Selector().IsAll() {
		t.Errorf("selection changed to %+v", m.ctrl.Selector())
	}
	if len(m.table.Tasks()) != 2 {
		t.Errorf("expected previous rows, got %d", len(m.table.Tasks()))
	}
	if h.bells.Load() == 0 {
		t.Error("failure should ring the bell")
	}
}

func TestSelectProject(t *testing.T) {
	h := start(t, newTodoist(), Options{})
	h.waitFor(t, "Write report")

	h.keys("p")
	h.waitFor(t, "Select project")
	h.keys("j") // All Projects, Home
	h.enter()
	h.waitFor(t, "Tuidoist - Home")
	m := h.quit(t)

	tasks := m.table.Tasks()
	if len(tasks) != 1 || tasks[0].ID != "2" {
		t.Errorf("project rows = %+v", tasks)
	}
}

func TestMoveTask(t *testing.T) {
	server := newTodoist()
	h := start(t, server, Options{})
	h.waitFor(t, "Write report")

	h.keys("P")
	h.waitFor(t, "Move to project")
	h.keys("k") // cursor starts on Work
	h.enter()
	h.waitFor(t, "Task moved")
	h.quit(t)

	if task, _ := server.task("1"); task.ProjectID != "A" {
		t.Errorf("project = %q, want A", task.ProjectID)
	}
}

func TestCreateAndAttachLabel(t *testing.T) {
	server := newTodoist()
	h := start(t, server, Options{})
	h.waitFor(t, "Write report")

	h.keys("l")
	h.waitFor(t, "space: toggle")
	h.keys("n")
	h.waitFor(t, "New label")
	h.keys("urgent red")
	h.enter()
	h.waitFor(t, "Label created")
	h.enter()
	h.waitFor(t, "Labels updated")
	m := h.quit(t)

	if task, _ := server.task("1"); !reflect.DeepEqual(task.Labels, []string{"urgent"}) {
		t.Errorf("labels = %v", task.Labels)
	}
	id, ok := m.store.Labels.IDByName("urgent")
	if !ok {
		t.Fatal("new label not cached")
	}
	if color, _ := m.store.LabelColor(id); color != "red" {
		t.Errorf("label color = %q", color)
	}
}

func TestFetchFailureShowsToast(t *testing.T) {
	server := newTodoist()
	server.setFail("/tasks", 500)
	h := start(t, server, Options{})

	h.waitFor(t, "Todoist server error (500)")
	h.quit(t)

	if h.bells.Load() == 0 {
		t.Error("failure should ring the bell")
	}
}

func TestCopyContent(t *testing.T) {
	h := start(t, newTodoist(), Options{})
	h.waitFor(t, "Write report")

	h.keys("y")
	h.waitFor(t, "Copied to clipboard")
	h.quit(t)

	if got, _ := h.copied.Load().(string); got != "Write report" {
		t.Errorf("copied %q", got)
	}
}

func TestCopyFailureRings(t *testing.T) {
	h := start(t, newTodoist(), Options{Copy: func(string) error { return errors.New("no clipboard") }})
	h.waitFor(t, "Write report")

	h.keys("y")
	h.waitFor(t, "Clipboard unavailable")
	h.quit(t)

	if h.bells.Load() == 0 {
		t.Error("clipboard failure should ring the bell")
	}
}

func TestDetailsPane(t *testing.T) {
	server := newTodoist()
	server.tasks[0].Description = "Quarterly numbers"
	h := start(t, server, Options{ShowDetails: true})

	h.waitFor(t, "Quarterly numbers")
	h.keys("j")
	h.waitFor(t, "No additional details available")
	h.quit(t)
}

func TestStatusExpires(t *testing.T) {
	ctrl := reconcile.New(api.NewClient(""), cache.New(), reconcile.Options{})
	m := New(ctrl, Options{Bell: func() error { return nil }})

	m.Update(reconcile.StatusMsg{Text: "first"})
	m.Update(reconcile.StatusMsg{Text: "second"})

	m.Update(clearStatusMsg{seq: 1})
	if m.Status() != "second" {
		t.Errorf("older timer cleared a newer status: %q", m.Status())
	}
	m.Update(clearStatusMsg{seq: 2})
	if m.Status() != "" {
		t.Errorf("status not cleared: %q", m.Status())
	}
}

func TestEmptyState(t *testing.T) {
	ctrl := reconcile.New(api.NewClient(""), cache.New(), reconcile.Options{})
	m := New(ctrl, Options{})

	if view := m.View(); !bytes.Contains([]byte(view), []byte("No tasks found.")) {
		t.Errorf("missing empty state:\n%s", view)
	}
}

func TestSplitLabelInput(t *testing.T) {
	tests := []struct {
		input, name, color string
	}{
		{"urgent red", "urgent", "red"},
		{"urgent", "urgent", "charcoal"},
		{"read later", "read later", "charcoal"},
		{"read later Sky_Blue", "read later", "sky_blue"},
		{"   ", "", ""},
	}
	for _, tt := range tests {
		name, color := splitLabelInput(tt.input)
		if name != tt.name || color != tt.color {
			t.Errorf("splitLabelInput(%q) = %q, %q", tt.input, name, color)
		}
	}
}
