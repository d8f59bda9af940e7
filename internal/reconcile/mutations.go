package reconcile

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/tuidoist/internal/api"
	"github.com/hy4ri/tuidoist/internal/nlp"
)

// ErrUnknownTask is reported when the selected task is gone from the cache.
var ErrUnknownTask = errors.New("task is no longer in the cache")

// Op is a mutation kind.
type Op int

const (
	OpComplete Op = iota
	OpDelete
	OpAdd
	OpEdit
	OpMove
	OpLabels
	OpPriority
	OpCreateLabel
)

var opNames = map[Op]string{
	OpComplete:    "complete task",
	OpDelete:      "delete task",
	OpAdd:         "add task",
	OpEdit:        "update task",
	OpMove:        "move task",
	OpLabels:      "update labels",
	OpPriority:    "set priority",
	OpCreateLabel: "create label",
}

var opDone = map[Op]string{
	OpComplete:    "Task completed",
	OpDelete:      "Task deleted",
	OpAdd:         "Task added",
	OpEdit:        "Task updated",
	OpMove:        "Task moved",
	OpLabels:      "Labels updated",
	OpPriority:    "Priority updated",
	OpCreateLabel: "Label created",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// Refetch reports whether the task list must be fetched again after o.
// Completing or deleting only drops the task; creating a label only adds
// the label. Everything else may have been rewritten by the server.
func (o Op) Refetch() bool {
	switch o {
	case OpComplete, OpDelete, OpCreateLabel:
		return false
	}
	return true
}

// Complete closes a task.
func (c *Controller) Complete(id string) tea.Cmd {
	return c.taskMutation(OpComplete, id, func(r *run) error {
		return c.remote.CloseTask(r.ctx, id)
	})
}

// Delete removes a task.
func (c *Controller) Delete(id string) tea.Cmd {
	return c.taskMutation(OpDelete, id, func(r *run) error {
		return c.remote.DeleteTask(r.ctx, id)
	})
}

// Add creates a task through Todoist's quick add parser.
func (c *Controller) Add(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if !c.remote.Initialized() || text == "" {
		return nil
	}
	return c.mutate(OpAdd, "", func(r *run) error {
		_, err := c.remote.QuickAddTask(r.ctx, text)
		return err
	})
}

// Edit rewrites a task from an edit line carrying #project, @label and due
// shortcuts. The task is updated first and then moved when a known project
// other than its own was named.
func (c *Controller) Edit(id, input string) tea.Cmd {
	task, ok := c.store.Tasks.Get(id)
	if !c.remote.Initialized() {
		return nil
	}
	if !ok {
		return inconsistent(OpEdit)
	}

	parsed := nlp.Parse(input, c.store)
	req := parsed.Request()
	move := parsed.ProjectID != "" && parsed.ProjectID != task.ProjectID
	c.log.Debugw("edit parsed", "task", id, "due", parsed.DueString, "labels", parsed.Labels, "project", parsed.ProjectRef)

	return c.mutate(OpEdit, id, func(r *run) error {
		if _, err := c.remote.UpdateTask(r.ctx, id, req); err != nil {
			return err
		}
		r.changed = true
		if move {
			return c.remote.MoveTask(r.ctx, id, parsed.ProjectID)
		}
		return nil
	})
}

// Move puts a task in another project.
func (c *Controller) Move(id, projectID string) tea.Cmd {
	return c.taskMutation(OpMove, id, func(r *run) error {
		return c.remote.MoveTask(r.ctx, id, projectID)
	})
}

// SetLabels replaces a task's labels with names.
func (c *Controller) SetLabels(id string, names []string) tea.Cmd {
	labels := append([]string(nil), names...)
	return c.taskMutation(OpLabels, id, func(r *run) error {
		_, err := c.remote.SetTaskLabels(r.ctx, id, labels)
		return err
	})
}

// SetPriority sets a task's priority from the level users see: 1 is the
// most urgent, 4 the least, and 0 clears it.
func (c *Controller) SetPriority(id string, level int) tea.Cmd {
	priority := 1
	if level >= 1 && level <= 4 {
		priority = 5 - level
	}
	return c.taskMutation(OpPriority, id, func(r *run) error {
		_, err := c.remote.UpdateTask(r.ctx, id, api.UpdateTaskRequest{Priority: &priority})
		return err
	})
}

// CreateLabel creates a label and adds it to the cache without a refetch.
func (c *Controller) CreateLabel(name, color string) tea.Cmd {
	if !c.remote.Initialized() {
		return nil
	}
	req := api.CreateLabelRequest{Name: strings.TrimSpace(name), Color: color}
	return c.mutate(OpCreateLabel, "", func(r *run) error {
		label, err := c.remote.CreateLabel(r.ctx, req)
		r.label = label
		return err
	})
}

// run is the state of one mutation command.
type run struct {
	ctx     context.Context
	changed bool
	label   *api.Label
}

func (c *Controller) taskMutation(op Op, id string, fn func(*run) error) tea.Cmd {
	if !c.remote.Initialized() {
		return nil
	}
	if _, ok := c.store.Tasks.Get(id); !ok {
		return inconsistent(op)
	}
	return c.mutate(op, id, fn)
}

func (c *Controller) mutate(op Op, id string, fn func(*run) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.requestContext()
		defer cancel()

		r := &run{ctx: ctx}
		err := fn(r)
		if err == nil {
			r.changed = true
		}
		return MutationMsg{Op: op, TaskID: id, Label: r.label, Changed: r.changed, Err: err}
	}
}

func (c *Controller) applyMutation(msg MutationMsg) tea.Cmd {
	var cmds []tea.Cmd

	if msg.Err != nil {
		c.log.WithError(msg.Err).Errorw("mutation failed", "op", msg.Op.String(), "task", msg.TaskID)
		cmds = append(cmds, failure(msg.Op.String(), msg.Err))
		if !msg.Changed {
			return tea.Batch(cmds...)
		}
	}

	if msg.Op != OpCreateLabel {
		c.supersedeTasks()
	}
	switch msg.Op {
	case OpComplete, OpDelete:
		c.store.Tasks.Remove(msg.TaskID)
	case OpCreateLabel:
		if msg.Label != nil {
			c.store.Labels.Upsert(*msg.Label)
		}
	}
	if msg.Op.Refetch() {
		cmds = append(cmds, c.RefreshTasks())
	}

	c.log.Infow("mutation applied", "op", msg.Op.String(), "task", msg.TaskID)
	if msg.Err == nil {
		cmds = append(cmds, status(opDone[msg.Op]))
	}
	return tea.Batch(cmds...)
}

func inconsistent(op Op) tea.Cmd {
	return func() tea.Msg {
		return FailureMsg{Op: op.String(), Err: ErrUnknownTask, Silent: true}
	}
}
