package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/tuidoist/internal/api"
	"github.com/hy4ri/tuidoist/internal/cache"
	"github.com/hy4ri/tuidoist/internal/tui/styles"
	"github.com/hy4ri/tuidoist/internal/tui/utils"
)

const (
	dueWidth     = 18
	projectWidth = 18
	labelsWidth  = 24
	minTaskWidth = 20
)

// TaskTable renders the visible tasks as Task / Due Date / Project / Labels.
type TaskTable struct {
	table  table.Model
	store  *cache.Store
	tasks  []api.Task
	empty  string
	widths [4]int
}

// NewTaskTable creates an empty table.
func NewTaskTable(store *cache.Store) *TaskTable {
	t := &TaskTable{
		store: store,
		empty: "No tasks found.",
		table: table.New(
			table.WithFocused(true),
			table.WithStyles(styles.Table()),
		),
	}
	t.SetSize(100, 20)
	return t
}

// SetTasks replaces the rows. The cursor stays on the same task when it
// is still listed, else it is clamped.
func (t *TaskTable) SetTasks(tasks []api.Task, empty string) {
	selected := ""
	if task := t.Selected(); task != nil {
		selected = task.ID
	}

	t.tasks = tasks
	t.empty = empty
	t.table.SetRows(t.rows())

	cursor := t.table.Cursor()
	for i, task := range tasks {
		if task.ID == selected {
			cursor = i
			break
		}
	}
	if cursor >= len(tasks) {
		cursor = len(tasks) - 1
	}
	t.table.SetCursor(max(cursor, 0))
}

// Tasks returns the rows currently shown.
func (t *TaskTable) Tasks() []api.Task {
	return t.tasks
}

// Selected returns the task under the cursor.
func (t *TaskTable) Selected() *api.Task {
	i := t.table.Cursor()
	if i < 0 || i >= len(t.tasks) {
		return nil
	}
	task := t.tasks[i]
	return &task
}

// Top moves the cursor to the first row.
func (t *TaskTable) Top() { t.table.GotoTop() }

// Bottom moves the cursor to the last row.
func (t *TaskTable) Bottom() { t.table.GotoBottom() }

// Update implements Component.
func (t *TaskTable) Update(msg tea.Msg) (Component, tea.Cmd) {
	var cmd tea.Cmd
	t.table, cmd = t.table.Update(msg)
	return t, cmd
}

// View implements Component.
func (t *TaskTable) View() string {
	if len(t.tasks) == 0 {
		return t.table.View() + "\n" + styles.Empty.Render(t.empty)
	}
	return t.table.View()
}

// SetSize implements Component.
func (t *TaskTable) SetSize(width, height int) {
	task := max(width-dueWidth-projectWidth-labelsWidth-8, minTaskWidth)
	t.widths = [4]int{task, dueWidth, projectWidth, labelsWidth}
	t.table.SetColumns([]table.Column{
		{Title: "Task", Width: task},
		{Title: "Due Date", Width: dueWidth},
		{Title: "Project", Width: projectWidth},
		{Title: "Labels", Width: labelsWidth},
	})
	t.table.SetWidth(width)
	t.table.SetHeight(max(height, 3))
	t.table.SetRows(t.rows())
}

// rows builds plain-text cells; the table truncates by cell width and
// escape sequences would be counted against it.
func (t *TaskTable) rows() []table.Row {
	rows := make([]table.Row, 0, len(t.tasks))
	for _, task := range t.tasks {
		content := task.Content
		if task.Priority > 1 {
			content = fmt.Sprintf("[%s] %s", api.PriorityLabel(task.Priority), content)
		}

		labels := make([]string, 0, len(task.Labels))
		for _, label := range task.Labels {
			labels = append(labels, "● "+t.store.LabelName(label))
		}

		rows = append(rows, table.Row{
			utils.TruncateString(content, t.widths[0]),
			utils.TruncateString(utils.FormatDue(task.Due), t.widths[1]),
			utils.TruncateString(t.store.ProjectName(task.ProjectID), t.widths[2]),
			utils.TruncateString(strings.Join(labels, ", "), t.widths[3]),
		})
	}
	return rows
}
