package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/hy4ri/tuidoist/internal/api"
	"github.com/hy4ri/tuidoist/internal/cache"
	"github.com/hy4ri/tuidoist/internal/tui/styles"
	"github.com/hy4ri/tuidoist/internal/tui/utils"
)

// DescriptionLimit caps how much of a description the pane shows.
const DescriptionLimit = 200

// NoDetails is shown for a task without any extra fields.
const NoDetails = "No additional details available"

// Detail is the scrollable pane under the task table.
type Detail struct {
	viewport viewport.Model
	task     *api.Task
	store    *cache.Store
	width    int
}

// NewDetail creates an empty details pane.
func NewDetail(store *cache.Store) *Detail {
	return &Detail{viewport: viewport.New(0, 0), store: store}
}

// SetTask shows task, or clears the pane when task is nil.
func (d *Detail) SetTask(task *api.Task) {
	d.task = task
	d.viewport.SetContent(d.render())
	d.viewport.GotoTop()
}

// Update implements Component.
func (d *Detail) Update(msg tea.Msg) (Component, tea.Cmd) {
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return d, cmd
}

// View implements Component.
func (d *Detail) View() string {
	return styles.DetailPane.Width(d.width).Render(d.viewport.View())
}

// SetSize implements Component. Height includes the border.
func (d *Detail) SetSize(width, height int) {
	d.width = max(width-2, 10)
	d.viewport.Width = max(width-4, 8)
	d.viewport.Height = max(height-2, 1)
	d.viewport.SetContent(d.render())
}

func (d *Detail) render() string {
	if d.task == nil {
		return styles.Empty.Render("No task selected")
	}
	t := d.task
	var lines []string

	header := styles.PriorityStyle(t.Priority).Render(api.PriorityLabel(t.Priority)) + " " +
		styles.Subtitle.Render(t.Content)
	lines = append(lines, header)

	project := d.store.ProjectName(t.ProjectID)
	color, _ := d.store.Color(cache.Projects, t.ProjectID)
	chips := styles.Chip(project, color)
	for _, label := range t.Labels {
		labelColor, _ := d.store.LabelColor(label)
		chips += " " + styles.Dot(d.store.LabelName(label), labelColor)
	}
	lines = append(lines, chips, "")

	details := d.fields()
	if len(details) == 0 {
		lines = append(lines, styles.Empty.Render(NoDetails))
	}
	lines = append(lines, details...)

	return strings.Join(lines, "\n")
}

func (d *Detail) fields() []string {
	t := d.task
	var out []string
	row := func(label, value string) {
		out = append(out, styles.DetailLabel.Render(label)+" "+value)
	}

	if desc := strings.TrimSpace(t.Description); desc != "" {
		wrapped := wordwrap.String(utils.TruncateRunes(desc, DescriptionLimit), max(d.viewport.Width-2, 20))
		out = append(out, styles.DetailDescription.Render(wrapped), "")
	}

	if t.Due != nil {
		due := t.Due.Date
		if t.Due.Datetime != nil && *t.Due.Datetime != "" {
			due = utils.FormatDue(&api.Due{Date: t.Due.Date, Datetime: t.Due.Datetime})
		}
		if t.Due.String != "" && t.Due.String != due {
			due += fmt.Sprintf(" (%s)", t.Due.String)
		}
		if t.Due.Timezone != nil && *t.Due.Timezone != "" {
			due += " " + *t.Due.Timezone
		}
		if t.Due.IsRecurring {
			due += " ↻"
		}
		row("Due", due)
	}
	if t.Deadline != nil && t.Deadline.Date != "" {
		row("Deadline", t.Deadline.Date)
	}
	if t.Duration != nil && t.Duration.Amount > 0 {
		row("Duration", t.Duration.String())
	}
	if t.AddedAt != "" {
		row("Created", utils.FormatTimestamp(t.AddedAt))
	}
	if t.UpdatedAt != "" {
		row("Updated", utils.FormatTimestamp(t.UpdatedAt))
	}
	return out
}
