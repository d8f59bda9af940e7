// Package tui provides the terminal user interface for Todoist.
package tui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/hy4ri/tuidoist/internal/cache"
	"github.com/hy4ri/tuidoist/internal/logging"
	"github.com/hy4ri/tuidoist/internal/reconcile"
	"github.com/hy4ri/tuidoist/internal/tui/components"
	"github.com/hy4ri/tuidoist/internal/tui/styles"
)

// StatusTimeout is how long a status message stays on screen.
const StatusTimeout = 3 * time.Second

// detailHeight is the details pane height including its border.
const detailHeight = 10

// mode is the dialog currently owning the keyboard.
type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeEdit
	modeMove
	modeLabels
	modeNewLabel
	modeProject
	modeFilter
	modeQuery
	modeConfirmDelete
	modeHelp
)

// Options configures the Model.
type Options struct {
	Logger      *logging.Logger
	ShowDetails bool
	VimMode     bool

	// Bell and Copy default to the system bell and clipboard.
	Bell func() error
	Copy func(string) error
}

// Model is the Bubble Tea model of the task screen.
type Model struct {
	ctrl  *reconcile.Controller
	store *cache.Store
	log   *logging.Logger

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	table  *components.TaskTable
	detail *components.Detail
	dialog components.Component

	mode          mode
	target        string   // task id the open dialog acts on
	pendingLabels []string // label selection kept while the new label prompt is open
	showDetails   bool
	spinning      bool

	status    string
	statusErr bool
	statusSeq int

	width, height int

	bell func() error
	copy func(string) error
}

// clearStatusMsg expires the status message with the matching sequence.
type clearStatusMsg struct {
	seq int
}

// New creates the task screen over ctrl.
func New(ctrl *reconcile.Controller, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Bell == nil {
		opts.Bell = func() error { return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration) }
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	store := ctrl.Store()
	m := &Model{
		ctrl:        ctrl,
		store:       store,
		log:         opts.Logger.WithComponent("tui"),
		keys:        DefaultKeyMap(opts.VimMode),
		help:        help.New(),
		spinner:     s,
		table:       components.NewTaskTable(store),
		detail:      components.NewDetail(store),
		showDetails: opts.ShowDetails,
		bell:        opts.Bell,
		copy:        opts.Copy,
		width:       100,
		height:      30,
	}
	m.layout()
	m.sync()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if !m.ctrl.Initialized() {
		return m.setStatus("No API token configured (run with --setup-config)", true)
	}
	return m.track(m.ctrl.Refresh())
}

// track starts the spinner alongside a fetch command.
func (m *Model) track(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	if m.spinning {
		return cmd
	}
	m.spinning = true
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	seq := m.statusSeq
	m.status = text
	m.statusErr = isErr
	return tea.Tick(StatusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m *Model) ring() tea.Cmd {
	bell := m.bell
	log := m.log
	return func() tea.Msg {
		if err := bell(); err != nil {
			log.WithError(err).Debug("bell failed")
		}
		return nil
	}
}

// sync pushes the controller's visible list into the table and details pane.
func (m *Model) sync() {
	empty := "No tasks found."
	if id := m.ctrl.ProjectID(); id != "" {
		empty = "No tasks found in " + m.store.ProjectName(id) + "."
	}
	m.table.SetTasks(m.ctrl.Visible(), empty)
	m.detail.SetTask(m.table.Selected())
}

func (m *Model) layout() {
	tableHeight := m.height - 4 // title, blank line, status, help
	if m.showDetails {
		tableHeight -= detailHeight
	}
	m.table.SetSize(m.width, tableHeight)
	m.detail.SetSize(m.width, detailHeight)
	m.help.Width = m.width
	if m.dialog != nil {
		m.dialog.SetSize(m.width, m.height)
	}
}

// Title returns the header text.
func (m *Model) Title() string {
	project := "All Projects"
	if id := m.ctrl.ProjectID(); id != "" {
		project = m.store.ProjectName(id)
	}
	title := "Tuidoist - " + project
	if sel := m.ctrl.Selector(); !sel.IsAll() {
		title += " - " + sel.Name
	}
	return title
}

// Status returns the current status message.
func (m *Model) Status() string {
	return m.status
}
