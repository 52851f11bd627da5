// Package tui renders the Planner View as a Bubble Tea program.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/planner/internal/config"
	"github.com/Makepad-fr/planner/internal/planner"
	"github.com/Makepad-fr/planner/internal/ui"
)

// Options configures the view.
type Options struct {
	Service     planner.Service
	Timeout     time.Duration // per request; zero means no bound
	OnError     string        // config.OnErrorSurface or config.OnErrorReload
	ReloadDelay time.Duration
}

// eventMsg carries a planner event through the Bubble Tea loop.
type eventMsg struct{ ev planner.Event }

// resetMsg fires when the reload-on-error delay elapses.
type resetMsg struct{}

// Model is the Bubble Tea model of the Planner View.
type Model struct {
	state planner.State
	opts  Options

	list list.Model
	ti   textinput.Model
	spin spinner.Model
	help help.Model
	keys keyMap

	adding bool
	width  int
	height int
}

// New builds the view. Nothing is fetched until Init runs.
func New(opts Options) Model {
	keys := defaultKeys()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("food", "foods")
	l.Styles.PaginationStyle = ui.Current().Help
	l.FilterInput.Prompt = "/ "

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Food..."
	ti.CharLimit = 200
	ti.Cursor.SetMode(cursor.CursorStatic)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.Current().Accent

	m := Model{
		state:  planner.New(),
		opts:   opts,
		list:   l,
		ti:     ti,
		spin:   sp,
		help:   help.New(),
		keys:   keys,
		width:  80,
		height: 24,
	}
	m.resize()
	return m
}

// State exposes the current view state.
func (m Model) State() planner.State { return m.state }

// Init mounts the view: the first load is issued from here and only here.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return eventMsg{planner.Mounted{}} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case eventMsg:
		return m.apply(msg.ev)

	case resetMsg:
		if m.state.Err == nil {
			return m, nil
		}
		return m.apply(planner.Reset{})

	case spinner.TickMsg:
		if !m.state.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Add):
			m.adding = true
			m.ti.SetValue(m.state.PendingName)
			m.ti.CursorEnd()
			m.resize()
			return m, m.ti.Focus()
		case key.Matches(msg, m.keys.Delete):
			it, ok := m.list.SelectedItem().(listItem)
			if !ok {
				return m, nil
			}
			return m.apply(planner.DeleteRequested{Name: it.Name})
		case key.Matches(msg, m.keys.Reload):
			return m.apply(planner.Reset{})
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.apply(planner.Submitted{})
	case key.Matches(msg, m.keys.Cancel):
		m.adding = false
		m.ti.Blur()
		m.resize()
		return m, nil
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	if m.ti.Value() == m.state.PendingName {
		return m, cmd
	}
	next, more := m.apply(planner.NameChanged{Text: m.ti.Value()})
	return next, tea.Batch(cmd, more)
}

// apply runs one planner transition and turns its effects into commands.
func (m Model) apply(ev planner.Event) (tea.Model, tea.Cmd) {
	wasBusy := m.state.Busy()
	hadErr := m.state.Err != nil

	var effects []planner.Effect
	m.state, effects = planner.Update(m.state, ev)

	var cmds []tea.Cmd
	if _, ok := ev.(planner.ItemsLoaded); ok {
		cmds = append(cmds, m.list.SetItems(toListItems(m.state.Items)))
	}
	if m.ti.Value() != m.state.PendingName {
		m.ti.SetValue(m.state.PendingName)
	}
	for _, eff := range effects {
		cmds = append(cmds, m.execute(eff))
	}
	if !wasBusy && m.state.Busy() {
		cmds = append(cmds, m.spin.Tick)
	}
	if !hadErr && m.state.Err != nil && m.opts.OnError == config.OnErrorReload {
		cmds = append(cmds, tea.Tick(m.opts.ReloadDelay, func(time.Time) tea.Msg { return resetMsg{} }))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) execute(eff planner.Effect) tea.Cmd {
	svc, timeout := m.opts.Service, m.opts.Timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return eventMsg{planner.Execute(ctx, svc, eff)}
	}
}

func (m *Model) resize() {
	// header, bar, status, help and the panel border
	reserved := 8
	if m.adding {
		reserved += 4
	}
	h := m.height - reserved
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
}
