package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/courier/internal/prefs"
	"github.com/five82/courier/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewEndpoints View = iota
	ViewLogs
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Targets   []state.Target
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
	LogPath   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	targets   []state.Target
	prefsPath string
	logPath   string
	pollTick  time.Duration
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	notice      string

	// Data state
	snapshot    state.Snapshot
	snapshots   <-chan state.Snapshot
	lastUpdated time.Time

	selectedRow    int
	detailViewport viewport.Model

	logViewport viewport.Model
	logLines    []string
	logFollow   bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		targets:     opts.Targets,
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		pollTick:    pollTick,
		keys:        defaultKeyMap(),
		theme:       GetTheme(opts.ThemeName),
		currentView: ViewEndpoints,
		logFollow:   true,
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.snapshots != nil {
		cmds = append(cmds, waitSnapshotCmd(m.snapshots))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		// Subscribers run on the dispatching goroutines, so snapshots can
		// arrive out of order.
		if snap := state.Snapshot(msg); snap.Version >= m.snapshot.Version {
			m.applySnapshot(snap)
		}
		var cmd tea.Cmd
		if m.snapshots != nil {
			cmd = waitSnapshotCmd(m.snapshots)
		}
		return m, cmd

	case settledMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		}
		if m.store != nil {
			m.applySnapshot(m.store.Snapshot())
		}
		return m, nil

	case logLinesMsg:
		m.logLines = msg
		m.updateLogViewport()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	switch m.currentView {
	case ViewLogs:
		b.WriteString(m.logViewport.View())
	default:
		b.WriteString(m.renderTable())
		b.WriteString("\n")
		b.WriteString(m.detailViewport.View())
	}
	return b.String()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
			m.notice = err.Error()
		}
		m.updateDetailViewport()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		if m.currentView == ViewLogs {
			m.currentView = ViewEndpoints
			return m, nil
		}
		m.currentView = ViewLogs
		return m, readLogsCmd(m.logPath)

	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewEndpoints
		return m, nil
	}

	if m.currentView == ViewLogs {
		return m.handleLogsKey(msg)
	}
	return m.handleEndpointsKey(msg)
}

func (m Model) handleEndpointsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.targets)

	switch {
	case key.Matches(msg, m.keys.Refresh):
		t, ok := m.selectedTarget()
		if !ok {
			return m, nil
		}
		return m, m.requestCmd(t)

	case key.Matches(msg, m.keys.RefreshAll):
		cmds := make([]tea.Cmd, 0, count)
		for _, t := range m.targets {
			cmds = append(cmds, m.requestCmd(t))
		}
		return m, tea.Batch(cmds...)

	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
			m.detailViewport.GotoTop()
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
			m.detailViewport.GotoTop()
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
		m.detailViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		if count > 0 {
			m.selectedRow = count - 1
			m.detailViewport.GotoTop()
		}
	case key.Matches(msg, m.keys.HalfPageDown):
		m.detailViewport.HalfPageDown()
		return m, nil
	case key.Matches(msg, m.keys.HalfPageUp):
		m.detailViewport.HalfPageUp()
		return m, nil
	default:
		return m, nil
	}

	m.updateDetailViewport()
	return m, nil
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logFollow = !m.logFollow
		if m.logFollow {
			m.logViewport.GotoBottom()
		}
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		m.logFollow = false
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		m.logFollow = false
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logFollow = false
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
		m.logFollow = false
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.snapshots == nil && m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewLogs && m.logFollow {
		cmds = append(cmds, readLogsCmd(m.logPath))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.lastUpdated = time.Now()
	m.updateDetailViewport()
}

func (m *Model) resize() {
	// header + command bar + table header + rows + spacer
	tableHeight := len(m.targets) + 1
	detailHeight := max(m.height-2-tableHeight-1, 3)

	m.detailViewport.Width = m.width
	m.detailViewport.Height = detailHeight
	m.logViewport.Width = m.width
	m.logViewport.Height = max(m.height-2, 3)

	m.updateDetailViewport()
	m.updateLogViewport()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// settledMsg reports that a UI-triggered request finished.
type settledMsg struct{ err error }

type logLinesMsg []string

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func waitSnapshotCmd(ch <-chan state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

// requestCmd dispatches a fresh request for t and reports once it settles.
func (m Model) requestCmd(t state.Target) tea.Cmd {
	if m.store == nil {
		return nil
	}
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		flight, err := t.Request(store)
		if err != nil {
			return settledMsg{err: err}
		}
		_, err = flight.Wait(ctx)
		return settledMsg{err: err}
	}
}

// subscribe feeds store snapshots into a channel that keeps only the newest
// one, so a slow UI never blocks a dispatch.
func subscribe(store *state.Store) (<-chan state.Snapshot, func()) {
	ch := make(chan state.Snapshot, 1)
	unsubscribe := store.Subscribe(func(snap state.Snapshot) {
		for {
			select {
			case ch <- snap:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	})
	return ch, unsubscribe
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	if m.store != nil {
		ch, unsubscribe := subscribe(m.store)
		defer unsubscribe()
		m.snapshots = ch
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
