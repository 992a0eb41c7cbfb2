package main

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/tripdeck/internal/config"
	"github.com/jask/tripdeck/internal/history"
	"github.com/jask/tripdeck/internal/trip"
)

const appName = "Tripdeck"

// ---------------------------------------------------------------------------
// Focus sections
// ---------------------------------------------------------------------------

const (
	focusStart = iota
	focusEnd
	focusMode
	focusCount
)

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------

type planDoneMsg struct {
	err error
}

type guideDoneMsg struct {
	err error
}

type downloadDoneMsg struct {
	path string
	err  error
}

type healthMsg struct {
	err error
}

type historyMsg struct {
	trips []history.Trip
	err   error
}

type suggestMsg struct {
	field int
	items []string
}

type recordDoneMsg struct {
	err error
}

// ---------------------------------------------------------------------------
// Key bindings
// ---------------------------------------------------------------------------

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Plan     key.Binding
	Guide    key.Binding
	Download key.Binding
	Complete key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Plan:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "plan trip")),
		Guide:    key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "generate guide")),
		Download: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "download guide")),
		Complete: key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "complete place")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

// ---------------------------------------------------------------------------
// Styles
// ---------------------------------------------------------------------------

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Padding(0, 2)
)

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type model struct {
	ctrl  *trip.Controller
	store *history.Store // nil when the history db failed to open
	cfg   config.Config

	snap    trip.Snapshot
	inputs  [2]textinput.Model // start, end
	modeIdx int
	focus   int
	keys    keyMap
	spin    spinner.Model

	trips        []history.Trip
	suggestions  []string
	suggestFor   int
	lastDownload string
	downloadErr  string
	downloading  bool
	healthErr    string
	storeWarning string

	width  int
	height int
}

func newModel(cfg config.Config, ctrl *trip.Controller, store *history.Store) model {
	start := textinput.New()
	start.Placeholder = "e.g. Paris"
	start.Prompt = ""
	start.CharLimit = 120
	start.Focus()

	end := textinput.New()
	end.Placeholder = "e.g. Berlin"
	end.Prompt = ""
	end.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = focusedStyle

	snap := ctrl.Snapshot()
	modeIdx := 0
	for i, mo := range trip.Modes {
		if mo == snap.Input.Mode {
			modeIdx = i
		}
	}

	return model{
		ctrl:       ctrl,
		store:      store,
		cfg:        cfg,
		snap:       snap,
		inputs:     [2]textinput.Model{start, end},
		modeIdx:    modeIdx,
		keys:       newKeyMap(),
		spin:       sp,
		suggestFor: -1,
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spin.Tick, healthCmd(m.ctrl.Client())}
	if m.store != nil {
		cmds = append(cmds, historyCmd(m.store))
	}
	return tea.Batch(cmds...)
}
