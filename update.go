package main

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/tripdeck/internal/trip"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		// the tick doubles as a render refresh while a call is in flight
		m.snap = m.ctrl.Snapshot()
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case planDoneMsg:
		m.snap = m.ctrl.Snapshot()
		if errors.Is(msg.err, trip.ErrSuperseded) {
			return m, nil
		}
		if msg.err == nil && m.store != nil {
			return m, recordCmd(m.store, m.snap)
		}
		return m, nil

	case guideDoneMsg:
		m.snap = m.ctrl.Snapshot()
		return m, nil

	case downloadDoneMsg:
		m.downloading = false
		m.snap = m.ctrl.Snapshot()
		if msg.err == nil {
			m.lastDownload = msg.path
			m.downloadErr = ""
		} else if !errors.Is(msg.err, trip.ErrNoGuide) {
			// ErrNoGuide already surfaced through the session message
			m.lastDownload = ""
			m.downloadErr = "download failed: " + msg.err.Error()
		}
		return m, nil

	case healthMsg:
		if msg.err != nil {
			m.healthErr = "trip service unreachable: " + msg.err.Error()
		} else {
			m.healthErr = ""
		}
		return m, nil

	case historyMsg:
		if msg.err == nil {
			m.trips = msg.trips
		}
		return m, nil

	case recordDoneMsg:
		if msg.err != nil {
			m.storeWarning = "history not saved: " + msg.err.Error()
			return m, nil
		}
		if m.store != nil {
			return m, historyCmd(m.store)
		}
		return m, nil

	case suggestMsg:
		if msg.field == m.focus {
			m.suggestions = msg.items
			m.suggestFor = msg.field
		}
		return m, nil
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Plan):
		return m, planCmd(m.ctrl)

	case key.Matches(msg, m.keys.Guide):
		return m, guideCmd(m.ctrl)

	case key.Matches(msg, m.keys.Download):
		if m.downloading {
			return m, nil
		}
		m.downloading = true
		return m, downloadCmd(m.ctrl, m.cfg.Download.Dir)

	case key.Matches(msg, m.keys.Next):
		return m.moveFocus(1), nil

	case key.Matches(msg, m.keys.Prev):
		return m.moveFocus(-1), nil

	case key.Matches(msg, m.keys.Complete):
		return m.acceptSuggestion()
	}

	if m.focus == focusMode {
		switch msg.String() {
		case "left", "up", "h", "k":
			m.modeIdx = (m.modeIdx - 1 + len(trip.Modes)) % len(trip.Modes)
			m.ctrl.SetMode(trip.Modes[m.modeIdx])
			m.snap = m.ctrl.Snapshot()
		case "right", "down", "l", "j", " ":
			m.modeIdx = (m.modeIdx + 1) % len(trip.Modes)
			m.ctrl.SetMode(trip.Modes[m.modeIdx])
			m.snap = m.ctrl.Snapshot()
		}
		return m, nil
	}

	return m.updateFocusedInput(msg)
}

// updateFocusedInput forwards the key to the focused textinput and pushes any
// value change into the controller, which clears stale messages as a side
// effect.
func (m model) updateFocusedInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	idx := m.focus
	if idx != focusStart && idx != focusEnd {
		return m, nil
	}
	before := m.inputs[idx].Value()
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	after := m.inputs[idx].Value()
	if after == before {
		return m, cmd
	}

	if idx == focusStart {
		m.ctrl.SetStart(after)
	} else {
		m.ctrl.SetEnd(after)
	}
	m.snap = m.ctrl.Snapshot()

	if m.store != nil {
		return m, tea.Batch(cmd, suggestCmd(m.store, idx, after))
	}
	return m, cmd
}

func (m model) moveFocus(delta int) model {
	m.focus = (m.focus + delta + focusCount) % focusCount
	m.suggestions = nil
	m.suggestFor = -1
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

func (m model) acceptSuggestion() (tea.Model, tea.Cmd) {
	if len(m.suggestions) == 0 || m.suggestFor != m.focus {
		return m, nil
	}
	pick := m.suggestions[0]
	switch m.focus {
	case focusStart:
		m.inputs[focusStart].SetValue(pick)
		m.inputs[focusStart].CursorEnd()
		m.ctrl.SetStart(pick)
	case focusEnd:
		m.inputs[focusEnd].SetValue(pick)
		m.inputs[focusEnd].CursorEnd()
		m.ctrl.SetEnd(pick)
	default:
		return m, nil
	}
	m.snap = m.ctrl.Snapshot()
	m.suggestions = nil
	return m, nil
}
