package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/tripdeck/internal/trip"
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(appName))
	if m.healthErr != "" {
		b.WriteString("  " + errStyle.Render(m.healthErr))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderForm())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	if m.snap.Plan != nil {
		b.WriteString(m.renderTrip())
		b.WriteString("\n")
	}
	if len(m.trips) > 0 {
		b.WriteString(m.renderHistory())
		b.WriteString("\n")
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m model) renderForm() string {
	rows := []string{
		m.renderField(focusStart, "Start", m.inputs[focusStart].View()),
		m.renderField(focusEnd, "End", m.inputs[focusEnd].View()),
		m.renderField(focusMode, "Mode", m.renderModes()),
	}
	if len(m.suggestions) > 0 && m.suggestFor == m.focus {
		rows = append(rows, dimStyle.Render("  places: "+strings.Join(m.suggestions, ", ")))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}

func (m model) renderField(idx int, label, value string) string {
	l := labelStyle.Render(fmt.Sprintf("%-6s", label))
	if m.focus == idx {
		l = focusedStyle.Render(fmt.Sprintf("%-6s", label))
	}
	return l + " " + value
}

func (m model) renderModes() string {
	parts := make([]string, len(trip.Modes))
	for i, mo := range trip.Modes {
		s := string(mo)
		if i == m.modeIdx {
			s = focusedStyle.Render("[" + s + "]")
		} else {
			s = dimStyle.Render(s)
		}
		parts[i] = s
	}
	return strings.Join(parts, " ")
}

func (m model) renderStatus() string {
	switch {
	case m.snap.Planning():
		return m.spin.View() + " Planning trip..."
	case m.snap.Generating():
		return m.spin.View() + " Generating travel guide..."
	case m.downloading:
		return m.spin.View() + " Downloading guide..."
	case m.downloadErr != "":
		return errStyle.Render(m.downloadErr)
	case m.snap.Err() != "":
		return errStyle.Render(m.snap.Err())
	case m.snap.Success() != "":
		s := okStyle.Render(m.snap.Success())
		if m.lastDownload != "" {
			s += dimStyle.Render("  saved to " + m.lastDownload)
		}
		return s
	case m.storeWarning != "":
		return dimStyle.Render(m.storeWarning)
	}
	return dimStyle.Render("Enter start and end points, then press enter.")
}

func (m model) renderTrip() string {
	var rows []string
	rows = append(rows, labelStyle.Render("Route map  ")+m.snap.MapRef)
	rows = append(rows, labelStyle.Render("Route data ")+m.snap.Plan.DataFile)
	if m.snap.GuideFile != "" {
		rows = append(rows, labelStyle.Render("Guide      ")+m.ctrl.Client().GuideURL(m.snap.GuideFile))
	} else {
		rows = append(rows, dimStyle.Render("Guide      not generated (ctrl+g)"))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}

func (m model) renderHistory() string {
	rows := []string{labelStyle.Render("Recent trips")}
	for _, t := range m.trips {
		rows = append(rows, fmt.Sprintf("%s  %s → %s  %s",
			dimStyle.Render(t.PlannedAt.Format("02 Jan 15:04")), t.Start, t.End, dimStyle.Render(t.Mode)))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}

func (m model) renderFooter() string {
	bindings := []string{
		"tab focus", "enter plan", "ctrl+g guide", "ctrl+d download",
	}
	if len(m.suggestions) > 0 {
		bindings = append(bindings, "ctrl+e complete")
	}
	bindings = append(bindings, "esc quit")
	footer := footerStyle.Render(strings.Join(bindings, " · "))
	if m.width > 0 {
		footer = lipgloss.NewStyle().Width(m.width).Render(footer)
	}
	return footer
}
