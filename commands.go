package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/tripdeck/internal/history"
	"github.com/jask/tripdeck/internal/trip"
)

// Commands wrap the controller's blocking operations so the update loop never
// blocks; each settles into a typed message.

func planCmd(c *trip.Controller) tea.Cmd {
	return func() tea.Msg {
		return planDoneMsg{err: c.PlanTrip(context.Background())}
	}
}

func guideCmd(c *trip.Controller) tea.Cmd {
	return func() tea.Msg {
		return guideDoneMsg{err: c.GenerateGuide(context.Background())}
	}
}

func downloadCmd(c *trip.Controller, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := c.DownloadGuide(context.Background(), dir)
		return downloadDoneMsg{path: path, err: err}
	}
}

func healthCmd(c *trip.Client) tea.Cmd {
	return func() tea.Msg {
		return healthMsg{err: c.Health(context.Background())}
	}
}

func historyCmd(s *history.Store) tea.Cmd {
	return func() tea.Msg {
		trips, err := s.Recent(10)
		return historyMsg{trips: trips, err: err}
	}
}

func recordCmd(s *history.Store, snap trip.Snapshot) tea.Cmd {
	return func() tea.Msg {
		if snap.Plan == nil {
			return recordDoneMsg{}
		}
		_, err := s.Record(history.Trip{
			Start:    snap.Input.Start,
			End:      snap.Input.End,
			Mode:     string(snap.Input.Mode),
			MapFile:  snap.Plan.MapFile,
			DataFile: snap.Plan.DataFile,
		})
		return recordDoneMsg{err: err}
	}
}

func suggestCmd(s *history.Store, field int, input string) tea.Cmd {
	return func() tea.Msg {
		items, err := s.SuggestPlaces(input, 3)
		if err != nil {
			items = nil
		}
		return suggestMsg{field: field, items: items}
	}
}
