package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/tripdeck/internal/config"
	"github.com/jask/tripdeck/internal/history"
	"github.com/jask/tripdeck/internal/trip"
)

func main() {
	serviceURL := flag.String("service", "", "trip service base URL (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tripdeck: %v\n", err)
		os.Exit(1)
	}
	if *serviceURL != "" {
		cfg.Service.BaseURL = *serviceURL
		cfg = config.Normalize(cfg)
	}

	client := trip.NewClient(cfg.Service.BaseURL, time.Duration(cfg.Service.TimeoutSeconds)*time.Second)
	ctrl := trip.NewController(client, trip.ParseMode(cfg.UI.DefaultMode))

	// history is a convenience; the planner works without it
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tripdeck: trip history disabled: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	p := tea.NewProgram(newModel(cfg, ctrl, store), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tripdeck: %v\n", err)
		os.Exit(1)
	}
}
