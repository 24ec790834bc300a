package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"kinetic/internal/adapters/ledgercsv"
	"kinetic/internal/adapters/tui"
	"kinetic/internal/config"
)

func main() {
	cfg, err := config.Load(config.Root())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	repo := ledgercsv.NewLedgerFile(cfg.LedgerPath())
	app := tui.NewApp(repo)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
