// Package tui provides a read-only terminal browser over the ledger.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"kinetic/internal/adapters/tui/views"
	"kinetic/internal/ports"
)

// App is the main TUI application model
type App struct {
	browser *views.BrowserModel

	width  int
	height int
}

// NewApp creates a new TUI application over the given ledger
func NewApp(repo ports.LedgerRepository) *App {
	return &App{
		browser: views.NewBrowserModel(repo),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		return a, nil
	}

	_, cmd := a.browser.Update(msg)
	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	return a.browser.View()
}
