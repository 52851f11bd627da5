package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive view on the alternate screen and blocks until
// the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
