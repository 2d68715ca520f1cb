package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ReadCommand shows snap in a full-screen Paused console and blocks until
// the user submits a command line or cancels. Cancelling (Esc/Ctrl+C)
// returns "quit".
func ReadCommand(snap Snapshot) (string, error) {
	p := tea.NewProgram(NewModel(snap), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	cmd, _ := final.(Model).Command()
	return cmd, nil
}
