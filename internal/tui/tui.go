package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the editor full screen and blocks until the user quits. It
// returns the final model.
func Run(m Model) (Model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return m, fmt.Errorf("running editor: %w", err)
	}
	out, ok := final.(Model)
	if !ok {
		return m, fmt.Errorf("unexpected model type %T", final)
	}
	return out, nil
}
