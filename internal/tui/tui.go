package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"sufec-tui/internal/chat"
)

// Run drives the interactive client until the user quits or a
// persistence failure forces an exit. The alt screen restores the
// terminal on the way out.
func Run(e *chat.Engine) error {
	p := tea.NewProgram(newAppModel(e), tea.WithAltScreen())
	e.SetNotify(func() { p.Send(stateChangedMsg{}) })
	defer e.SetNotify(nil)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(appModel); ok && m.fatal != nil {
		return m.fatal
	}
	return nil
}
