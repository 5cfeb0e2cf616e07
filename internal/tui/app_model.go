package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"sufec-tui/internal/chat"
)

// stateChangedMsg wakes the UI after a mutation from outside the
// interactive loop (inbound message, key rotation, delivery report).
type stateChangedMsg struct{}

type appModel struct {
	engine *chat.Engine

	input  textinput.Model
	width  int
	height int

	// fatal carries a persistence failure out of the program; the
	// process must not keep running with unsaved state.
	fatal error
}

func newAppModel(e *chat.Engine) appModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = ""
	ti.Focus()
	return appModel{engine: e, input: ti}
}

func (m appModel) Init() tea.Cmd {
	return textinput.Blink
}
