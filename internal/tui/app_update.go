package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"sufec-tui/internal/chat"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateChangedMsg:
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.engine.SetViewport(msg.Width, msg.Height)
		m.input.Width = max(0, msg.Width-1)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// fail stores a persistence error and quits; continuing with unsaved
// state risks silent data loss.
func (m appModel) fail(err error) (tea.Model, tea.Cmd) {
	m.fatal = err
	return m, tea.Quit
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	_, view := m.engine.Snapshot()

	switch msg.String() {
	case "esc":
		return m, tea.Quit

	case "enter":
		consumed, err := m.engine.SubmitMessage(m.input.Value())
		if err != nil {
			return m.fail(err)
		}
		if consumed {
			m.input.Reset()
		}
		return m, nil

	case "up":
		m.engine.ScrollActive(1)
		return m, nil
	case "down":
		m.engine.ScrollActive(-1)
		return m, nil

	case "ctrl+up":
		if err := m.engine.MoveSelection(-1); err != nil {
			return m.fail(err)
		}
		return m, nil
	case "ctrl+down":
		if err := m.engine.MoveSelection(1); err != nil {
			return m.fail(err)
		}
		return m, nil

	case "ctrl+n":
		if err := m.engine.AddRoom(); err != nil {
			return m.fail(err)
		}
		return m, nil

	case "ctrl+e":
		if m.input.Value() == "" {
			return m, nil
		}
		var consumed bool
		var err error
		switch view.Mode {
		case chat.ModeRooms:
			consumed, err = m.engine.RenameActiveRoom(m.input.Value())
		case chat.ModeMembers:
			consumed, err = m.engine.RenameSelectedMember(m.input.Value())
		default:
			consumed, err = m.engine.RenameSelectedContact(m.input.Value())
		}
		if err != nil {
			return m.fail(err)
		}
		if consumed {
			m.input.Reset()
		}
		return m, nil

	case "ctrl+d":
		var err error
		switch view.Mode {
		case chat.ModeRooms:
			err = m.engine.RemoveActiveRoom()
		case chat.ModeMembers:
			err = m.engine.RemoveSelectedMember()
		default:
			err = m.engine.RemoveSelectedContact()
		}
		if err != nil {
			return m.fail(err)
		}
		return m, nil

	case "ctrl+a":
		consumed, err := m.engine.AddMember(m.input.Value())
		if err != nil {
			return m.fail(err)
		}
		if consumed {
			m.input.Reset()
		}
		return m, nil

	case "ctrl+p":
		consumed, err := m.engine.AddContact(m.input.Value())
		if err != nil {
			return m.fail(err)
		}
		if consumed {
			m.input.Reset()
		}
		return m, nil

	case "ctrl+r":
		m.engine.ShowRooms()
		return m, nil
	case "ctrl+u":
		m.engine.ShowMembers()
		return m, nil
	case "ctrl+c":
		m.engine.ShowContacts()
		return m, nil

	case "alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6", "alt+7", "alt+8", "alt+9", "alt+0":
		n := int(msg.String()[4] - '0')
		if n == 0 {
			n = 10
		}
		if err := m.engine.JumpToRoom(n - 1); err != nil {
			return m.fail(err)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.engine.SetInput(m.input.Value())
	return m, cmd
}
