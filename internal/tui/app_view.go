package tui

import (
	"fmt"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"

	"sufec-tui/internal/chat"
	"sufec-tui/internal/model"
)

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	account, view := m.engine.Snapshot()

	sep := m.width / 3
	paneHeight := m.height - 2 // separator row + input row
	msgWidth := m.width - sep - 1

	sidebar := sidebarLines(&account, &view, sep-1, paneHeight)
	messages := messagePaneLines(&account, &view, msgWidth, paneHeight)

	var b strings.Builder
	for y := 0; y < paneHeight; y++ {
		left := ""
		if y < len(sidebar) {
			left = sidebar[y]
		}
		b.WriteString(pad(left, sep-1))
		b.WriteString(styleChrome.Render("│"))
		// Messages render bottom-aligned.
		mi := y - (paneHeight - len(messages))
		if mi >= 0 && mi < len(messages) {
			b.WriteString(messages[mi])
		}
		b.WriteString("\n")
	}
	b.WriteString(styleChrome.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := xansi.StringWidth(s)
	if w > width {
		return xansi.Cut(s, 0, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// sidebarLines renders whichever list the sidebar mode selects, one row
// per item, selection inverted.
func sidebarLines(a *model.Account, v *chat.ViewState, width, height int) []string {
	var lines []string
	switch v.Mode {
	case chat.ModeRooms:
		for i := range a.Rooms {
			r := &a.Rooms[i]
			label := r.Name
			if r.Unseen > 0 {
				label = fmt.Sprintf("%s (%d)", r.Name, r.Unseen)
			}
			label = pad(label, width)
			if r.ID == v.ActiveRoomID {
				label = styleSelected.Render(label)
			} else if r.Unseen > 0 {
				label = styleUnseen.Render(label)
			}
			lines = append(lines, label)
		}
	case chat.ModeMembers:
		if room := a.Room(v.ActiveRoomID); room != nil {
			for i, member := range room.Members {
				label := pad(chat.DisplayName(a, member), width)
				if i == v.Selected {
					label = styleSelected.Render(label)
				}
				lines = append(lines, label)
			}
		}
	default:
		for i := range a.Contacts {
			label := pad(a.Contacts[i].Name, width)
			if i == v.Selected {
				label = styleSelected.Render(label)
			}
			lines = append(lines, label)
		}
	}
	if len(lines) > height && height >= 0 {
		lines = lines[:height]
	}
	return lines
}
