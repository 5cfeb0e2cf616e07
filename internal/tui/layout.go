package tui

import (
	"fmt"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"

	"sufec-tui/internal/chat"
	"sufec-tui/internal/model"
)

// wrapLine hard-wraps s into display-width-sized chunks: a message of L
// cells occupies ceil(L/width) lines.
func wrapLine(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	var lines []string
	var cur strings.Builder
	w := 0
	for _, r := range s {
		rw := xansi.StringWidth(string(r))
		if w+rw > width && w > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			w = 0
		}
		cur.WriteRune(r)
		w += rw
	}
	lines = append(lines, cur.String())
	return lines
}

// renderContent turns message content into a display string. Unknown
// variants get a placeholder, never a crash.
func renderContent(c model.MessageContent) string {
	if c.Kind == model.ContentText {
		return c.Text
	}
	return fmt.Sprintf("[unsupported message: %s]", c.Kind)
}

func statusSuffix(s model.DeliveryStatus) string {
	switch s {
	case model.DeliveryPending:
		return " [sending]"
	case model.DeliveryFailed:
		return " [failed]"
	default:
		return ""
	}
}

// messagePaneLines lays out the active room's history for a pane of the
// given size: newest visible message at the bottom, wrapped lines,
// skipping the scroll offset's newest entries, truncated at the top.
func messagePaneLines(a *model.Account, v *chat.ViewState, width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	room := a.Room(v.ActiveRoomID)
	if room == nil {
		return nil
	}
	offset := v.Scroll[room.ID]

	var lines []string
	hist := room.History
	for i := len(hist) - 1 - offset; i >= 0; i-- {
		e := hist[i]
		text := chat.DisplayName(a, e.Sender) + ": " + renderContent(e.Content) + statusSuffix(e.Status)
		wrapped := wrapLine(text, width)
		lines = append(wrapped, lines...)
		if len(lines) >= height {
			return lines[len(lines)-height:]
		}
	}
	return lines
}
