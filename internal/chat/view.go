package chat

import "sufec-tui/internal/model"

// SidebarMode selects which list the sidebar shows and navigates.
type SidebarMode int

const (
	ModeRooms SidebarMode = iota
	ModeMembers
	ModeContacts
)

// ViewState is transient navigation state. It is rebuilt from the
// account at startup and never persisted.
type ViewState struct {
	ActiveRoomID model.RoomID
	Mode         SidebarMode
	Selected     int
	// Scroll maps room id to the number of most-recent messages hidden
	// from the bottom of the view. Keys track Account.Rooms exactly:
	// registered on create, forgotten on remove.
	Scroll map[model.RoomID]int
	Input  string
	Width  int
	Height int
}

func NewViewState(a *model.Account) *ViewState {
	v := &ViewState{
		Mode:   ModeRooms,
		Scroll: map[model.RoomID]int{},
	}
	for i := range a.Rooms {
		v.Scroll[a.Rooms[i].ID] = 0
	}
	if len(a.Rooms) > 0 {
		v.ActiveRoomID = a.Rooms[0].ID
	}
	return v
}

func (v *ViewState) registerRoom(id model.RoomID) {
	v.Scroll[id] = 0
}

func (v *ViewState) forgetRoom(id model.RoomID) {
	delete(v.Scroll, id)
}

// listLen is the length of the list backing the current sidebar mode.
func (v *ViewState) listLen(a *model.Account) int {
	switch v.Mode {
	case ModeRooms:
		return len(a.Rooms)
	case ModeMembers:
		if r := a.Room(v.ActiveRoomID); r != nil {
			return len(r.Members)
		}
		return 0
	default:
		return len(a.Contacts)
	}
}

// SetMode switches the sidebar list and resets the selection.
func (v *ViewState) SetMode(mode SidebarMode) {
	v.Mode = mode
	v.Selected = 0
}

// MoveSelection clamps the selection to the backing list; it never
// wraps. In Rooms mode the selection is the active-room axis, so the
// active room follows it.
func (v *ViewState) MoveSelection(a *model.Account, delta int) {
	n := v.listLen(a)
	if n == 0 {
		v.Selected = 0
		return
	}
	next := v.Selected + delta
	if next < 0 {
		next = 0
	}
	if next > n-1 {
		next = n - 1
	}
	v.Selected = next
	if v.Mode == ModeRooms {
		v.ActiveRoomID = a.Rooms[next].ID
	}
}

// ScrollBy adjusts the active room's scroll offset, flooring at 0.
// No-op when the active room is gone.
func (v *ViewState) ScrollBy(amount int) {
	pos, ok := v.Scroll[v.ActiveRoomID]
	if !ok {
		return
	}
	pos += amount
	if pos < 0 {
		pos = 0
	}
	v.Scroll[v.ActiveRoomID] = pos
}

// repairAfterRemoval keeps the selection in bounds after the backing
// list shrank: when it now points past the end, step back one (floor 0).
func (v *ViewState) repairAfterRemoval(newLen int) {
	if v.Selected >= newLen && v.Selected > 0 {
		v.Selected--
	}
	if newLen == 0 {
		v.Selected = 0
	}
}
