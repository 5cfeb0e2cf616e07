package chat

import (
	"testing"

	"sufec-tui/internal/model"
)

func threeRoomAccount() *model.Account {
	return &model.Account{
		Self: self,
		Rooms: []model.Room{
			{ID: "room-1", Name: "one", Members: []model.Address{addrA}},
			{ID: "room-2", Name: "two", Members: []model.Address{addrB}},
			{ID: "room-3", Name: "three", Members: []model.Address{addrC}},
		},
		Contacts: []model.Contact{{Address: addrA, Name: "alice"}},
	}
}

func TestNewViewState_Defaults(t *testing.T) {
	t.Parallel()

	a := threeRoomAccount()
	v := NewViewState(a)
	if v.ActiveRoomID != "room-1" || v.Mode != ModeRooms || v.Selected != 0 {
		t.Fatalf("defaults = active %s mode %d selected %d", v.ActiveRoomID, v.Mode, v.Selected)
	}
	if len(v.Scroll) != 3 {
		t.Fatalf("scroll offsets = %d; want one per room", len(v.Scroll))
	}

	empty := NewViewState(&model.Account{Self: self})
	if empty.ActiveRoomID != "" || empty.Selected != 0 {
		t.Fatalf("empty account: active %q selected %d", empty.ActiveRoomID, empty.Selected)
	}
}

func TestMoveSelection_ClampsAndTracksActiveRoom(t *testing.T) {
	t.Parallel()

	a := threeRoomAccount()
	v := NewViewState(a)

	// Stays in bounds for any delta.
	v.MoveSelection(a, -5)
	if v.Selected != 0 || v.ActiveRoomID != "room-1" {
		t.Fatalf("after -5: selected %d active %s", v.Selected, v.ActiveRoomID)
	}
	v.MoveSelection(a, 2)
	if v.Selected != 2 || v.ActiveRoomID != "room-3" {
		t.Fatalf("after +2: selected %d active %s", v.Selected, v.ActiveRoomID)
	}
	v.MoveSelection(a, 10)
	if v.Selected != 2 {
		t.Fatalf("clamp at end: selected %d; want 2", v.Selected)
	}
}

func TestMoveSelection_EmptyList(t *testing.T) {
	t.Parallel()

	a := &model.Account{Self: self}
	v := NewViewState(a)
	v.MoveSelection(a, 1)
	v.MoveSelection(a, -1)
	if v.Selected != 0 {
		t.Fatalf("selected = %d on empty list; want 0", v.Selected)
	}
}

func TestSetMode_ResetsSelection(t *testing.T) {
	t.Parallel()

	a := threeRoomAccount()
	v := NewViewState(a)
	v.MoveSelection(a, 2)

	v.SetMode(ModeContacts)
	if v.Mode != ModeContacts || v.Selected != 0 {
		t.Fatalf("after SetMode: mode %d selected %d", v.Mode, v.Selected)
	}
	// The members list follows the active room.
	v.SetMode(ModeMembers)
	if got := v.listLen(a); got != 1 {
		t.Fatalf("members list len = %d; want 1", got)
	}
}

func TestScrollBy_FloorsAtZero(t *testing.T) {
	t.Parallel()

	a := threeRoomAccount()
	v := NewViewState(a)

	// Repeated negative scrolls never go below 0.
	v.ScrollBy(3)
	for i := 0; i < 10; i++ {
		v.ScrollBy(-2)
	}
	if got := v.Scroll["room-1"]; got != 0 {
		t.Fatalf("scroll = %d; want 0", got)
	}

	// Scrolling with no matching room is a no-op.
	v.ActiveRoomID = "room-gone"
	v.ScrollBy(5)
	if _, ok := v.Scroll["room-gone"]; ok {
		t.Fatalf("scroll map grew a key for a missing room")
	}
}

func TestRepairAfterRemoval(t *testing.T) {
	t.Parallel()

	// Selected last of 3, remove it, selection becomes 1.
	v := &ViewState{Selected: 2}
	v.repairAfterRemoval(2)
	if v.Selected != 1 {
		t.Fatalf("selected = %d; want 1", v.Selected)
	}

	// Removing from the middle leaves the selection alone.
	v.Selected = 0
	v.repairAfterRemoval(1)
	if v.Selected != 0 {
		t.Fatalf("selected = %d; want 0", v.Selected)
	}

	// Emptied list floors at 0.
	v.Selected = 0
	v.repairAfterRemoval(0)
	if v.Selected != 0 {
		t.Fatalf("selected = %d; want 0", v.Selected)
	}
}
