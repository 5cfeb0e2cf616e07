package chat

import (
	"sort"

	"sufec-tui/internal/model"
	"sufec-tui/internal/store"
)

// participantSet builds the canonical participant set for a message:
// co-recipients plus the sender, deduplicated and sorted by byte order.
// The sender is always included, even when co_recipients is empty, so a
// reply never lands in a different room than the original.
func participantSet(sender model.Address, others []model.Address) []model.Address {
	set := make([]model.Address, 0, len(others)+1)
	seen := map[model.Address]bool{}
	for _, a := range append(append([]model.Address{}, others...), sender) {
		if !seen[a] {
			seen[a] = true
			set = append(set, a)
		}
	}
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	return set
}

// sameMembers reports set equality regardless of stored order.
func sameMembers(members []model.Address, sorted []model.Address) bool {
	if len(members) != len(sorted) {
		return false
	}
	ms := append([]model.Address(nil), members...)
	sort.Slice(ms, func(i, j int) bool { return ms[i] < ms[j] })
	for i := range ms {
		if ms[i] != sorted[i] {
			return false
		}
	}
	return true
}

// resolveInbound appends entry to the room whose member set equals
// {sender} ∪ others, creating the room if none matches. Returns the
// room and whether it was created. Callers hold the write lock, so no
// duplicate room can be created for the same set.
func resolveInbound(a *model.Account, v *ViewState, sender model.Address, others []model.Address, entry model.HistoryEntry) (*model.Room, bool, error) {
	want := participantSet(sender, others)
	for i := range a.Rooms {
		r := &a.Rooms[i]
		if sameMembers(r.Members, want) {
			r.History = append(r.History, entry)
			if r.ID != v.ActiveRoomID {
				r.Unseen++
			}
			return r, false, nil
		}
	}

	id, err := store.NewRoomID(a.Rooms)
	if err != nil {
		return nil, false, err
	}
	room := model.Room{
		ID:      id,
		Name:    "New room",
		Members: want,
		History: []model.HistoryEntry{entry},
		Unseen:  1,
	}
	a.Rooms = append(a.Rooms, room)
	v.registerRoom(id)
	return &a.Rooms[len(a.Rooms)-1], true, nil
}
