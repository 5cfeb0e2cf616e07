package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"

	"sufec-tui/internal/model"
)

// NewRoomID returns room-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding). 8 chars base32 ~= 40 bits of space, which is
// plenty for one account's rooms, but collisions are still checked:
// generation retries until the id is free in the given room store.
func NewRoomID(rooms []model.Room) (model.RoomID, error) {
	for {
		var b [5]byte
		if _, err := rand.Read(b[:]); err != nil {
			return "", err
		}
		enc := base32.StdEncoding.WithPadding(base32.NoPadding)
		id := model.RoomID("room-" + strings.ToLower(enc.EncodeToString(b[:])))
		if !roomIDExists(rooms, id) {
			return id, nil
		}
	}
}

func roomIDExists(rooms []model.Room, id model.RoomID) bool {
	for i := range rooms {
		if rooms[i].ID == id {
			return true
		}
	}
	return false
}
