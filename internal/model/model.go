package model

import (
	"errors"
	"strings"
)

// Address identifies a network identity as <id>@<homeserver>. It is
// immutable, comparable, and totally ordered by its byte representation,
// which is what the room resolver sorts by.
type Address string

var errBadAddress = errors.New("malformed address")

// ParseAddress validates s as a raw address. Both halves must be
// non-empty and the id half must not contain whitespace or a second '@'.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	id, host, ok := strings.Cut(s, "@")
	if !ok || id == "" || host == "" {
		return "", errBadAddress
	}
	if strings.ContainsAny(id, " \t@") || strings.ContainsAny(host, " \t@") {
		return "", errBadAddress
	}
	return Address(s), nil
}

func (a Address) String() string { return string(a) }

// RoomID is a short random handle, unique within one account's room
// store but not globally.
type RoomID string

type Contact struct {
	Address Address `json:"address"`
	Name    string  `json:"name"`
}

// DeliveryStatus tracks outbound delivery per history entry. Inbound
// entries leave it empty.
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

type HistoryEntry struct {
	Sender Address `json:"sender"`
	// Timestamp is microseconds since epoch. Monotonic in the common
	// case only; never enforced.
	Timestamp uint64         `json:"timestamp"`
	Content   MessageContent `json:"content"`
	Status    DeliveryStatus `json:"status,omitempty"`
}

type Room struct {
	ID   RoomID `json:"id"`
	Name string `json:"name"`
	// Members is order-independent identity: two rooms are the same
	// conversation iff their member sets are equal as sets.
	Members []Address      `json:"members"`
	History []HistoryEntry `json:"history"`
	Unseen  int            `json:"unseen"`
}

// Key is raw 32-byte NaCl box key material. encoding/json renders it as
// base64, which is what the snapshot format uses.
type Key []byte

// Account is the top-level aggregate persisted as one snapshot.
// The ephemeral keypair is owned by the transport layer; the core only
// stores whatever it was last handed.
type Account struct {
	Self     Address   `json:"self"`
	Contacts []Contact `json:"contacts"`
	Rooms    []Room    `json:"rooms"`
	EphPub   Key       `json:"ephPub"`
	EphSec   Key       `json:"ephSec"`
}

// Room returns the room with the given id, or nil.
func (a *Account) Room(id RoomID) *Room {
	for i := range a.Rooms {
		if a.Rooms[i].ID == id {
			return &a.Rooms[i]
		}
	}
	return nil
}

// Clone deep-copies the account so renderers can walk it outside the
// write lock. History entries are immutable once appended, so sharing
// their raw content bytes is fine.
func (a *Account) Clone() *Account {
	out := &Account{
		Self:     a.Self,
		Contacts: append([]Contact(nil), a.Contacts...),
		Rooms:    make([]Room, len(a.Rooms)),
		EphPub:   append(Key(nil), a.EphPub...),
		EphSec:   append(Key(nil), a.EphSec...),
	}
	for i, r := range a.Rooms {
		r.Members = append([]Address(nil), r.Members...)
		r.History = append([]HistoryEntry(nil), r.History...)
		out.Rooms[i] = r
	}
	return out
}
