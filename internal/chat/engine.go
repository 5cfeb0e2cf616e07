package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"sufec-tui/internal/model"
	"sufec-tui/internal/store"
	"sufec-tui/internal/transport"
)

// Engine owns the shared (Account, ViewState) pair behind one
// reader-writer lock. Every mutation, whether an interactive command
// or a listener callback, takes the write lock, applies, saves the
// whole account snapshot, and releases; renderers take the read lock.
// Persistence I/O is serialized with all other mutations.
//
// Persistence failure propagates to the caller; the in-memory mutation
// is not rolled back.
type Engine struct {
	mu  sync.RWMutex
	st  store.Store
	log *slog.Logger

	account *model.Account
	view    *ViewState

	fan    *transport.FanOut
	notify func()
}

func NewEngine(st store.Store, account *model.Account, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		st:      st,
		log:     log,
		account: account,
		view:    NewViewState(account),
	}
}

// SetFanOut wires the outbound sender. Without one, submits stay local.
func (e *Engine) SetFanOut(f *transport.FanOut) { e.fan = f }

// SetNotify registers a wake-up callback fired after any mutation that
// came from outside the interactive loop (listener callbacks, delivery
// reports). It must not call back into the Engine.
func (e *Engine) SetNotify(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notify = fn
}

func (e *Engine) wake() {
	e.mu.RLock()
	fn := e.notify
	e.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Snapshot returns deep copies for rendering.
func (e *Engine) Snapshot() (model.Account, ViewState) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a := e.account.Clone()
	v := *e.view
	v.Scroll = make(map[model.RoomID]int, len(e.view.Scroll))
	for k, off := range e.view.Scroll {
		v.Scroll[k] = off
	}
	return *a, v
}

func (e *Engine) persistLocked() error {
	return e.st.SaveAccount(e.account)
}

func nowMicros() uint64 { return uint64(time.Now().UnixMicro()) }

// --- interactive commands -------------------------------------------------

// SubmitMessage appends text to the active room's history with pending
// delivery status, persists, and fans the message out to every member.
// No-op when the active room no longer exists (it may have been removed
// concurrently); reported as consumed=false so the input is kept.
func (e *Engine) SubmitMessage(text string) (consumed bool, err error) {
	e.mu.Lock()
	room := e.account.Room(e.view.ActiveRoomID)
	if room == nil {
		e.mu.Unlock()
		return false, nil
	}
	content := model.TextContent(text)
	entry := model.HistoryEntry{
		Sender:    e.account.Self,
		Timestamp: nowMicros(),
		Content:   content,
		Status:    model.DeliveryPending,
	}
	room.History = append(room.History, entry)
	e.view.Input = ""
	roomID := room.ID
	self := e.account.Self
	members := append([]model.Address(nil), room.Members...)
	err = e.persistLocked()
	e.mu.Unlock()
	if err != nil {
		return true, err
	}

	if e.fan == nil || len(members) == 0 {
		e.markDelivery(roomID, entry.Timestamp, model.DeliverySent)
		return true, nil
	}

	// One fire-and-forget send per member; the entry turns sent when
	// every member succeeded, failed as soon as one exhausts retries.
	var remaining atomic.Int64
	var failed atomic.Bool
	remaining.Store(int64(len(members)))
	e.fan.Broadcast(context.Background(), self, members, content, func(to model.Address, sendErr error) {
		if sendErr != nil {
			if failed.CompareAndSwap(false, true) {
				e.markDelivery(roomID, entry.Timestamp, model.DeliveryFailed)
			}
		}
		if remaining.Add(-1) == 0 && !failed.Load() {
			e.markDelivery(roomID, entry.Timestamp, model.DeliverySent)
		}
	})
	return true, nil
}

// markDelivery runs on sender goroutines; persistence errors here are
// logged rather than propagated since no command is in flight.
func (e *Engine) markDelivery(roomID model.RoomID, ts uint64, status model.DeliveryStatus) {
	e.mu.Lock()
	room := e.account.Room(roomID)
	if room == nil {
		e.mu.Unlock()
		return
	}
	updated := false
	for i := len(room.History) - 1; i >= 0; i-- {
		en := &room.History[i]
		if en.Timestamp == ts && en.Sender == e.account.Self {
			en.Status = status
			updated = true
			break
		}
	}
	var err error
	if updated {
		err = e.persistLocked()
	}
	e.mu.Unlock()
	if err != nil {
		e.log.Error("persist delivery status", "room", string(roomID), "err", err)
	}
	if updated {
		e.wake()
	}
}

// AddRoom creates an empty room and makes it active.
func (e *Engine) AddRoom() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, err := store.NewRoomID(e.account.Rooms)
	if err != nil {
		return err
	}
	e.account.Rooms = append(e.account.Rooms, model.Room{ID: id, Name: "New room"})
	e.view.registerRoom(id)
	e.view.ActiveRoomID = id
	return e.persistLocked()
}

// RenameActiveRoom sets the active room's name. No-op if the room is gone.
func (e *Engine) RenameActiveRoom(name string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	room := e.account.Room(e.view.ActiveRoomID)
	if room == nil {
		return false, nil
	}
	room.Name = name
	e.view.Input = ""
	return true, e.persistLocked()
}

// RemoveActiveRoom drops the active room, its scroll offset, and moves
// the active room to the first remaining one.
func (e *Engine) RemoveActiveRoom() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.view.ActiveRoomID
	kept := e.account.Rooms[:0]
	removed := false
	for _, r := range e.account.Rooms {
		if r.ID == id {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if !removed {
		return nil
	}
	e.account.Rooms = kept
	e.view.forgetRoom(id)
	if len(e.account.Rooms) > 0 {
		e.view.ActiveRoomID = e.account.Rooms[0].ID
	} else {
		e.view.ActiveRoomID = ""
	}
	if e.view.Mode == ModeRooms {
		e.view.repairAfterRemoval(len(e.account.Rooms))
	}
	return e.persistLocked()
}

// AddMember resolves input (contact name or raw address) and appends it
// to the active room. Unresolvable input or a missing room is a silent
// no-op; an address already in the room is consumed without duplicating.
func (e *Engine) AddMember(input string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	addr, ok := ResolveRecipient(e.account, input)
	if !ok {
		return false, nil
	}
	room := e.account.Room(e.view.ActiveRoomID)
	if room == nil {
		return false, nil
	}
	for _, m := range room.Members {
		if m == addr {
			e.view.Input = ""
			return true, nil
		}
	}
	room.Members = append(room.Members, addr)
	e.view.Input = ""
	return true, e.persistLocked()
}

// RemoveSelectedMember removes the member under the sidebar selection
// (Members mode).
func (e *Engine) RemoveSelectedMember() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	room := e.account.Room(e.view.ActiveRoomID)
	if room == nil {
		return nil
	}
	i := e.view.Selected
	if i < 0 || i >= len(room.Members) {
		return nil
	}
	room.Members = append(room.Members[:i], room.Members[i+1:]...)
	if e.view.Mode == ModeMembers {
		e.view.repairAfterRemoval(len(room.Members))
	}
	return e.persistLocked()
}

// AddContact parses input as "<address> <name>" and upserts the
// directory entry. Malformed input is a silent no-op.
func (e *Engine) AddContact(input string) (bool, error) {
	rawAddr, name, ok := strings.Cut(input, " ")
	if !ok || name == "" {
		return false, nil
	}
	addr, err := model.ParseAddress(rawAddr)
	if err != nil {
		return false, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	UpsertContact(e.account, addr, name)
	e.view.Input = ""
	return true, e.persistLocked()
}

// RenameSelectedMember upserts a contact for the member under the
// sidebar selection, naming it name.
func (e *Engine) RenameSelectedMember(name string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	room := e.account.Room(e.view.ActiveRoomID)
	if room == nil {
		return false, nil
	}
	i := e.view.Selected
	if i < 0 || i >= len(room.Members) {
		return false, nil
	}
	UpsertContact(e.account, room.Members[i], name)
	e.view.Input = ""
	return true, e.persistLocked()
}

// RenameSelectedContact renames the contact under the sidebar selection.
func (e *Engine) RenameSelectedContact(name string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.view.Selected
	if i < 0 || i >= len(e.account.Contacts) {
		return false, nil
	}
	e.account.Contacts[i].Name = name
	e.view.Input = ""
	return true, e.persistLocked()
}

// RemoveSelectedContact removes the contact under the sidebar selection.
func (e *Engine) RemoveSelectedContact() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.view.Selected
	if i < 0 || i >= len(e.account.Contacts) {
		return nil
	}
	e.account.Contacts = append(e.account.Contacts[:i], e.account.Contacts[i+1:]...)
	if e.view.Mode == ModeContacts {
		e.view.repairAfterRemoval(len(e.account.Contacts))
	}
	return e.persistLocked()
}

// --- navigation (view-only; the snapshot cannot change, so no save) -------

func (e *Engine) ShowRooms()    { e.setMode(ModeRooms) }
func (e *Engine) ShowMembers()  { e.setMode(ModeMembers) }
func (e *Engine) ShowContacts() { e.setMode(ModeContacts) }

func (e *Engine) setMode(m SidebarMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.SetMode(m)
}

// MoveSelection moves the sidebar selection. In Rooms mode the newly
// active room's unseen count resets, which is an account mutation and
// persists.
func (e *Engine) MoveSelection(delta int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.MoveSelection(e.account, delta)
	if e.view.Mode != ModeRooms {
		return nil
	}
	return e.clearUnseenLocked()
}

// JumpToRoom activates the room at index n, if it exists.
func (e *Engine) JumpToRoom(n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n < 0 || n >= len(e.account.Rooms) {
		return nil
	}
	e.view.ActiveRoomID = e.account.Rooms[n].ID
	if e.view.Mode == ModeRooms {
		e.view.Selected = n
	}
	return e.clearUnseenLocked()
}

func (e *Engine) clearUnseenLocked() error {
	room := e.account.Room(e.view.ActiveRoomID)
	if room == nil || room.Unseen == 0 {
		return nil
	}
	room.Unseen = 0
	return e.persistLocked()
}

func (e *Engine) ScrollActive(amount int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.ScrollBy(amount)
}

func (e *Engine) SetViewport(w, h int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.Width = w
	e.view.Height = h
}

func (e *Engine) SetInput(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.Input = s
}

// --- listener bridge ------------------------------------------------------

// HandleInbound is the transport's on_message callback. It runs on the
// listener goroutine and takes the same lock as interactive commands,
// so an inbound message can never interleave with, say, a room removal.
func (e *Engine) HandleInbound(sender model.Address, timestamp uint64, msg transport.Message) error {
	e.mu.Lock()
	entry := model.HistoryEntry{Sender: sender, Timestamp: timestamp, Content: msg.Content}
	_, _, err := resolveInbound(e.account, e.view, sender, msg.OtherRecipients, entry)
	if err == nil {
		err = e.persistLocked()
	}
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.wake()
	return nil
}

// HandleKeyRotate is the transport's on_key_rotate callback: store the
// replacement keypair and persist so messages encrypted to it survive a
// restart.
func (e *Engine) HandleKeyRotate(pub, sec model.Key) error {
	e.mu.Lock()
	e.account.EphPub = append(model.Key(nil), pub...)
	e.account.EphSec = append(model.Key(nil), sec...)
	err := e.persistLocked()
	e.mu.Unlock()
	return err
}
