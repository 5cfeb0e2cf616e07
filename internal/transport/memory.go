package transport

import (
	"context"
	"errors"
	"sync"
	"time"

	"sufec-tui/internal/model"
)

type envelope struct {
	from model.Address
	ts   uint64
	msg  Message
}

// Hub is an in-process transport: every address gets a mailbox and Send
// delivers directly into it. Tests use it to drive the listener bridge;
// the binary falls back to it when no homeserver is configured so the
// UI stays usable offline.
type Hub struct {
	mu       sync.Mutex
	inboxes  map[model.Address]chan envelope
	failures map[model.Address]int
}

func NewHub() *Hub {
	return &Hub{
		inboxes:  map[model.Address]chan envelope{},
		failures: map[model.Address]int{},
	}
}

// FailNext makes the next n sends to addr fail. Used to exercise the
// retry path.
func (h *Hub) FailNext(addr model.Address, n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures[addr] = n
}

func (h *Hub) inbox(addr model.Address) chan envelope {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.inboxes[addr]
	if !ok {
		ch = make(chan envelope, 64)
		h.inboxes[addr] = ch
	}
	return ch
}

var errInjectedFailure = errors.New("injected send failure")

func (h *Hub) Send(ctx context.Context, from model.Address, to model.Address, msg Message) error {
	h.mu.Lock()
	if n := h.failures[to]; n > 0 {
		h.failures[to] = n - 1
		h.mu.Unlock()
		return &Error{Op: "send", Addr: to, Err: errInjectedFailure}
	}
	h.mu.Unlock()

	select {
	case h.inbox(to) <- envelope{from: from, ts: uint64(time.Now().UnixMicro()), msg: msg}:
		return nil
	case <-ctx.Done():
		return &Error{Op: "send", Addr: to, Err: ctx.Err()}
	}
}

func (h *Hub) Listen(self model.Address, shutdown <-chan struct{}, prevSec, newPub, newSec model.Key, onRotate RotateFunc, onMessage MessageFunc) error {
	// The loopback has no real key exchange; it rotates once at startup
	// like the wire transport does.
	if onRotate != nil {
		onRotate()
	}
	in := h.inbox(self)
	for {
		select {
		case <-shutdown:
			return nil
		case env := <-in:
			onMessage(env.from, env.ts, env.msg)
		}
	}
}
