// Package transport defines the seam to the secure-messaging layer.
// The wire protocol and key-exchange internals live behind these
// interfaces; the package ships an in-process loopback implementation
// used by tests and by offline runs.
package transport

import (
	"context"
	"fmt"

	"sufec-tui/internal/model"
)

// Message is one delivered payload plus the co-recipients it was
// addressed to. The receiver needs the co-recipient list to resolve the
// conversation the message belongs to.
type Message struct {
	OtherRecipients []model.Address      `json:"other_recipients"`
	Content         model.MessageContent `json:"content"`
}

// MessageFunc receives every inbound message on the listener goroutine.
type MessageFunc func(sender model.Address, timestamp uint64, msg Message)

// RotateFunc is invoked once the transport has switched to the keypair
// it was handed at Listen time. The callee must persist the new
// material before messages encrypted to it can be considered durable.
type RotateFunc func()

type Sender interface {
	// Send delivers msg to a single recipient. Callers fan out one
	// Send per recipient.
	Send(ctx context.Context, from model.Address, to model.Address, msg Message) error
}

type Listener interface {
	// Listen blocks for the process lifetime, invoking onMessage for
	// each delivered message. prevSec decrypts mail queued before the
	// rotation; newPub/newSec become current once onRotate fires.
	// Closing shutdown stops the listener.
	Listen(self model.Address, shutdown <-chan struct{}, prevSec, newPub, newSec model.Key, onRotate RotateFunc, onMessage MessageFunc) error
}

// Transport is what the client binary wires up: one endpoint that can
// both send and listen.
type Transport interface {
	Sender
	Listener
}

type Error struct {
	Op   string
	Addr model.Address
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transport %s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
