package transport

import (
	"context"
	"testing"
	"time"

	"sufec-tui/internal/model"
)

const (
	hubSelf  = model.Address("me@example.org")
	hubPeer  = model.Address("peer@example.org")
	hubOther = model.Address("other@example.org")
)

type received struct {
	from model.Address
	msg  Message
}

// listenInto runs the hub listener for addr and streams deliveries into
// a channel until shutdown closes.
func listenInto(t *testing.T, h *Hub, addr model.Address) (<-chan received, chan<- struct{}, <-chan bool) {
	t.Helper()
	out := make(chan received, 16)
	shutdown := make(chan struct{})
	rotated := make(chan bool, 1)
	go func() {
		_ = h.Listen(addr, shutdown, nil, nil, nil,
			func() { rotated <- true },
			func(from model.Address, ts uint64, msg Message) {
				out <- received{from: from, msg: msg}
			})
	}()
	return out, shutdown, rotated
}

func TestHub_DeliversAndShutsDown(t *testing.T) {
	t.Parallel()

	h := NewHub()
	out, shutdown, rotated := listenInto(t, h, hubPeer)

	select {
	case <-rotated:
	case <-time.After(time.Second):
		t.Fatalf("listener never reported key rotation")
	}

	msg := Message{Content: model.TextContent("hello")}
	if err := h.Send(context.Background(), hubSelf, hubPeer, msg); err != nil {
		t.Fatalf("Send: %v", err)
	}

	select {
	case got := <-out:
		if got.from != hubSelf || got.msg.Content.Text != "hello" {
			t.Fatalf("unexpected delivery: %#v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("message never delivered")
	}

	close(shutdown)
}

func TestFanOut_ExcludesTargetFromOtherRecipients(t *testing.T) {
	t.Parallel()

	h := NewHub()
	out, shutdown, _ := listenInto(t, h, hubPeer)
	defer close(shutdown)

	f := &FanOut{Sender: h, BaseDelay: time.Millisecond}
	done := make(chan model.Address, 2)
	f.Broadcast(context.Background(), hubSelf, []model.Address{hubPeer, hubOther}, model.TextContent("hi"), func(to model.Address, err error) {
		if err != nil {
			t.Errorf("send to %s: %v", to, err)
		}
		done <- to
	})

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("fan-out never completed")
		}
	}

	select {
	case got := <-out:
		if len(got.msg.OtherRecipients) != 1 || got.msg.OtherRecipients[0] != hubOther {
			t.Fatalf("other_recipients = %v; want [%s]", got.msg.OtherRecipients, hubOther)
		}
	case <-time.After(time.Second):
		t.Fatalf("peer never received the broadcast")
	}
}

func TestFanOut_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	h := NewHub()
	h.FailNext(hubPeer, 2)

	f := &FanOut{Sender: h, MaxRetries: 5, BaseDelay: time.Millisecond}
	done := make(chan error, 1)
	f.Broadcast(context.Background(), hubSelf, []model.Address{hubPeer}, model.TextContent("try"), func(to model.Address, err error) {
		done <- err
	})

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected eventual success; got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("fan-out never reported")
	}
}

func TestFanOut_ReportsExhaustedRetries(t *testing.T) {
	t.Parallel()

	h := NewHub()
	h.FailNext(hubPeer, 100)

	f := &FanOut{Sender: h, MaxRetries: 2, BaseDelay: time.Millisecond}
	done := make(chan error, 1)
	f.Broadcast(context.Background(), hubSelf, []model.Address{hubPeer}, model.TextContent("try"), func(to model.Address, err error) {
		done <- err
	})

	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected a failure after exhausting retries")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("fan-out never reported")
	}
}
