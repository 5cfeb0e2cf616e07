package chat

import (
	"log/slog"

	"sufec-tui/internal/model"
	"sufec-tui/internal/transport"
)

// RunListener runs the transport listener for the process lifetime.
// It prepares the replacement ephemeral keypair up front, hands the
// previous secret over for decrypting queued mail, and persists the new
// pair through the engine once the transport reports the rotation took
// effect. Call it on a dedicated goroutine; it returns when shutdown is
// closed or the transport gives up.
func RunListener(e *Engine, l transport.Listener, shutdown <-chan struct{}, log *slog.Logger) {
	e.mu.RLock()
	self := e.account.Self
	prevSec := append(model.Key(nil), e.account.EphSec...)
	e.mu.RUnlock()

	newPub, newSec, err := transport.GenerateKeyPair()
	if err != nil {
		log.Error("generate ephemeral keypair", "err", err)
		return
	}

	onRotate := func() {
		if err := e.HandleKeyRotate(newPub, newSec); err != nil {
			log.Error("persist rotated keypair", "err", err)
		}
	}
	onMessage := func(sender model.Address, ts uint64, msg transport.Message) {
		if err := e.HandleInbound(sender, ts, msg); err != nil {
			log.Error("handle inbound message", "from", sender.String(), "err", err)
		}
	}

	if err := l.Listen(self, shutdown, prevSec, newPub, newSec, onRotate, onMessage); err != nil {
		log.Error("listener stopped", "err", err)
	}
}
