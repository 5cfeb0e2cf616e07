package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"sufec-tui/internal/model"
)

// FanOut delivers one message to each recipient on its own goroutine,
// retrying transient failures with exponential backoff. Recipients fail
// independently; one dead homeserver does not block the others.
type FanOut struct {
	Sender Sender
	Log    *slog.Logger

	// MaxRetries and BaseDelay tune the per-recipient backoff.
	// Zero values get defaults (4 retries, 250ms base).
	MaxRetries uint64
	BaseDelay  time.Duration
}

// Broadcast sends content from self to every recipient. Each recipient
// receives the rest of the set as other_recipients so replies resolve
// to the same room. report, if non-nil, is called once per recipient
// with the final outcome; calls may come from any goroutine.
func (f *FanOut) Broadcast(ctx context.Context, self model.Address, recipients []model.Address, content model.MessageContent, report func(to model.Address, err error)) {
	maxRetries := f.MaxRetries
	if maxRetries == 0 {
		maxRetries = 4
	}
	base := f.BaseDelay
	if base == 0 {
		base = 250 * time.Millisecond
	}

	for i := range recipients {
		to := recipients[i]
		others := make([]model.Address, 0, len(recipients)-1)
		for _, r := range recipients {
			if r != to {
				others = append(others, r)
			}
		}
		msg := Message{OtherRecipients: others, Content: content}

		go func() {
			backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(base))
			err := retry.Do(ctx, backoff, func(ctx context.Context) error {
				if err := f.Sender.Send(ctx, self, to, msg); err != nil {
					return retry.RetryableError(err)
				}
				return nil
			})
			if err != nil && f.Log != nil {
				f.Log.Error("send failed", "to", to.String(), "err", err)
			}
			if report != nil {
				report(to, err)
			}
		}()
	}
}
