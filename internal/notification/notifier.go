// Package notification delivers fire-and-forget text alerts for signal
// and fill events. Delivery failures are logged and swallowed; they
// never block or fail a scan.
package notification

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Notifier sends one text message per event.
type Notifier interface {
	Send(ctx context.Context, msg string) error
}

// Fanout delivers to every configured backend. Errors from individual
// backends are logged and dropped.
type Fanout struct {
	backends []Notifier
}

func NewFanout(backends ...Notifier) *Fanout {
	return &Fanout{backends: backends}
}

func (f *Fanout) Send(ctx context.Context, msg string) error {
	for _, n := range f.backends {
		if err := n.Send(ctx, msg); err != nil {
			log.Warn().Err(err).Msg("notification delivery failed")
		}
	}
	return nil
}

// Noop is used when no channel is configured.
type Noop struct{}

func (Noop) Send(ctx context.Context, msg string) error { return nil }
