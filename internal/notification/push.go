package notification

import (
	"context"
	"strings"

	"github.com/nsensens-source/my-ipo-bot/internal/infrastructure/fcm"
)

// PushNotifier adapts the FCM client to the Notifier interface. The
// first line of the message becomes the push title.
type PushNotifier struct {
	client *fcm.Client
	tokens []string
}

func NewPushNotifier(client *fcm.Client, tokens []string) *PushNotifier {
	return &PushNotifier{client: client, tokens: tokens}
}

func (p *PushNotifier) Send(ctx context.Context, msg string) error {
	if p.client == nil || !p.client.IsEnabled() {
		return nil
	}

	title := msg
	body := ""
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		title = msg[:i]
		body = strings.TrimSpace(msg[i+1:])
	}
	return p.client.SendMulticast(ctx, p.tokens, title, body)
}
