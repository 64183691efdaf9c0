package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DiscordNotifier posts messages to a Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	prefix     string
	client     *http.Client
}

// NewDiscordNotifier creates a webhook notifier. Test-mode messages are
// prefixed so rehearsal alerts are never mistaken for live ones.
func NewDiscordNotifier(webhookURL string, testMode bool) *DiscordNotifier {
	prefix := ""
	if testMode {
		prefix = "[TEST] "
	}
	return &DiscordNotifier{
		webhookURL: webhookURL,
		prefix:     prefix,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *DiscordNotifier) Send(ctx context.Context, msg string) error {
	body, err := json.Marshal(map[string]string{"content": d.prefix + msg})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("discord: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("discord: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("discord: unexpected status %d", resp.StatusCode)
	}
	return nil
}
