package fcm

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Client pushes trade alerts to registered devices through Firebase
// Cloud Messaging. With no credentials configured the client stays
// disabled and every send is a no-op.
type Client struct {
	client *messaging.Client
}

// NewClient initializes FCM from an explicit credentials path or raw
// JSON. Both empty means push is disabled, which is not an error.
func NewClient(ctx context.Context, credPath, credJSON string) (*Client, error) {
	if credPath == "" && credJSON == "" {
		log.Info().Msg("no firebase credentials configured, push disabled")
		return &Client{client: nil}, nil
	}

	if credPath == "" {
		tmpFile, err := os.CreateTemp("", "firebase-credentials-*.json")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp file: %w", err)
		}
		defer tmpFile.Close()

		if _, err := tmpFile.Write([]byte(credJSON)); err != nil {
			return nil, fmt.Errorf("failed to write credentials: %w", err)
		}
		credPath = tmpFile.Name()
	}

	opt := option.WithCredentialsFile(credPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	log.Info().Msg("firebase cloud messaging initialized")
	return &Client{client: client}, nil
}

// SendMulticast pushes a notification to every token.
func (c *Client) SendMulticast(ctx context.Context, tokens []string, title, body string) error {
	if c.client == nil || len(tokens) == 0 {
		return nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "trade_alerts",
				Priority:  messaging.PriorityHigh,
			},
		},
	}

	response, err := c.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending multicast: %w", err)
	}

	log.Debug().Int("success", response.SuccessCount).Int("failure", response.FailureCount).Msg("push sent")
	return nil
}

// IsEnabled returns true if FCM is configured.
func (c *Client) IsEnabled() bool {
	return c.client != nil
}
