package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// KeyEvent is sent to the chat-bot webhook when a partner key is generated,
// so an operator can approve the account.
type KeyEvent struct {
	Action      string `json:"action"`
	PartnerID   string `json:"partner_id"`
	PartnerName string `json:"partner_name"`
	Tier        string `json:"tier"`
	KeyPrefix   string `json:"key_prefix"`
}

// WebhookNotifier posts key events to a configured chat-bot endpoint.
// Delivery is best effort: failures are logged and never propagate to the
// request that triggered them.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger zerolog.Logger
}

func NewWebhookNotifier(url string, logger zerolog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

func (n *WebhookNotifier) NotifyKeyGenerated(ctx context.Context, event KeyEvent) {
	if n.url == "" {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn().Err(err).Msg("failed to encode key event")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		n.logger.Warn().Err(err).Msg("failed to build webhook request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn().Err(err).Str("url", n.url).Msg("key event webhook failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		n.logger.Warn().
			Str("url", n.url).
			Str("status", fmt.Sprintf("%d", resp.StatusCode)).
			Msg("key event webhook rejected")
	}
}
