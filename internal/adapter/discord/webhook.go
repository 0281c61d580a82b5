package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lemiknow/internal/domain/model"
	"lemiknow/internal/domain/ports"
)

const (
	transportName = "discord"
	// Discord rejects message content longer than 2000 characters.
	maxContentLength = 2000
)

// Webhook is a Discord webhook transport.
type Webhook struct {
	webhookURL string
	username   string
	httpClient *http.Client
	logger     ports.Logger
}

var _ ports.Transport = (*Webhook)(nil)

// NewWebhook creates a new Discord webhook transport. username overrides
// the webhook's default name when set.
func NewWebhook(webhookURL, username string, timeout time.Duration, logger ports.Logger) *Webhook {
	return &Webhook{
		webhookURL: webhookURL,
		username:   username,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Send posts text to the Discord channel behind the webhook.
func (w *Webhook) Send(ctx context.Context, text string) error {
	if w.webhookURL == "" {
		return model.NewDeliveryError(transportName, fmt.Errorf("webhook URL is empty"))
	}

	payload := map[string]any{
		"content": truncate(text, maxContentLength),
	}
	if w.username != "" {
		payload["username"] = w.username
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return model.NewDeliveryError(transportName, fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewReader(body))
	if err != nil {
		return model.NewDeliveryError(transportName, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return model.NewDeliveryError(transportName, fmt.Errorf("perform request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return model.NewDeliveryError(transportName,
			fmt.Errorf("discord webhook returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data))))
	}

	if w.logger != nil {
		w.logger.Info(ctx, "notification sent to discord")
	}
	return nil
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit-3])) + "..."
}
