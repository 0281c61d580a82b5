package slack

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

const transportName = "slack"

// Options are optional overrides for an incoming webhook.
type Options struct {
	Channel   string
	Username  string
	IconEmoji string
}

// Webhook sends messages through a Slack incoming webhook.
type Webhook struct {
	webhookURL string
	opts       Options
	httpClient *http.Client
	logger     ports.Logger
}

var _ ports.Transport = (*Webhook)(nil)

type payload struct {
	Text      string `json:"text"`
	Channel   string `json:"channel,omitempty"`
	Username  string `json:"username,omitempty"`
	IconEmoji string `json:"icon_emoji,omitempty"`
}

// NewWebhook creates a Slack webhook transport.
func NewWebhook(webhookURL string, opts Options, timeout time.Duration, logger ports.Logger) *Webhook {
	return &Webhook{
		webhookURL: webhookURL,
		opts:       opts,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Send posts text to Slack. Slack answers "ok" with a 200 on success.
func (w *Webhook) Send(ctx context.Context, text string) error {
	if w.webhookURL == "" {
		return model.NewDeliveryError(transportName, fmt.Errorf("webhook URL is empty"))
	}

	body, err := json.Marshal(payload{
		Text:      text,
		Channel:   w.opts.Channel,
		Username:  w.opts.Username,
		IconEmoji: w.opts.IconEmoji,
	})
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

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return model.NewDeliveryError(transportName,
			fmt.Errorf("slack webhook returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data))))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	if w.logger != nil {
		w.logger.Info(ctx, "notification sent to slack")
	}
	return nil
}
