package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"lemiknow/internal/domain/model"
	"lemiknow/internal/domain/ports"
)

const (
	transportName = "telegram"
	// Telegram rejects messages longer than 4096 characters.
	textLimit = 4096
)

// Config holds the bot credentials and target chat.
type Config struct {
	Token  string
	ChatID int64
	// APIURL overrides the Bot API endpoint. Empty means the public API.
	APIURL  string
	Timeout time.Duration
}

// Bot sends plain-text messages to a single chat through the Telegram Bot API.
type Bot struct {
	bot    *tele.Bot
	chat   *tele.Chat
	logger ports.Logger
}

var _ ports.Transport = (*Bot)(nil)

// New builds a Bot without contacting Telegram.
func New(cfg Config, logger ports.Logger) (*Bot, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat id is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	b, err := tele.NewBot(tele.Settings{
		URL:     cfg.APIURL,
		Token:   cfg.Token,
		Client:  &http.Client{Timeout: timeout},
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &Bot{
		bot:    b,
		chat:   &tele.Chat{ID: cfg.ChatID},
		logger: logger,
	}, nil
}

// Send delivers text, split into several messages when it exceeds Telegram's limit.
func (b *Bot) Send(ctx context.Context, text string) error {
	for _, chunk := range splitText(text, textLimit) {
		if err := ctx.Err(); err != nil {
			return model.NewDeliveryError(transportName, err)
		}
		if _, err := b.bot.Send(b.chat, chunk); err != nil {
			return model.NewDeliveryError(transportName, err)
		}
	}

	if b.logger != nil {
		b.logger.Info(ctx, "notification sent to telegram", "chat_id", b.chat.ID)
	}
	return nil
}

// splitText breaks text into chunks of at most limit runes, preferring
// to cut on a newline.
func splitText(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(runes) > 0 {
		if len(runes) <= limit {
			chunks = append(chunks, string(runes))
			break
		}

		cut := limit
		for i := limit - 1; i > 0; i-- {
			if runes[i] == '\n' {
				cut = i
				break
			}
		}

		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
		for len(runes) > 0 && runes[0] == '\n' {
			runes = runes[1:]
		}
	}
	return chunks
}
