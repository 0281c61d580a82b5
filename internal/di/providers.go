package di

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"lemiknow/internal/adapter/console"
	"lemiknow/internal/adapter/desktop"
	"lemiknow/internal/adapter/discord"
	"lemiknow/internal/adapter/logging"
	"lemiknow/internal/adapter/matrix"
	"lemiknow/internal/adapter/slack"
	"lemiknow/internal/adapter/telegram"
	"lemiknow/internal/adapter/throttle"
	"lemiknow/internal/app"
	"lemiknow/internal/config"
	"lemiknow/internal/domain/model"
	"lemiknow/internal/domain/ports"
	"lemiknow/internal/usecase"
)

func provideSlogLogger(cfg *config.Config) (*slog.Logger, error) {
	handler, err := logging.NewHandler(os.Stderr, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return slog.New(handler), nil
}

func provideTransport(ctx context.Context, cfg *config.Config, logger ports.Logger) (ports.Transport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var transport ports.Transport
	switch cfg.Transport {
	case config.TransportConsole:
		transport = console.NewStdout()
	case config.TransportDesktop:
		transport = desktop.New(cfg.Desktop.Title, cfg.Desktop.Icon)
	case config.TransportDiscord:
		transport = discord.NewWebhook(cfg.Discord.WebhookURL, cfg.Discord.Username, cfg.RequestTimeout, logger)
	case config.TransportSlack:
		transport = slack.NewWebhook(cfg.Slack.WebhookURL, slack.Options{
			Channel:   cfg.Slack.Channel,
			Username:  cfg.Slack.Username,
			IconEmoji: cfg.Slack.IconEmoji,
		}, cfg.RequestTimeout, logger)
	case config.TransportTelegram:
		bot, err := telegram.New(telegram.Config{
			Token:   cfg.Telegram.BotToken,
			ChatID:  cfg.Telegram.ChatID,
			APIURL:  cfg.Telegram.APIURL,
			Timeout: cfg.RequestTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		transport = bot
	case config.TransportMatrix:
		client, err := matrix.New(ctx, matrix.Config{
			Homeserver: cfg.Matrix.Homeserver,
			Token:      cfg.Matrix.Token,
			Room:       cfg.Matrix.Room,
			Timeout:    cfg.RequestTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		transport = client
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}

	return throttle.New(transport, cfg.RatePerSecond, 1), nil
}

func provideNotificationConfig(cfg *config.Config) model.NotificationConfig {
	return model.NotificationConfig{
		Message:            cfg.Notify.Message,
		NotifyOnCompletion: cfg.Notify.NotifyOnCompletion,
		IncludeDetails:     cfg.Notify.IncludeDetails,
	}
}

func provideLifecycleNotifier(transport ports.Transport, ncfg model.NotificationConfig, logger ports.Logger) *usecase.LifecycleNotifier {
	return usecase.NewLifecycleNotifier(transport, ncfg, usecase.WithLogger(logger))
}

func provideSchedule(cfg *config.Config) app.Schedule {
	return app.Schedule(cfg.Schedule)
}
