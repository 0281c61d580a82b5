package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport names accepted in the config.
const (
	TransportConsole  = "console"
	TransportDesktop  = "desktop"
	TransportDiscord  = "discord"
	TransportSlack    = "slack"
	TransportTelegram = "telegram"
	TransportMatrix   = "matrix"
)

// Config contains runtime configuration values.
type Config struct {
	Transport      string         `yaml:"transport"`
	RequestTimeout time.Duration  `yaml:"request_timeout"`
	RatePerSecond  float64        `yaml:"rate_per_second"`
	Schedule       string         `yaml:"schedule"`
	Notify         NotifyConfig   `yaml:"notify"`
	Log            LogConfig      `yaml:"log"`
	Desktop        DesktopConfig  `yaml:"desktop"`
	Discord        DiscordConfig  `yaml:"discord"`
	Slack          SlackConfig    `yaml:"slack"`
	Telegram       TelegramConfig `yaml:"telegram"`
	Matrix         MatrixConfig   `yaml:"matrix"`
}

// NotifyConfig mirrors the notification options of a wrapped operation.
type NotifyConfig struct {
	Message            string `yaml:"message"`
	NotifyOnCompletion bool   `yaml:"notify_on_completion"`
	IncludeDetails     bool   `yaml:"include_details"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DesktopConfig struct {
	Title string `yaml:"title"`
	Icon  string `yaml:"icon"`
}

type DiscordConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	Username   string `yaml:"username"`
}

type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	Channel    string `yaml:"channel"`
	Username   string `yaml:"username"`
	IconEmoji  string `yaml:"icon_emoji"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
	APIURL   string `yaml:"api_url"`
}

type MatrixConfig struct {
	Homeserver string `yaml:"homeserver"`
	Token      string `yaml:"token"`
	Room       string `yaml:"room"`
}

const (
	defaultTransport = TransportConsole
	defaultTimeout   = 30 * time.Second
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Transport:      defaultTransport,
		RequestTimeout: defaultTimeout,
		Notify: NotifyConfig{
			NotifyOnCompletion: true,
			IncludeDetails:     true,
		},
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (optional) and
// environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultTimeout
	}
	cfg.Transport = strings.ToLower(strings.TrimSpace(cfg.Transport))
	if cfg.Transport == "" {
		cfg.Transport = defaultTransport
	}

	return &cfg, nil
}

// Validate checks that the selected transport has what it needs.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportConsole, TransportDesktop:
		return nil
	case TransportDiscord:
		if c.Discord.WebhookURL == "" {
			return fmt.Errorf("DISCORD_WEBHOOK_URL is required")
		}
	case TransportSlack:
		if c.Slack.WebhookURL == "" {
			return fmt.Errorf("SLACK_WEBHOOK_URL is required")
		}
	case TransportTelegram:
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("TELEGRAM_CHAT_ID is required")
		}
	case TransportMatrix:
		if c.Matrix.Homeserver == "" || c.Matrix.Token == "" || c.Matrix.Room == "" {
			return fmt.Errorf("MATRIX_HOMESERVER, MATRIX_TOKEN and MATRIX_ROOM are required")
		}
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Transport = getenvDefault("LEMIKNOW_TRANSPORT", cfg.Transport)
	cfg.RequestTimeout = parseDurationDefault("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.RatePerSecond = parseFloatDefault("LEMIKNOW_RATE_PER_SECOND", cfg.RatePerSecond)
	cfg.Schedule = getenvDefault("LEMIKNOW_SCHEDULE", cfg.Schedule)

	cfg.Notify.Message = getenvDefault("LEMIKNOW_MESSAGE", cfg.Notify.Message)
	cfg.Notify.NotifyOnCompletion = parseBoolDefault("LEMIKNOW_NOTIFY_ON_COMPLETION", cfg.Notify.NotifyOnCompletion)
	cfg.Notify.IncludeDetails = parseBoolDefault("LEMIKNOW_INCLUDE_DETAILS", cfg.Notify.IncludeDetails)

	cfg.Log.Level = getenvDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getenvDefault("LOG_FORMAT", cfg.Log.Format)

	cfg.Desktop.Title = getenvDefault("DESKTOP_TITLE", cfg.Desktop.Title)
	cfg.Desktop.Icon = getenvDefault("DESKTOP_ICON", cfg.Desktop.Icon)

	cfg.Discord.WebhookURL = getenvDefault("DISCORD_WEBHOOK_URL", cfg.Discord.WebhookURL)
	cfg.Discord.Username = getenvDefault("DISCORD_USERNAME", cfg.Discord.Username)

	cfg.Slack.WebhookURL = getenvDefault("SLACK_WEBHOOK_URL", cfg.Slack.WebhookURL)
	cfg.Slack.Channel = getenvDefault("SLACK_CHANNEL", cfg.Slack.Channel)
	cfg.Slack.Username = getenvDefault("SLACK_USERNAME", cfg.Slack.Username)
	cfg.Slack.IconEmoji = getenvDefault("SLACK_ICON_EMOJI", cfg.Slack.IconEmoji)

	cfg.Telegram.BotToken = getenvDefault("TELEGRAM_BOT_TOKEN", cfg.Telegram.BotToken)
	cfg.Telegram.ChatID = parseInt64Default("TELEGRAM_CHAT_ID", cfg.Telegram.ChatID)
	cfg.Telegram.APIURL = getenvDefault("TELEGRAM_API_URL", cfg.Telegram.APIURL)

	cfg.Matrix.Homeserver = getenvDefault("MATRIX_HOMESERVER", cfg.Matrix.Homeserver)
	cfg.Matrix.Token = getenvDefault("MATRIX_TOKEN", cfg.Matrix.Token)
	cfg.Matrix.Room = getenvDefault("MATRIX_ROOM", cfg.Matrix.Room)
}

func getenvDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseInt64Default(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func parseFloatDefault(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func parseBoolDefault(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func parseDurationDefault(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
