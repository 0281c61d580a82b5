package matrix

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"lemiknow/internal/domain/model"
	"lemiknow/internal/domain/ports"
)

const transportName = "matrix"

// Config holds the homeserver address, access token and target room.
type Config struct {
	// Homeserver must include the scheme, e.g. https://matrix-client.matrix.org.
	Homeserver string
	Token      string
	// Room is either a room id (!abc:server) or an alias (#room:server).
	Room    string
	Timeout time.Duration
}

// Client posts m.text events into a Matrix room.
type Client struct {
	homeserver string
	token      string
	roomID     string
	httpClient *http.Client
	logger     ports.Logger
}

var _ ports.Transport = (*Client)(nil)

type messageEvent struct {
	MsgType       string `json:"msgtype"`
	Body          string `json:"body"`
	Format        string `json:"format,omitempty"`
	FormattedBody string `json:"formatted_body,omitempty"`
}

// New builds a Client, resolving the room alias to a room id once.
func New(ctx context.Context, cfg Config, logger ports.Logger) (*Client, error) {
	homeserver := strings.TrimRight(strings.TrimSpace(cfg.Homeserver), "/")
	if !strings.HasPrefix(homeserver, "http://") && !strings.HasPrefix(homeserver, "https://") {
		return nil, fmt.Errorf("matrix homeserver %q must include http:// or https://", cfg.Homeserver)
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("matrix token is empty")
	}
	if strings.TrimSpace(cfg.Room) == "" {
		return nil, errors.New("matrix room is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		homeserver: homeserver,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}

	roomID, err := c.resolveRoom(ctx, strings.TrimSpace(cfg.Room))
	if err != nil {
		return nil, err
	}
	c.roomID = roomID
	return c, nil
}

// RoomID returns the resolved room id.
func (c *Client) RoomID() string {
	return c.roomID
}

// Send posts text to the room as an m.text event.
func (c *Client) Send(ctx context.Context, text string) error {
	event := messageEvent{
		MsgType:       "m.text",
		Body:          text,
		Format:        "org.matrix.custom.html",
		FormattedBody: strings.ReplaceAll(html.EscapeString(text), "\n", "<br>"),
	}
	body, err := json.Marshal(event)
	if err != nil {
		return model.NewDeliveryError(transportName, fmt.Errorf("marshal event: %w", err))
	}

	endpoint := fmt.Sprintf("%s/_matrix/client/v3/rooms/%s/send/m.room.message/%s",
		c.homeserver, url.PathEscape(c.roomID), uuid.NewString())

	if err := c.do(ctx, http.MethodPut, endpoint, body, nil); err != nil {
		return model.NewDeliveryError(transportName, err)
	}

	if c.logger != nil {
		c.logger.Info(ctx, "notification sent to matrix", "room", c.roomID)
	}
	return nil
}

func (c *Client) resolveRoom(ctx context.Context, room string) (string, error) {
	if !strings.HasPrefix(room, "#") {
		return room, nil
	}

	endpoint := fmt.Sprintf("%s/_matrix/client/v3/directory/room/%s", c.homeserver, url.PathEscape(room))
	var resp struct {
		RoomID string `json:"room_id"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return "", fmt.Errorf("resolve matrix room %s: %w", room, err)
	}
	if resp.RoomID == "" {
		return "", fmt.Errorf("resolve matrix room %s: empty room id", room)
	}
	return resp.RoomID, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			ErrCode string `json:"errcode"`
			Error   string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.ErrCode != "" {
			return fmt.Errorf("matrix returned status %d: %s: %s", resp.StatusCode, apiErr.ErrCode, apiErr.Error)
		}
		return fmt.Errorf("matrix returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
