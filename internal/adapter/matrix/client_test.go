package matrix_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lemiknow/internal/adapter/matrix"
	"lemiknow/internal/domain/model"
)

func TestClientResolvesAliasAndSends(t *testing.T) {
	var event map[string]string
	var sendPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization %q", got)
		}
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/_matrix/client/v3/directory/room/#jobs:example.org":
			_, _ = w.Write([]byte(`{"room_id":"!abc:example.org","servers":["example.org"]}`))
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/_matrix/client/v3/rooms/!abc:example.org/send/m.room.message/"):
			sendPath = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&event)
			_, _ = w.Write([]byte(`{"event_id":"$1"}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := matrix.New(context.Background(), matrix.Config{
		Homeserver: srv.URL + "/",
		Token:      "secret",
		Room:       "#jobs:example.org",
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if client.RoomID() != "!abc:example.org" {
		t.Fatalf("unexpected room id %q", client.RoomID())
	}

	if err := client.Send(context.Background(), "a < b\nline two"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sendPath == "" {
		t.Fatal("expected a send request")
	}
	if event["msgtype"] != "m.text" || event["body"] != "a < b\nline two" {
		t.Fatalf("unexpected event %v", event)
	}
	if event["formatted_body"] != "a &lt; b<br>line two" {
		t.Fatalf("unexpected formatted body %q", event["formatted_body"])
	}
}

func TestClientUsesRoomIDVerbatim(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, err := matrix.New(context.Background(), matrix.Config{Homeserver: srv.URL, Token: "t", Room: "!abc:example.org"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if requests != 0 {
		t.Fatalf("room ids must not be resolved, saw %d requests", requests)
	}
	if client.RoomID() != "!abc:example.org" {
		t.Fatalf("unexpected room id %q", client.RoomID())
	}
}

func TestClientSendErrorIsDeliveryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errcode":"M_FORBIDDEN","error":"not in room"}`))
	}))
	defer srv.Close()

	client, err := matrix.New(context.Background(), matrix.Config{Homeserver: srv.URL, Token: "t", Room: "!abc:example.org"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = client.Send(context.Background(), "hi")
	var delivery *model.DeliveryError
	if !errors.As(err, &delivery) || !strings.Contains(err.Error(), "M_FORBIDDEN") {
		t.Fatalf("expected M_FORBIDDEN DeliveryError, got %v", err)
	}
}

func TestNewValidatesConfig(t *testing.T) {
	tests := []matrix.Config{
		{Homeserver: "matrix.org", Token: "t", Room: "!a:b"},
		{Homeserver: "https://matrix.org", Room: "!a:b"},
		{Homeserver: "https://matrix.org", Token: "t"},
	}
	for _, cfg := range tests {
		if _, err := matrix.New(context.Background(), cfg, nil); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}
