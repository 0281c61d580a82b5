package discord_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lemiknow/internal/adapter/discord"
	"lemiknow/internal/domain/model"
)

func TestWebhookPostsContent(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	hook := discord.NewWebhook(srv.URL, "lemiknow", time.Second, nil)
	if err := hook.Send(context.Background(), "✅ train finished"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got["content"] != "✅ train finished" {
		t.Fatalf("unexpected content %v", got["content"])
	}
	if got["username"] != "lemiknow" {
		t.Fatalf("unexpected username %v", got["username"])
	}
}

func TestWebhookTruncatesLongContent(t *testing.T) {
	var got struct {
		Content string `json:"content"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	hook := discord.NewWebhook(srv.URL, "", time.Second, nil)
	if err := hook.Send(context.Background(), strings.Repeat("x", 5000)); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if n := len([]rune(got.Content)); n > 2000 {
		t.Fatalf("expected content of at most 2000 characters, got %d", n)
	}
	if !strings.HasSuffix(got.Content, "...") {
		t.Fatalf("expected truncation marker, got suffix %q", got.Content[len(got.Content)-5:])
	}
}

func TestWebhookNon2xxIsDeliveryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := discord.NewWebhook(srv.URL, "", time.Second, nil).Send(context.Background(), "hi")
	var delivery *model.DeliveryError
	if !errors.As(err, &delivery) {
		t.Fatalf("expected DeliveryError, got %v", err)
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestWebhookRequiresURL(t *testing.T) {
	if err := discord.NewWebhook("", "", time.Second, nil).Send(context.Background(), "hi"); err == nil {
		t.Fatal("expected error for empty webhook URL")
	}
}
