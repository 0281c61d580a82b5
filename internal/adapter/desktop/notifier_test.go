package desktop_test

import (
	"context"
	"errors"
	"testing"

	"lemiknow/internal/adapter/desktop"
	"lemiknow/internal/domain/model"
)

type shown struct {
	title, message string
	icon           any
}

func TestNotifierTitles(t *testing.T) {
	var got []shown
	n := desktop.NewWithFunc("", "/tmp/icon.png", func(title, message string, icon any) error {
		got = append(got, shown{title, message, icon})
		return nil
	})

	_ = n.Send(context.Background(), "train called on host\nWe'll let you know when it's done.")
	_ = n.Send(context.Background(), "✅ train finished on host\nDuration: 1s")

	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[0].title != "lemiknow" {
		t.Fatalf("unexpected start title %q", got[0].title)
	}
	if got[1].title != "lemiknow ✅" {
		t.Fatalf("unexpected success title %q", got[1].title)
	}
	if got[1].icon != "/tmp/icon.png" {
		t.Fatalf("unexpected icon %v", got[1].icon)
	}
}

func TestNotifierFailure(t *testing.T) {
	n := desktop.NewWithFunc("jobs", "", func(string, string, any) error {
		return errors.New("no notification daemon")
	})
	err := n.Send(context.Background(), "hi")
	var delivery *model.DeliveryError
	if !errors.As(err, &delivery) || delivery.Transport != "desktop" {
		t.Fatalf("expected desktop DeliveryError, got %v", err)
	}
}
