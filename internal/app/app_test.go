package app_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"lemiknow/internal/app"
	"lemiknow/internal/domain/model"
	"lemiknow/internal/usecase"
)

type memTransport struct {
	mu       sync.Mutex
	messages []string
}

func (m *memTransport) Send(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, text)
	return nil
}

func (m *memTransport) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}

func newApp(transport *memTransport, schedule app.Schedule) *app.App {
	notifier := usecase.NewLifecycleNotifier(transport, model.DefaultNotificationConfig())
	return app.New(notifier, transport, nopLogger{}, schedule)
}

func TestRunOnceReturnsOperationError(t *testing.T) {
	transport := &memTransport{}
	a := newApp(transport, "")

	errJob := errors.New("job failed")
	err := a.Run(context.Background(), "backup", func(context.Context) (any, error) {
		return nil, errJob
	})
	if !errors.Is(err, errJob) {
		t.Fatalf("expected job error, got %v", err)
	}
	if transport.count() != 2 {
		t.Fatalf("expected start and failure messages, got %d", transport.count())
	}
}

func TestRunRejectsInvalidSchedule(t *testing.T) {
	a := newApp(&memTransport{}, "not a cron")
	err := a.Run(context.Background(), "backup", func(context.Context) (any, error) { return nil, nil })
	if err == nil || !strings.Contains(err.Error(), "not a cron") {
		t.Fatalf("expected schedule error, got %v", err)
	}
}

func TestRunScheduledStopsWithContext(t *testing.T) {
	transport := &memTransport{}
	a := newApp(transport, "@every 1h")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx, "backup", func(context.Context) (any, error) { return "ok", nil })
	}()

	deadline := time.Now().Add(2 * time.Second)
	for transport.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if transport.count() < 2 {
		t.Fatalf("expected the immediate run to notify, got %d messages", transport.count())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(6 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestTestNotification(t *testing.T) {
	transport := &memTransport{}
	if err := newApp(transport, "").TestNotification(context.Background()); err != nil {
		t.Fatalf("TestNotification: %v", err)
	}
	if transport.count() != 1 {
		t.Fatalf("expected one message, got %d", transport.count())
	}
}
