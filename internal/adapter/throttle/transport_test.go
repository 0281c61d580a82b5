package throttle_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lemiknow/internal/adapter/throttle"
	"lemiknow/internal/domain/model"
)

type countingTransport struct {
	mu    sync.Mutex
	count int
}

func (c *countingTransport) Send(context.Context, string) error {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
	return nil
}

func TestNewWithoutRateReturnsNext(t *testing.T) {
	next := &countingTransport{}
	if got := throttle.New(next, 0, 1); got != next {
		t.Fatalf("expected unwrapped transport, got %T", got)
	}
}

func TestThrottleForwardsWithinBurst(t *testing.T) {
	next := &countingTransport{}
	tr := throttle.New(next, 100, 3)

	for i := 0; i < 3; i++ {
		if err := tr.Send(context.Background(), "hi"); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}
	if next.count != 3 {
		t.Fatalf("expected 3 forwarded sends, got %d", next.count)
	}
}

func TestThrottleHonoursContext(t *testing.T) {
	next := &countingTransport{}
	tr := throttle.New(next, 0.001, 1)

	if err := tr.Send(context.Background(), "first"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := tr.Send(ctx, "second")
	var delivery *model.DeliveryError
	if !errors.As(err, &delivery) {
		t.Fatalf("expected DeliveryError when the limiter cannot wait, got %v", err)
	}
	if next.count != 1 {
		t.Fatalf("expected only the first send forwarded, got %d", next.count)
	}
}
