package throttle

import (
	"context"

	"golang.org/x/time/rate"

	"lemiknow/internal/domain/model"
	"lemiknow/internal/domain/ports"
)

// Transport limits how fast messages reach the wrapped transport. It does
// not queue or retry: Send blocks until the limiter allows it.
type Transport struct {
	next    ports.Transport
	limiter *rate.Limiter
}

var _ ports.Transport = (*Transport)(nil)

// New wraps next with a limiter allowing perSecond sends with the given burst.
// A non-positive perSecond disables limiting and returns next unchanged.
func New(next ports.Transport, perSecond float64, burst int) ports.Transport {
	if perSecond <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &Transport{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Send waits for the limiter and forwards text.
func (t *Transport) Send(ctx context.Context, text string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return model.NewDeliveryError("throttle", err)
	}
	return t.next.Send(ctx, text)
}
