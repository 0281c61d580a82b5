package ports

import "context"

// Transport delivers a text message somewhere (terminal, chat webhook, bot).
// Implementations must tolerate concurrent Send calls and return a
// *model.DeliveryError when the message could not be delivered.
type Transport interface {
	Send(ctx context.Context, text string) error
}
