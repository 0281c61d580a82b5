package desktop

import (
	"context"
	"strings"
	"sync"

	"github.com/gen2brain/beeep"

	"lemiknow/internal/domain/model"
	"lemiknow/internal/domain/ports"
)

const (
	transportName = "desktop"
	defaultTitle  = "lemiknow"
)

// NotifyFunc shows a desktop notification. beeep.Notify satisfies it.
type NotifyFunc func(title, message string, icon any) error

// Notifier shows notifications with the operating system's notification service.
type Notifier struct {
	mu     sync.Mutex
	title  string
	icon   string
	notify NotifyFunc
}

var _ ports.Transport = (*Notifier)(nil)

// New builds a desktop Notifier. An empty title defaults to "lemiknow".
func New(title, icon string) *Notifier {
	return NewWithFunc(title, icon, beeep.Notify)
}

// NewWithFunc builds a Notifier that displays through notify.
func NewWithFunc(title, icon string, notify NotifyFunc) *Notifier {
	if strings.TrimSpace(title) == "" {
		title = defaultTitle
	}
	return &Notifier{title: title, icon: icon, notify: notify}
}

// Send displays text. The first line becomes part of the title when it carries a status emoji.
func (n *Notifier) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return model.NewDeliveryError(transportName, err)
	}

	title := n.title
	if head, _, ok := strings.Cut(text, "\n"); ok && (strings.HasPrefix(head, "✅") || strings.HasPrefix(head, "☠️")) {
		title = n.title + " " + strings.Fields(head)[0]
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.notify(title, text, n.icon); err != nil {
		return model.NewDeliveryError(transportName, err)
	}
	return nil
}
