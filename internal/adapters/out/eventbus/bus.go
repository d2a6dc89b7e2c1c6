// Package eventbus fans committed order transitions out to in-process
// subscribers. Publishing happens after the database commit, so subscribers
// only ever see durable transitions.
package eventbus

import (
	"log/slog"
	"sync"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// Bus is an in-process transition publisher. Subscribers run on their own
// goroutines; a slow or panicking subscriber never blocks the publishing
// request path or its sibling subscribers.
type Bus struct {
	logger *slog.Logger

	mu   sync.RWMutex
	subs []ports.TransitionSubscriber
}

// NewBus creates an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{logger: logger}
}

// Subscribe registers a subscriber for all future transitions. Meant to be
// called during composition, before traffic flows.
func (b *Bus) Subscribe(sub ports.TransitionSubscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs = append(b.subs, sub)
}

// PublishTransition delivers the event to every subscriber asynchronously.
func (b *Bus) PublishTransition(event order.TransitionOccurred) {
	b.mu.RLock()
	subs := append([]ports.TransitionSubscriber(nil), b.subs...)
	b.mu.RUnlock()

	for _, sub := range subs {
		go b.deliver(sub, event)
	}
}

func (b *Bus) deliver(sub ports.TransitionSubscriber, event order.TransitionOccurred) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("transition subscriber panicked",
				"order_id", event.OrderID.String(),
				"panic", r,
			)
		}
	}()

	sub.OnTransition(event)
}
