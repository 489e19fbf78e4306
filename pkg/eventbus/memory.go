package eventbus

import (
	"context"
	"sync"

	"github.com/pennywiseapp/pennywise/pkg/domain"
)

// MemoryEventBus is an in-process EventBus. Handlers for an event type
// run synchronously in the order they subscribed.
type MemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]func(context.Context, domain.Event)
}

// NewMemoryEventBus creates an empty in-process event bus.
func NewMemoryEventBus() *MemoryEventBus {
	return &MemoryEventBus{handlers: make(map[string][]func(context.Context, domain.Event))}
}

// Publish delivers the event to every subscriber of its type.
func (b *MemoryEventBus) Publish(ctx context.Context, event domain.Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type()]
	b.mu.RUnlock()
	for _, handler := range handlers {
		handler(ctx, event)
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (b *MemoryEventBus) Subscribe(eventType string, handler func(context.Context, domain.Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
