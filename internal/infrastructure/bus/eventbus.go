package bus

import (
	"context"
	"fmt"
	"sync"

	"housebroker/internal/domain/event"
)

// EventBus defines the contract for event publishing/subscribing
type EventBus interface {
	Publish(ctx context.Context, event event.DomainEvent) error
	Subscribe(eventType string, handler EventHandler) error
}

// EventHandler handles domain events
type EventHandler interface {
	Handle(ctx context.Context, event event.DomainEvent) error
}

// EventHandlerFunc allows functions to implement EventHandler
type EventHandlerFunc func(ctx context.Context, event event.DomainEvent) error

func (f EventHandlerFunc) Handle(ctx context.Context, event event.DomainEvent) error {
	return f(ctx, event)
}

// InMemoryEventBus implements EventBus in memory, dispatching synchronously
// to subscribers in registration order.
type InMemoryEventBus struct {
	handlers map[string][]EventHandler
	mutex    sync.RWMutex
}

func NewInMemoryEventBus() *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[string][]EventHandler),
	}
}

func (b *InMemoryEventBus) Publish(ctx context.Context, e event.DomainEvent) error {
	b.mutex.RLock()
	handlers := b.handlers[e.EventType()]
	b.mutex.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler.Handle(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("handler error for %s: %w", e.EventType(), err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("event handling errors: %v", errs)
	}
	return nil
}

func (b *InMemoryEventBus) Subscribe(eventType string, handler EventHandler) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}
