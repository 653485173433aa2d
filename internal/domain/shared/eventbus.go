package shared

import "context"

// EventHandler consumes domain events coming off the billing pipeline.
// EventTypes narrows delivery; an empty slice subscribes the handler to
// every event.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is the write side of the bus. Services hold this
// narrow interface so they can emit events without owning
// subscriptions.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus adds subscription management and lifecycle on top of
// publishing.
type EventBus interface {
	EventPublisher
	// Subscribe registers a handler. With no explicit types the
	// handler's own EventTypes decide what it receives.
	Subscribe(handler EventHandler, eventTypes ...string)
	// Unsubscribe removes the handler from every event type.
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
