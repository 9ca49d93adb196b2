package events

import "context"

// Handler processes one received event. A non-nil error asks the backend to
// redeliver where the transport supports it.
type Handler func(Event) error

// Bus publishes and consumes invalidation events. Subscriptions are
// broadcast: every subscribed replica receives every event, including its
// own publishes.
type Bus interface {
	// Publish sends an event on its subject
	Publish(ctx context.Context, event Event) error

	// Subscribe registers a handler for a subject
	Subscribe(subject string, handler Handler) error

	// Unsubscribe removes the handler for a subject
	Unsubscribe(subject string) error

	// Close releases connections and stops all subscriptions
	Close() error
}
