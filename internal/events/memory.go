package events

import (
	"context"
	"fmt"
	"sync"
)

// MemoryBus is an in-process Bus for tests and single-node development
type MemoryBus struct {
	channels      map[string]chan Event
	subscriptions map[string]context.CancelFunc
	mu            sync.RWMutex
}

// NewMemoryBus creates an in-memory event bus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		channels:      make(map[string]chan Event),
		subscriptions: make(map[string]context.CancelFunc),
	}
}

func (b *MemoryBus) getOrCreateChannel(subject string) chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, exists := b.channels[subject]; exists {
		return ch
	}

	// Invalidation traffic is light; a modest buffer absorbs bursts
	ch := make(chan Event, 256)
	b.channels[subject] = ch
	return ch
}

// Publish delivers an event to the subject's channel
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	ch := b.getOrCreateChannel(event.Subject())

	select {
	case ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("channel full for subject: %s", event.Subject())
	}
}

// Subscribe starts a background consumer for subject
func (b *MemoryBus) Subscribe(subject string, handler Handler) error {
	b.mu.Lock()
	if _, exists := b.subscriptions[subject]; exists {
		b.mu.Unlock()
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}
	b.mu.Unlock()

	ch := b.getOrCreateChannel(subject)
	ctx, cancel := context.WithCancel(context.Background())

	b.mu.Lock()
	b.subscriptions[subject] = cancel
	b.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-ch:
				// Memory bus has no redelivery; handler errors are dropped
				_ = handler(event)
			}
		}
	}()

	return nil
}

// Unsubscribe stops the consumer for subject
func (b *MemoryBus) Unsubscribe(subject string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cancel, exists := b.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	cancel()
	delete(b.subscriptions, subject)
	return nil
}

// Close stops all consumers and drops all channels
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for subject, cancel := range b.subscriptions {
		cancel()
		delete(b.subscriptions, subject)
	}

	for subject, ch := range b.channels {
		close(ch)
		delete(b.channels, subject)
	}

	return nil
}

// Pending returns the number of undelivered events for a subject (for tests)
func (b *MemoryBus) Pending(subject string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, exists := b.channels[subject]; exists {
		return len(ch)
	}
	return 0
}
