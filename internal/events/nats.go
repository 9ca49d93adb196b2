package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

const natsStreamName = "console-invalidate"

// NATSBus is the default production Bus, backed by NATS JetStream. One
// stream holds all invalidation subjects; each replica attaches an
// ephemeral consumer so every replica sees every event and nothing is
// replayed across restarts (a restarted replica starts with a cold cache
// anyway).
type NATSBus struct {
	conn          *nats.Conn
	js            nats.JetStreamContext
	subscriptions map[string]*nats.Subscription
	mu            sync.RWMutex
}

// NewNATSBus connects to NATS and ensures the invalidation stream exists
func NewNATSBus(url string) (*NATSBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return newNATSBusWithConn(conn)
}

// newNATSBusWithConn builds a bus over an existing connection (used in tests)
func newNATSBusWithConn(conn *nats.Conn) (*NATSBus, error) {
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	if _, err := js.StreamInfo(natsStreamName); err != nil {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     natsStreamName,
			Subjects: []string{"console.invalidate.>"},
			Storage:  nats.MemoryStorage,
			MaxAge:   time.Hour,
		})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to create invalidation stream: %w", err)
		}
	}

	return &NATSBus{
		conn:          conn,
		js:            js,
		subscriptions: make(map[string]*nats.Subscription),
	}, nil
}

// Publish sends an event on its subject
func (b *NATSBus) Publish(ctx context.Context, event Event) error {
	data, err := event.Encode()
	if err != nil {
		return err
	}

	if _, err := b.js.Publish(event.Subject(), data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", event.Subject(), err)
	}

	return nil
}

// Subscribe attaches an ephemeral consumer for subject. Events that fail
// decoding are acked and dropped; handler errors trigger redelivery.
func (b *NATSBus) Subscribe(subject string, handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	sub, err := b.js.Subscribe(subject, func(msg *nats.Msg) {
		event, err := Decode(msg.Data)
		if err != nil {
			_ = msg.Ack()
			return
		}

		if err := handler(event); err != nil {
			_ = msg.Nak()
			return
		}

		_ = msg.Ack()
	},
		nats.ManualAck(),
		nats.AckWait(10*time.Second),
		nats.MaxDeliver(3),
		nats.DeliverNew(), // Broadcast of current events only, no history replay
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}

	b.subscriptions[subject] = sub
	return nil
}

// Unsubscribe removes the consumer for subject
func (b *NATSBus) Unsubscribe(subject string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, exists := b.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	if err := sub.Unsubscribe(); err != nil {
		return fmt.Errorf("failed to unsubscribe from subject %s: %w", subject, err)
	}

	delete(b.subscriptions, subject)
	return nil
}

// Close removes all consumers and closes the connection
func (b *NATSBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for subject, sub := range b.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			continue
		}
		delete(b.subscriptions, subject)
	}

	b.conn.Close()
	return nil
}
