package events

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/relaygate/console/internal/config"
)

// RedisBus implements Bus over Redis Streams. Invalidation must reach every
// replica, so each bus instance uses its own consumer group; groups are
// derived from the consumer name and never shared.
type RedisBus struct {
	client        *redis.Client
	stream        string
	group         string
	consumer      string
	subscriptions map[string]context.CancelFunc
	mu            sync.RWMutex
}

// NewRedisBus connects to redis and verifies the connection
func NewRedisBus(cfg config.EventsConfig) (*RedisBus, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		opts = &redis.Options{
			Addr:     cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	stream := cfg.RedisStream
	if stream == "" {
		stream = "console"
	}

	consumer := cfg.RedisConsumer
	if consumer == "" {
		hostname, _ := os.Hostname()
		if hostname == "" {
			hostname = "console"
		}
		consumer = hostname + "-" + uuid.New().String()[:8]
	}

	return &RedisBus{
		client:        client,
		stream:        stream,
		group:         consumer + "-group", // Per-replica group: broadcast, not work-sharing
		consumer:      consumer,
		subscriptions: make(map[string]context.CancelFunc),
	}, nil
}

func (b *RedisBus) streamName(subject string) string {
	return fmt.Sprintf("%s:%s", b.stream, subject)
}

// Publish appends an event to the subject's stream
func (b *RedisBus) Publish(ctx context.Context, event Event) error {
	data, err := event.Encode()
	if err != nil {
		return err
	}

	stream := b.streamName(event.Subject())
	err = b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		ID:     "*",
		MaxLen: 10000,
		Approx: true,
		Values: map[string]interface{}{"data": data},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to redis stream %s: %w", stream, err)
	}

	return nil
}

// Subscribe creates this replica's consumer group on the subject's stream
// and starts reading
func (b *RedisBus) Subscribe(subject string, handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	stream := b.streamName(subject)
	ctx, cancel := context.WithCancel(context.Background())

	// "$" starts the group at the stream tail: only new events matter
	err := b.client.XGroupCreateMkStream(ctx, stream, b.group, "$").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		cancel()
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	go b.readStream(ctx, stream, handler)

	b.subscriptions[subject] = cancel
	return nil
}

func (b *RedisBus) readStream(ctx context.Context, stream string, handler Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		streams, err := b.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    b.group,
			Consumer: b.consumer,
			Streams:  []string{stream, ">"},
			Count:    100,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			continue
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				raw, ok := msg.Values["data"].(string)
				if !ok {
					b.client.XAck(ctx, stream, b.group, msg.ID)
					continue
				}

				event, err := Decode([]byte(raw))
				if err != nil {
					b.client.XAck(ctx, stream, b.group, msg.ID)
					continue
				}

				if err := handler(event); err != nil {
					// No ACK: redelivered on the next claim
					continue
				}

				b.client.XAck(ctx, stream, b.group, msg.ID)
			}
		}
	}
}

// Unsubscribe stops reading the subject's stream and destroys this
// replica's consumer group on it
func (b *RedisBus) Unsubscribe(subject string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cancel, exists := b.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	cancel()
	delete(b.subscriptions, subject)

	return b.destroyGroup(subject)
}

// destroyGroup removes this replica's consumer group from the subject's
// stream. Groups are never reused after teardown, so leaving one behind
// would accumulate orphans across restarts.
func (b *RedisBus) destroyGroup(subject string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.client.XGroupDestroy(ctx, b.streamName(subject), b.group).Err(); err != nil {
		return fmt.Errorf("failed to destroy consumer group on %s: %w", subject, err)
	}

	return nil
}

// Close stops all readers, destroys this replica's consumer groups, and
// closes the connection
func (b *RedisBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var lastErr error

	for subject, cancel := range b.subscriptions {
		cancel()
		if err := b.destroyGroup(subject); err != nil {
			lastErr = err
		}
		delete(b.subscriptions, subject)
	}

	if err := b.client.Close(); err != nil {
		lastErr = err
	}

	return lastErr
}
