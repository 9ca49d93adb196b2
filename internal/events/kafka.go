package events

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// KafkaBus implements Bus over Kafka topics. The group ID is unique per
// replica so consumption is broadcast rather than partitioned across the
// group.
type KafkaBus struct {
	brokers       []string
	groupID       string
	writers       map[string]*kafka.Writer
	readers       map[string]*kafka.Reader
	subscriptions map[string]context.CancelFunc
	mu            sync.RWMutex
}

// NewKafkaBus creates a Kafka-backed event bus
func NewKafkaBus(brokers []string, groupID string) (*KafkaBus, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}

	if groupID == "" {
		hostname, _ := os.Hostname()
		if hostname == "" {
			hostname = "console"
		}
		groupID = hostname + "-" + uuid.New().String()[:8]
	}

	return &KafkaBus{
		brokers:       brokers,
		groupID:       groupID,
		writers:       make(map[string]*kafka.Writer),
		readers:       make(map[string]*kafka.Reader),
		subscriptions: make(map[string]context.CancelFunc),
	}, nil
}

func (b *KafkaBus) getOrCreateWriter(topic string) *kafka.Writer {
	b.mu.Lock()
	defer b.mu.Unlock()

	if writer, exists := b.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(b.brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
	}

	b.writers[topic] = writer
	return writer
}

// Publish writes an event to its subject's topic
func (b *KafkaBus) Publish(ctx context.Context, event Event) error {
	data, err := event.Encode()
	if err != nil {
		return err
	}

	writer := b.getOrCreateWriter(event.Subject())
	err = writer.WriteMessages(ctx, kafka.Message{
		Value: data,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to kafka topic %s: %w", event.Subject(), err)
	}

	return nil
}

// Subscribe starts a reader for the subject's topic
func (b *KafkaBus) Subscribe(subject string, handler Handler) error {
	b.mu.Lock()
	if _, exists := b.subscriptions[subject]; exists {
		b.mu.Unlock()
		return fmt.Errorf("already subscribed to topic: %s", subject)
	}
	b.mu.Unlock()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        b.brokers,
		GroupID:        b.groupID,
		Topic:          subject,
		MinBytes:       1,
		MaxBytes:       1e6,
		MaxWait:        time.Second,
		StartOffset:    kafka.LastOffset, // New events only
		CommitInterval: time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())

	b.mu.Lock()
	b.readers[subject] = reader
	b.subscriptions[subject] = cancel
	b.mu.Unlock()

	go b.consume(ctx, reader, handler)

	return nil
}

func (b *KafkaBus) consume(ctx context.Context, reader *kafka.Reader, handler Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}

		event, err := Decode(msg.Value)
		if err != nil {
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := handler(event); err != nil {
			// No commit: redelivered after rebalance or restart
			continue
		}

		_ = reader.CommitMessages(ctx, msg)
	}
}

// Unsubscribe stops the reader for subject
func (b *KafkaBus) Unsubscribe(subject string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cancel, exists := b.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to topic: %s", subject)
	}

	cancel()
	if reader, ok := b.readers[subject]; ok {
		_ = reader.Close()
		delete(b.readers, subject)
	}

	delete(b.subscriptions, subject)
	return nil
}

// Close stops all readers and writers
func (b *KafkaBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var lastErr error

	for subject, cancel := range b.subscriptions {
		cancel()
		if reader, ok := b.readers[subject]; ok {
			if err := reader.Close(); err != nil {
				lastErr = err
			}
		}
		delete(b.subscriptions, subject)
		delete(b.readers, subject)
	}

	for topic, writer := range b.writers {
		if err := writer.Close(); err != nil {
			lastErr = err
		}
		delete(b.writers, topic)
	}

	return lastErr
}
