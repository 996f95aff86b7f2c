// Package eventbus publishes activity events to a Kafka topic.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/heartmarshall/apptracker/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes activity events to one topic, keyed by application id so
// events of an application stay ordered within a partition.
type Publisher struct {
	writer messageWriter
}

// batchTimeout bounds how long a single event waits for a batch to fill.
// Events are written one at a time, so the writer's 1s default would delay
// every request that publishes.
const batchTimeout = 10 * time.Millisecond

// NewPublisher creates a Publisher writing to topic on brokers.
func NewPublisher(brokers []string, topic string, writeTimeout time.Duration) *Publisher {
	return newPublisher(newWriter(brokers, topic, writeTimeout))
}

func newWriter(brokers []string, topic string, writeTimeout time.Duration) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: batchTimeout,
		WriteTimeout: writeTimeout,
	}
}

func newPublisher(w messageWriter) *Publisher {
	return &Publisher{writer: w}
}

// Publish writes one event.
func (p *Publisher) Publish(ctx context.Context, e domain.ActivityEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", e.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(e.ApplicationID, 10)),
		Value: payload,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event: %w", e.Type, err)
	}
	return nil
}

// Close flushes and releases the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher discards events. It is used when no brokers are configured.
type NoopPublisher struct{}

// Publish discards e.
func (NoopPublisher) Publish(context.Context, domain.ActivityEvent) error { return nil }

// Close does nothing.
func (NoopPublisher) Close() error { return nil }
