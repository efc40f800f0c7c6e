package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Kafka publishes domain events to a Kafka topic as JSON records keyed by
// client id, so events for one client land on one partition in order.
// Publishing is asynchronous; produce failures are logged, never surfaced
// into the use case that triggered them.
type Kafka struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafka connects a franz-go producer to the given brokers.
func NewKafka(brokers []string, topic string, logger *slog.Logger) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	return &Kafka{client: client, topic: topic, logger: logger}, nil
}

func (k *Kafka) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(event.ClientID),
		Value: payload,
	}
	k.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil && k.logger != nil {
			k.logger.Error("event publish failed",
				"event_type", event.Type,
				"client_id", event.ClientID,
				"error", err,
			)
		}
	})
	return nil
}

func (k *Kafka) PublishBatch(ctx context.Context, batch []Event) error {
	for _, event := range batch {
		if err := k.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// Ping verifies broker connectivity.
func (k *Kafka) Ping(ctx context.Context) error {
	return k.client.Ping(ctx)
}

// Close flushes buffered records and releases the producer.
func (k *Kafka) Close() {
	k.client.Flush(context.Background())
	k.client.Close()
}
