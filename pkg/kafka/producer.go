// Package kafka carries player lifecycle events out of the pipeline and
// reconcile requests into it.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/pitchside/clover/pkg/tracing"
)

// PlayerEvent is emitted whenever the pipeline produces or refreshes a
// canonical player record, and for notable field changes spotted during
// reconciliation.
type PlayerEvent struct {
	EventType string          `json:"event_type"`
	PlayerID  string          `json:"player_id,omitempty"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data,omitempty"`
	Detail    map[string]any  `json:"detail,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Producer handles Kafka event emission
type Producer struct {
	writer *kafka.Writer
	logger ectologger.Logger
	topic  string
}

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg ProducerConfig, logger ectologger.Logger) *Producer {
	compression := kafka.Snappy
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	case "none":
		compression = 0
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		topic:  cfg.Topic,
	}
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// PublishPlayerEvent publishes a player event keyed by player name so all
// events for one player land on one partition.
func (p *Producer) PublishPlayerEvent(ctx context.Context, event *PlayerEvent) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.PublishPlayerEvent")
	defer span.End()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.Name),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "traceparent", Value: []byte(tracing.GetTraceParent(ctx))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"topic":      p.topic,
			"event_type": event.EventType,
		}).Error("Failed to publish player event")
		return err
	}

	return nil
}
