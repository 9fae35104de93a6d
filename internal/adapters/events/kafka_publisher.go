package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig maps event types to topics; DefaultTopic catches the rest.
type KafkaConfig struct {
	Brokers      []string
	DefaultTopic string
	TopicByEvent map[string]string
	BatchTimeout time.Duration
}

// KafkaPublisher writes domain events keyed by partition key so that events
// for one aggregate stay ordered within a partition.
type KafkaPublisher struct {
	cfg    KafkaConfig
	writer *kafka.Writer
}

func NewKafkaPublisher(cfg KafkaConfig) *KafkaPublisher {
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 100 * time.Millisecond
	}
	return &KafkaPublisher{
		cfg: cfg,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: cfg.BatchTimeout,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	topic := p.cfg.DefaultTopic
	if t, ok := p.cfg.TopicByEvent[eventType]; ok {
		topic = t
	}
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(partitionKey),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	slog.Default().DebugContext(ctx, "event published",
		"module", "events",
		"layer", "adapter",
		"operation", "publish",
		"outcome", "success",
		"event_type", eventType,
		"topic", topic,
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
