package events

import (
	"context"
	"log/slog"
)

// LoggingPublisher logs events instead of delivering them. Used when no
// broker is configured, typically in local development.
type LoggingPublisher struct{}

func NewLoggingPublisher() *LoggingPublisher {
	return &LoggingPublisher{}
}

func (p *LoggingPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	slog.Default().InfoContext(ctx, "event published (log only)",
		"module", "events",
		"layer", "adapter",
		"operation", "publish",
		"outcome", "success",
		"event_type", eventType,
		"partition_key", partitionKey,
		"payload_bytes", len(payload),
	)
	return nil
}
