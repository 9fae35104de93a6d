package ports

import "context"

// EventPublisher is the outbound domain-event publish port. Broker specifics
// stay in adapters.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}
