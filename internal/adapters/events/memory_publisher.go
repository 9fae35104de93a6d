package events

import (
	"context"
	"slices"
	"sync"
)

// Published is one recorded delivery.
type Published struct {
	EventType    string
	Payload      []byte
	PartitionKey string
}

// MemoryPublisher records published events for tests.
type MemoryPublisher struct {
	mu        sync.Mutex
	published []Published
	fail      error
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

// FailWith makes every subsequent Publish return err.
func (p *MemoryPublisher) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = err
}

func (p *MemoryPublisher) Publish(_ context.Context, eventType string, payload []byte, partitionKey string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.published = append(p.published, Published{
		EventType:    eventType,
		Payload:      slices.Clone(payload),
		PartitionKey: partitionKey,
	})
	return nil
}

func (p *MemoryPublisher) Published() []Published {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Published, len(p.published))
	copy(out, p.published)
	return out
}
