package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/helpbridge/helpbridge/internal/ports"
)

type OutboxRepository struct {
	mu   sync.Mutex
	rows map[string]ports.OutboxRecord
}

func (r *OutboxRepository) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[event.EventID] = ports.OutboxRecord{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		EventClass:   event.EventClass,
		PartitionKey: event.PartitionKey,
		Payload:      slices.Clone(event.Payload),
		CreatedAt:    event.OccurredAt,
	}
	return nil
}

func (r *OutboxRepository) ClaimUnpublished(_ context.Context, limit int, claimToken string, claimUntil time.Time) ([]ports.OutboxRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	out := make([]ports.OutboxRecord, 0, limit)
	for id, row := range r.rows {
		if limit > 0 && len(out) >= limit {
			break
		}
		if row.PublishedAt != nil || row.DeadLetteredAt != nil {
			continue
		}
		if row.ClaimUntil != nil && row.ClaimUntil.After(now) {
			continue
		}
		token := claimToken
		until := claimUntil
		row.ClaimToken = &token
		row.ClaimUntil = &until
		r.rows[id] = row
		out = append(out, row)
	}
	slices.SortFunc(out, func(a, b ports.OutboxRecord) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func (r *OutboxRepository) MarkPublished(_ context.Context, outboxID string, claimToken string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[outboxID]
	if !ok || row.ClaimToken == nil || *row.ClaimToken != claimToken {
		return nil
	}
	row.PublishedAt = &at
	r.rows[outboxID] = row
	return nil
}

func (r *OutboxRepository) MarkFailed(_ context.Context, outboxID string, claimToken, errMsg string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[outboxID]
	if !ok || row.ClaimToken == nil || *row.ClaimToken != claimToken {
		return nil
	}
	row.RetryCount++
	row.LastError = &errMsg
	row.LastErrorAt = &at
	row.ClaimToken = nil
	row.ClaimUntil = nil
	r.rows[outboxID] = row
	return nil
}

func (r *OutboxRepository) MarkDeadLettered(_ context.Context, outboxID string, claimToken, errMsg string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[outboxID]
	if !ok || row.ClaimToken == nil || *row.ClaimToken != claimToken {
		return nil
	}
	row.LastError = &errMsg
	row.LastErrorAt = &at
	row.DeadLetteredAt = &at
	r.rows[outboxID] = row
	return nil
}

// Pending returns unpublished records, oldest first. Test helper.
func (r *OutboxRepository) Pending() []ports.OutboxRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.OutboxRecord, 0, len(r.rows))
	for _, row := range r.rows {
		if row.PublishedAt == nil && row.DeadLetteredAt == nil {
			out = append(out, row)
		}
	}
	slices.SortFunc(out, func(a, b ports.OutboxRecord) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}
