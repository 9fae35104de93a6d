package postgres

import (
	"context"
	"time"

	"github.com/helpbridge/helpbridge/internal/ports"
	"gorm.io/gorm"
)

type outboxRepository struct {
	db *gorm.DB
}

func (r *outboxRepository) Enqueue(ctx context.Context, event ports.OutboxEvent) error {
	rec := outboxModel{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		EventClass:   event.EventClass,
		PartitionKey: event.PartitionKey,
		Payload:      string(event.Payload),
		CreatedAt:    event.OccurredAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

// ClaimUnpublished stamps a claim token on the oldest unpublished rows. The
// SKIP LOCKED subquery keeps concurrent workers from claiming the same rows,
// and expired claims from crashed workers become claimable again.
func (r *outboxRepository) ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]ports.OutboxRecord, error) {
	now := time.Now().UTC()
	if err := r.db.WithContext(ctx).Exec(`
		UPDATE outbox_events
		SET claim_token = ?, claim_until = ?
		WHERE outbox_id IN (
			SELECT outbox_id FROM outbox_events
			WHERE published_at IS NULL
			  AND dead_lettered_at IS NULL
			  AND (claim_until IS NULL OR claim_until < ?)
			ORDER BY created_at
			LIMIT ?
			FOR UPDATE SKIP LOCKED
		)`, claimToken, claimUntil, now, limit).Error; err != nil {
		return nil, err
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("claim_token = ? AND published_at IS NULL AND dead_lettered_at IS NULL", claimToken).
		Order("created_at").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.OutboxRecord, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toOutboxRecord(rec))
	}
	return out, nil
}

func (r *outboxRepository) MarkPublished(ctx context.Context, outboxID string, claimToken string, at time.Time) error {
	return r.claimedUpdate(ctx, outboxID, claimToken, map[string]any{
		"published_at": at,
		"claim_token":  nil,
		"claim_until":  nil,
	})
}

func (r *outboxRepository) MarkFailed(ctx context.Context, outboxID string, claimToken, errMsg string, at time.Time) error {
	return r.claimedUpdate(ctx, outboxID, claimToken, map[string]any{
		"retry_count":   gorm.Expr("retry_count + 1"),
		"last_error":    errMsg,
		"last_error_at": at,
		"claim_token":   nil,
		"claim_until":   nil,
	})
}

func (r *outboxRepository) MarkDeadLettered(ctx context.Context, outboxID string, claimToken, errMsg string, at time.Time) error {
	return r.claimedUpdate(ctx, outboxID, claimToken, map[string]any{
		"dead_lettered_at": at,
		"last_error":       errMsg,
		"last_error_at":    at,
		"claim_token":      nil,
		"claim_until":      nil,
	})
}

// claimedUpdate only touches rows still holding the caller's claim; a row
// reclaimed by another worker after claim expiry is left alone.
func (r *outboxRepository) claimedUpdate(ctx context.Context, outboxID, claimToken string, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("outbox_id = ? AND claim_token = ?", outboxID, claimToken).
		Updates(fields).Error
}

func toOutboxRecord(m outboxModel) ports.OutboxRecord {
	return ports.OutboxRecord{
		OutboxID:       m.OutboxID,
		EventType:      m.EventType,
		EventClass:     m.EventClass,
		PartitionKey:   m.PartitionKey,
		Payload:        []byte(m.Payload),
		RetryCount:     m.RetryCount,
		LastError:      m.LastError,
		CreatedAt:      m.CreatedAt,
		PublishedAt:    m.PublishedAt,
		LastErrorAt:    m.LastErrorAt,
		ClaimToken:     m.ClaimToken,
		ClaimUntil:     m.ClaimUntil,
		DeadLetteredAt: m.DeadLetteredAt,
	}
}
