package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/helpbridge/helpbridge/internal/contracts"
	"github.com/helpbridge/helpbridge/internal/ports"
)

// OutboxWorkerConfig tunes the publish loop. Zero values take defaults.
type OutboxWorkerConfig struct {
	PollInterval  time.Duration
	BatchSize     int
	ClaimDuration time.Duration
	MaxRetries    int
}

// OutboxWorker drains the outbox: domain-class events go to the broker,
// notification-class events go to the mail notifier. A record that keeps
// failing past MaxRetries is dead-lettered and a DLQ record is published so
// nothing blocks the queue head.
type OutboxWorker struct {
	cfg       OutboxWorkerConfig
	outbox    ports.OutboxRepository
	publisher ports.EventPublisher
	notifier  ports.Notifier
	logger    *slog.Logger
	dlqTopic  string
}

func NewOutboxWorker(cfg OutboxWorkerConfig, outbox ports.OutboxRepository, publisher ports.EventPublisher, notifier ports.Notifier, logger *slog.Logger) *OutboxWorker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.ClaimDuration <= 0 {
		cfg.ClaimDuration = time.Minute
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OutboxWorker{
		cfg:       cfg,
		outbox:    outbox,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
		dlqTopic:  "helpbridge.events.dlq",
	}
}

// Run polls until ctx is cancelled.
func (w *OutboxWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Drain(ctx)
		}
	}
}

// Drain claims and processes one batch. Exported so tests can step the worker
// without the poll loop.
func (w *OutboxWorker) Drain(ctx context.Context) {
	claimToken := uuid.NewString()
	claimUntil := time.Now().UTC().Add(w.cfg.ClaimDuration)
	records, err := w.outbox.ClaimUnpublished(ctx, w.cfg.BatchSize, claimToken, claimUntil)
	if err != nil {
		w.logger.ErrorContext(ctx, "outbox claim failed",
			"module", "events",
			"layer", "worker",
			"operation", "claim",
			"outcome", "error",
			"error", err,
		)
		return
	}
	for _, rec := range records {
		w.process(ctx, rec, claimToken)
	}
}

func (w *OutboxWorker) process(ctx context.Context, rec ports.OutboxRecord, claimToken string) {
	var err error
	switch rec.EventClass {
	case contracts.EventClassNotification:
		err = w.dispatchNotification(ctx, rec)
	default:
		err = w.publisher.Publish(ctx, rec.EventType, rec.Payload, rec.PartitionKey)
	}
	now := time.Now().UTC()
	if err == nil {
		if markErr := w.outbox.MarkPublished(ctx, rec.OutboxID, claimToken, now); markErr != nil {
			w.logger.ErrorContext(ctx, "outbox mark published failed",
				"module", "events",
				"layer", "worker",
				"operation", "mark_published",
				"outcome", "error",
				"outbox_id", rec.OutboxID,
				"error", markErr,
			)
		}
		return
	}

	w.logger.WarnContext(ctx, "outbox delivery failed",
		"module", "events",
		"layer", "worker",
		"operation", "deliver",
		"outcome", "error",
		"outbox_id", rec.OutboxID,
		"event_type", rec.EventType,
		"retry_count", rec.RetryCount,
		"error", err,
	)
	if rec.RetryCount+1 >= w.cfg.MaxRetries {
		w.deadLetter(ctx, rec, claimToken, err)
		return
	}
	if markErr := w.outbox.MarkFailed(ctx, rec.OutboxID, claimToken, err.Error(), now); markErr != nil {
		w.logger.ErrorContext(ctx, "outbox mark failed errored",
			"module", "events",
			"layer", "worker",
			"operation", "mark_failed",
			"outcome", "error",
			"outbox_id", rec.OutboxID,
			"error", markErr,
		)
	}
}

func (w *OutboxWorker) dispatchNotification(ctx context.Context, rec ports.OutboxRecord) error {
	var envelope contracts.EventEnvelope
	if err := json.Unmarshal(rec.Payload, &envelope); err != nil {
		return err
	}
	var payload contracts.NotificationRequestedPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		return err
	}
	body := payload.Body
	if payload.FallbackNote != "" {
		body += "\n\n" + payload.FallbackNote
	}
	attachment := payload.AttachmentPath
	if attachment != "" {
		// The file may have been removed between enqueue and dispatch; a
		// missing attachment downgrades the mail, it never blocks delivery.
		if _, err := os.Stat(attachment); err != nil {
			w.logger.WarnContext(ctx, "notification attachment unavailable",
				"module", "events",
				"layer", "worker",
				"operation", "dispatch_notification",
				"outcome", "fallback",
				"outbox_id", rec.OutboxID,
				"attachment_path", attachment,
			)
			attachment = ""
			body += "\n\n(Note: identity-proof document not found on server)"
		}
	}
	return w.notifier.Notify(ctx, payload.Recipient, payload.Subject, body, attachment)
}

func (w *OutboxWorker) deadLetter(ctx context.Context, rec ports.OutboxRecord, claimToken string, cause error) {
	now := time.Now().UTC()
	var envelope contracts.EventEnvelope
	_ = json.Unmarshal(rec.Payload, &envelope)
	dlq := contracts.DLQRecord{
		OriginalEvent: envelope,
		ErrorSummary:  cause.Error(),
		RetryCount:    rec.RetryCount + 1,
		LastErrorAt:   now,
	}
	if raw, err := json.Marshal(dlq); err == nil {
		if pubErr := w.publisher.Publish(ctx, w.dlqTopic, raw, rec.PartitionKey); pubErr != nil {
			w.logger.ErrorContext(ctx, "dlq publish failed",
				"module", "events",
				"layer", "worker",
				"operation", "dead_letter",
				"outcome", "error",
				"outbox_id", rec.OutboxID,
				"error", pubErr,
			)
		}
	}
	if err := w.outbox.MarkDeadLettered(ctx, rec.OutboxID, claimToken, cause.Error(), now); err != nil {
		w.logger.ErrorContext(ctx, "outbox mark dead-lettered failed",
			"module", "events",
			"layer", "worker",
			"operation", "dead_letter",
			"outcome", "error",
			"outbox_id", rec.OutboxID,
			"error", err,
		)
	}
}
