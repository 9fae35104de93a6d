package application

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/helpbridge/helpbridge/internal/contracts"
	"github.com/helpbridge/helpbridge/internal/domain"
	"github.com/helpbridge/helpbridge/internal/ports"
)

func (s *Service) enqueueEvent(ctx context.Context, eventType, eventClass, partitionKey string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	now := s.nowFn()
	envelope := contracts.EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventClass:    eventClass,
		OccurredAt:    now,
		PartitionKey:  partitionKey,
		SourceService: s.cfg.ServiceName,
		SchemaVersion: "1.0",
		Data:          raw,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:      envelope.EventID,
		EventType:    eventType,
		EventClass:   eventClass,
		PartitionKey: partitionKey,
		Payload:      payload,
		OccurredAt:   now,
	})
}

// requestNotification enqueues a notification-class event for the mail
// dispatcher. Failures are deliberately dropped: notification delivery never
// blocks or fails the state change that requested it.
func (s *Service) requestNotification(ctx context.Context, recipient, subject, body, attachmentPath, fallbackNote string) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		recipient = s.cfg.SupportEmail
	}
	_ = s.enqueueEvent(ctx, domain.EventNotificationRequested, contracts.EventClassNotification, recipient, contracts.NotificationRequestedPayload{
		Recipient:      recipient,
		Subject:        subject,
		Body:           body,
		AttachmentPath: attachmentPath,
		FallbackNote:   fallbackNote,
	})
}

// notifyInApp records an in-app notification row, best effort.
func (s *Service) notifyInApp(ctx context.Context, userID, message string) {
	if s.notifications == nil || strings.TrimSpace(userID) == "" {
		return
	}
	_ = s.notifications.Create(ctx, domain.Notification{
		NotificationID: uuid.NewString(),
		UserID:         userID,
		Message:        message,
		CreatedAt:      s.nowFn(),
	})
}
