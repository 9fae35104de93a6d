package contracts

import (
	"encoding/json"
	"time"
)

const (
	EventClassDomain       = "domain"
	EventClassNotification = "notification"
)

type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventClass    string          `json:"event_class,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
	PartitionKey  string          `json:"partition_key"`
	SourceService string          `json:"source_service"`
	SchemaVersion string          `json:"schema_version"`
	Data          json.RawMessage `json:"data"`
}

type RequestCreatedPayload struct {
	RequestID   string `json:"request_id"`
	RequesterID string `json:"requester_id"`
	City        string `json:"city,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type VolunteerAssignedPayload struct {
	RequestID      string `json:"request_id"`
	VolunteerID    string `json:"volunteer_id"`
	OrganizationID string `json:"organization_id"`
	AssignedAt     string `json:"assigned_at"`
}

type RequestAcceptedPayload struct {
	RequestID   string `json:"request_id"`
	VolunteerID string `json:"volunteer_id,omitempty"`
	AcceptedBy  string `json:"accepted_by"`
	AcceptedAt  string `json:"accepted_at"`
}

type AssignmentRejectedPayload struct {
	RequestID   string `json:"request_id"`
	VolunteerID string `json:"volunteer_id"`
	RejectedAt  string `json:"rejected_at"`
}

type RequestCompletedPayload struct {
	RequestID   string `json:"request_id"`
	CompletedAt string `json:"completed_at"`
}

type FundsAllocatedPayload struct {
	RequestID string  `json:"request_id"`
	Amount    float64 `json:"amount"`
	Total     float64 `json:"total"`
}

type DonationSettledPayload struct {
	DonationID     string  `json:"donation_id"`
	CampaignID     string  `json:"campaign_id"`
	DonorID        string  `json:"donor_id,omitempty"`
	Amount         float64 `json:"amount"`
	GatewayOrderID string  `json:"gateway_order_id"`
	SettledAt      string  `json:"settled_at"`
}

type IdentityStatusPayload struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// NotificationRequestedPayload is consumed by the worker-side mail dispatcher.
// AttachmentPath may point at a missing file; dispatch falls back to a plain
// notice in that case.
type NotificationRequestedPayload struct {
	Recipient      string `json:"recipient"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	AttachmentPath string `json:"attachment_path,omitempty"`
	FallbackNote   string `json:"fallback_note,omitempty"`
}

type DLQRecord struct {
	OriginalEvent EventEnvelope `json:"original_event"`
	ErrorSummary  string        `json:"error_summary"`
	RetryCount    int           `json:"retry_count"`
	LastErrorAt   time.Time     `json:"last_error_at"`
}
