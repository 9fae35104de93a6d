package ports

import (
	"context"
	"time"

	"github.com/helpbridge/helpbridge/internal/domain"
)

// RequestRepository persists service requests with record-atomic writes.
// Mutate runs the supplied function inside a per-record transaction so that a
// read-check-write on one request never interleaves with another writer's.
type RequestRepository interface {
	Create(ctx context.Context, row domain.ServiceRequest) error
	GetByID(ctx context.Context, requestID string) (domain.ServiceRequest, error)
	Mutate(ctx context.Context, requestID string, apply func(*domain.ServiceRequest) error) (domain.ServiceRequest, error)
	Delete(ctx context.Context, requestID string) error
	ListByRequester(ctx context.Context, requesterID string) ([]domain.ServiceRequest, error)
	ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.ServiceRequest, error)
	ListNearby(ctx context.Context, city string, status domain.RequestStatus) ([]domain.ServiceRequest, error)
	ListForOrganization(ctx context.Context, organizationID string) ([]domain.ServiceRequest, error)
}

type CampaignFilter struct {
	OrganizationID string
	Status         domain.CampaignStatus
}

// CampaignRepository persists fundraising campaigns. AddCollected applies the
// delta atomically against the stored total.
type CampaignRepository interface {
	Create(ctx context.Context, row domain.Campaign) error
	GetByID(ctx context.Context, campaignID string) (domain.Campaign, error)
	List(ctx context.Context, filter CampaignFilter) ([]domain.Campaign, error)
	AddCollected(ctx context.Context, campaignID string, delta float64) error
	SetStatus(ctx context.Context, campaignID string, status domain.CampaignStatus, at time.Time) error
}

// DonationRepository is the settlement ledger. Settle inserts the donation and
// credits the campaign's collected amount in one transaction; when the gateway
// order id already exists it reports alreadySettled instead of writing.
type DonationRepository interface {
	GetByOrderID(ctx context.Context, gatewayOrderID string) (domain.Donation, error)
	Settle(ctx context.Context, row domain.Donation) (donation domain.Donation, alreadySettled bool, err error)
	ListByCampaign(ctx context.Context, campaignID string) ([]domain.Donation, error)
	ListByDonor(ctx context.Context, donorID string) ([]domain.Donation, error)
}

type RoleCount struct {
	Total    int64
	Approved int64
	Pending  int64
}

// IdentityRepository backs account registration and the lookup collaborators
// (volunteer-by-city, organization-by-id).
type IdentityRepository interface {
	Create(ctx context.Context, row domain.Identity) error
	GetByID(ctx context.Context, userID string) (domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (domain.Identity, error)
	ListVolunteersByCity(ctx context.Context, city string) ([]domain.Identity, error)
	ListByRole(ctx context.Context, role domain.Role, city string) ([]domain.Identity, error)
	UpdateStatus(ctx context.Context, userID string, status domain.IdentityStatus, at time.Time) error
	CountByRole(ctx context.Context, role domain.Role) (RoleCount, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, row domain.Notification) error
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
}

// OutboxEvent is the write-side event payload prior to storage.
type OutboxEvent struct {
	EventID      string
	EventType    string
	EventClass   string
	PartitionKey string
	Payload      []byte
	OccurredAt   time.Time
}

// OutboxRecord is durable outbox state including retry metadata.
type OutboxRecord struct {
	OutboxID       string
	EventType      string
	EventClass     string
	PartitionKey   string
	Payload        []byte
	RetryCount     int
	LastError      *string
	CreatedAt      time.Time
	PublishedAt    *time.Time
	LastErrorAt    *time.Time
	ClaimToken     *string
	ClaimUntil     *time.Time
	DeadLetteredAt *time.Time
}

// OutboxRepository controls the publish-retry workflow for emitted events.
// Side effects ride this channel so transitions commit before delivery starts.
type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID string, claimToken string, at time.Time) error
	MarkFailed(ctx context.Context, outboxID string, claimToken, errMsg string, at time.Time) error
	MarkDeadLettered(ctx context.Context, outboxID string, claimToken, errMsg string, at time.Time) error
}
