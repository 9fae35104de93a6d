package postgres

import (
	"github.com/helpbridge/helpbridge/internal/ports"
	"gorm.io/gorm"
)

// Repositories bundles the Postgres-backed implementations of the persistence
// ports over one shared connection pool.
type Repositories struct {
	Requests      ports.RequestRepository
	Campaigns     ports.CampaignRepository
	Donations     ports.DonationRepository
	Identities    ports.IdentityRepository
	Notifications ports.NotificationRepository
	Outbox        ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Requests:      &requestRepository{db: db},
		Campaigns:     &campaignRepository{db: db},
		Donations:     &donationRepository{db: db},
		Identities:    &identityRepository{db: db},
		Notifications: &notificationRepository{db: db},
		Outbox:        &outboxRepository{db: db},
	}
}
