package application

import (
	"time"

	"github.com/helpbridge/helpbridge/internal/ports"
)

type Config struct {
	ServiceName     string
	Currency        string
	PendingOrderTTL time.Duration
	SupportEmail    string
}

type CreateRequestInput struct {
	RequesterID string
	Description string
	RequestDate string
	RequestTime string
	City        string
	Location    string
}

type CreateCampaignInput struct {
	OrganizationID string
	Title          string
	Description    string
	Category       string
	TargetAmount   float64
}

type RegisterIdentityInput struct {
	Role           string
	FullName       string
	Email          string
	Password       string
	Phone          string
	City           string
	IDProofPath    string
	Availability   string
	RegistrationNo string
}

type VerifyPaymentInput struct {
	OrderID    string
	PaymentID  string
	Signature  string
	CampaignID string
	Amount     float64
	DonorID    string
}

type Service struct {
	cfg           Config
	requests      ports.RequestRepository
	campaigns     ports.CampaignRepository
	donations     ports.DonationRepository
	identities    ports.IdentityRepository
	notifications ports.NotificationRepository
	outbox        ports.OutboxRepository
	gateway       ports.PaymentGateway
	orders        ports.PendingOrderStore
	documents     ports.DocumentStore
	hasher        ports.PasswordHasher
	nowFn         func() time.Time
}

type Dependencies struct {
	Config        Config
	Requests      ports.RequestRepository
	Campaigns     ports.CampaignRepository
	Donations     ports.DonationRepository
	Identities    ports.IdentityRepository
	Notifications ports.NotificationRepository
	Outbox        ports.OutboxRepository
	Gateway       ports.PaymentGateway
	Orders        ports.PendingOrderStore
	Documents     ports.DocumentStore
	Hasher        ports.PasswordHasher
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "helpbridge-coordination-service"
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.PendingOrderTTL <= 0 {
		cfg.PendingOrderTTL = 24 * time.Hour
	}
	if cfg.SupportEmail == "" {
		cfg.SupportEmail = "support@helpbridge.org"
	}
	return &Service{
		cfg:           cfg,
		requests:      deps.Requests,
		campaigns:     deps.Campaigns,
		donations:     deps.Donations,
		identities:    deps.Identities,
		notifications: deps.Notifications,
		outbox:        deps.Outbox,
		gateway:       deps.Gateway,
		orders:        deps.Orders,
		documents:     deps.Documents,
		hasher:        deps.Hasher,
		nowFn:         func() time.Time { return time.Now().UTC() },
	}
}
