package application_test

import (
	"context"
	"testing"

	"github.com/helpbridge/helpbridge/internal/adapters/memory"
	"github.com/helpbridge/helpbridge/internal/application"
	"github.com/helpbridge/helpbridge/internal/contracts"
	"github.com/helpbridge/helpbridge/internal/domain"
	"github.com/helpbridge/helpbridge/internal/ports"
)

type fixture struct {
	svc    *application.Service
	repos  *memory.Repositories
	orders *memory.PendingOrderStore
}

// plainHasher keeps identity tests fast; bcrypt behavior is covered in the
// security package.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func newFixture(t *testing.T, gateway ports.PaymentGateway) *fixture {
	t.Helper()
	repos := memory.NewRepositories()
	orders := memory.NewPendingOrderStore()
	svc := application.NewService(application.Dependencies{
		Requests:      repos.Requests,
		Campaigns:     repos.Campaigns,
		Donations:     repos.Donations,
		Identities:    repos.Identities,
		Notifications: repos.Notifications,
		Outbox:        repos.Outbox,
		Gateway:       gateway,
		Orders:        orders,
		Hasher:        plainHasher{},
	})
	return &fixture{svc: svc, repos: repos, orders: orders}
}

func (f *fixture) register(t *testing.T, role, name, email, city string) domain.Identity {
	t.Helper()
	row, err := f.svc.RegisterIdentity(context.Background(), application.RegisterIdentityInput{
		Role:     role,
		FullName: name,
		Email:    email,
		Password: "secret",
		City:     city,
	})
	if err != nil {
		t.Fatalf("register %s: %v", role, err)
	}
	return row
}

func (f *fixture) createRequest(t *testing.T, requesterID, city string) domain.ServiceRequest {
	t.Helper()
	row, err := f.svc.CreateRequest(context.Background(), application.CreateRequestInput{
		RequesterID: requesterID,
		Description: "Need groceries delivered",
		City:        city,
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	return row
}

func (f *fixture) createCampaign(t *testing.T, organizationID string) domain.Campaign {
	t.Helper()
	row, err := f.svc.CreateCampaign(context.Background(), application.CreateCampaignInput{
		OrganizationID: organizationID,
		Title:          "Winter Relief Fund",
		TargetAmount:   10000,
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	return row
}

func (f *fixture) pendingEvents(class string) []ports.OutboxRecord {
	var out []ports.OutboxRecord
	for _, rec := range f.repos.Outbox.Pending() {
		if rec.EventClass == class {
			out = append(out, rec)
		}
	}
	return out
}

func requestInput(requesterID, description string) application.CreateRequestInput {
	return application.CreateRequestInput{RequesterID: requesterID, Description: description}
}

func (f *fixture) notificationCount() int {
	return len(f.pendingEvents(contracts.EventClassNotification))
}
