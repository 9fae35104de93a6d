package application

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/helpbridge/helpbridge/internal/contracts"
	"github.com/helpbridge/helpbridge/internal/domain"
	"github.com/helpbridge/helpbridge/internal/ports"
)

// CreateCampaign opens a fundraising post for an organization. The campaign
// city defaults to the organization's own city.
func (s *Service) CreateCampaign(ctx context.Context, input CreateCampaignInput) (domain.Campaign, error) {
	input.OrganizationID = strings.TrimSpace(input.OrganizationID)
	input.Title = strings.TrimSpace(input.Title)
	if err := domain.ValidateCreateCampaignInput(input.OrganizationID, input.Title, input.TargetAmount); err != nil {
		return domain.Campaign{}, err
	}
	org, err := s.requireRole(ctx, input.OrganizationID, domain.RoleOrganization)
	if err != nil {
		return domain.Campaign{}, err
	}
	now := s.nowFn()
	row := domain.Campaign{
		CampaignID:     uuid.NewString(),
		OrganizationID: input.OrganizationID,
		Title:          input.Title,
		Description:    strings.TrimSpace(input.Description),
		Category:       strings.TrimSpace(input.Category),
		City:           org.City,
		Status:         domain.CampaignStatusOpen,
		TargetAmount:   input.TargetAmount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.campaigns.Create(ctx, row); err != nil {
		return domain.Campaign{}, err
	}
	if err := s.enqueueEvent(ctx, domain.EventCampaignCreated, contracts.EventClassDomain, row.CampaignID, map[string]any{
		"campaign_id":     row.CampaignID,
		"organization_id": row.OrganizationID,
		"target_amount":   row.TargetAmount,
	}); err != nil {
		return domain.Campaign{}, err
	}
	return row, nil
}

func (s *Service) GetCampaign(ctx context.Context, campaignID string) (domain.Campaign, error) {
	if strings.TrimSpace(campaignID) == "" {
		return domain.Campaign{}, domain.ErrInvalidInput
	}
	return s.campaigns.GetByID(ctx, campaignID)
}

func (s *Service) ListCampaigns(ctx context.Context, filter ports.CampaignFilter) ([]domain.Campaign, error) {
	return s.campaigns.List(ctx, filter)
}

func (s *Service) CompleteCampaign(ctx context.Context, campaignID string) error {
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return domain.ErrInvalidInput
	}
	now := s.nowFn()
	if err := s.campaigns.SetStatus(ctx, campaignID, domain.CampaignStatusCompleted, now); err != nil {
		return err
	}
	return s.enqueueEvent(ctx, domain.EventCampaignCompleted, contracts.EventClassDomain, campaignID, map[string]any{
		"campaign_id":  campaignID,
		"completed_at": now.Format(time.RFC3339),
	})
}

// Donate credits a campaign directly, outside the gateway settlement path.
// Used for offline/manual contributions; no Donation ledger row is written.
func (s *Service) Donate(ctx context.Context, campaignID string, amount float64) (domain.Campaign, error) {
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return domain.Campaign{}, domain.ErrInvalidInput
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return domain.Campaign{}, domain.ErrInvalidInput
	}
	if err := s.campaigns.AddCollected(ctx, campaignID, amount); err != nil {
		return domain.Campaign{}, err
	}
	return s.campaigns.GetByID(ctx, campaignID)
}
