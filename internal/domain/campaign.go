package domain

import (
	"strings"
	"time"
)

type CampaignStatus string

const (
	CampaignStatusOpen      CampaignStatus = "OPEN"
	CampaignStatusCompleted CampaignStatus = "COMPLETED"
)

// Campaign is a fundraising post owned by an organization. CollectedAmount is a
// monotonic accumulator credited only by donation settlement or a direct donation.
type Campaign struct {
	CampaignID      string         `json:"campaign_id"`
	OrganizationID  string         `json:"organization_id"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	Category        string         `json:"category,omitempty"`
	City            string         `json:"city,omitempty"`
	Status          CampaignStatus `json:"status"`
	TargetAmount    float64        `json:"target_amount"`
	CollectedAmount float64        `json:"collected_amount"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func ValidateCreateCampaignInput(organizationID, title string, targetAmount float64) error {
	if strings.TrimSpace(organizationID) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(title) == "" {
		return ErrInvalidInput
	}
	if targetAmount < 0 {
		return ErrInvalidInput
	}
	return nil
}
