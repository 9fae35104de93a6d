package postgres

import (
	"errors"

	"github.com/helpbridge/helpbridge/internal/domain"
	"gorm.io/gorm"
)

func toDomainRequest(m requestModel) domain.ServiceRequest {
	return domain.ServiceRequest{
		RequestID:      m.RequestID,
		RequesterID:    m.RequesterID,
		VolunteerID:    deref(m.VolunteerID),
		OrganizationID: deref(m.OrganizationID),
		Description:    m.Description,
		RequestDate:    m.RequestDate,
		RequestTime:    m.RequestTime,
		City:           m.City,
		Location:       m.Location,
		Status:         domain.RequestStatus(m.Status),
		Feedback:       m.Feedback,
		FundsAllocated: m.FundsAllocated,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toRequestModel(r domain.ServiceRequest) requestModel {
	return requestModel{
		RequestID:      r.RequestID,
		RequesterID:    r.RequesterID,
		VolunteerID:    optional(r.VolunteerID),
		OrganizationID: optional(r.OrganizationID),
		Description:    r.Description,
		RequestDate:    r.RequestDate,
		RequestTime:    r.RequestTime,
		City:           r.City,
		Location:       r.Location,
		Status:         string(r.Status),
		Feedback:       r.Feedback,
		FundsAllocated: r.FundsAllocated,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toDomainCampaign(m campaignModel) domain.Campaign {
	return domain.Campaign{
		CampaignID:      m.CampaignID,
		OrganizationID:  m.OrganizationID,
		Title:           m.Title,
		Description:     m.Description,
		Category:        m.Category,
		City:            m.City,
		Status:          domain.CampaignStatus(m.Status),
		TargetAmount:    m.TargetAmount,
		CollectedAmount: m.CollectedAmount,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toDomainDonation(m donationModel) domain.Donation {
	return domain.Donation{
		DonationID:       m.DonationID,
		CampaignID:       m.CampaignID,
		DonorID:          deref(m.DonorID),
		Amount:           m.Amount,
		GatewayOrderID:   m.GatewayOrderID,
		GatewayPaymentID: m.GatewayPaymentID,
		Status:           domain.DonationStatus(m.Status),
		DonatedAt:        m.DonatedAt,
	}
}

func toDomainIdentity(m identityModel) domain.Identity {
	return domain.Identity{
		UserID:         m.UserID,
		Role:           domain.Role(m.Role),
		FullName:       m.FullName,
		Email:          m.Email,
		Phone:          m.Phone,
		City:           m.City,
		Status:         domain.IdentityStatus(m.Status),
		IDProofPath:    m.IDProofPath,
		Availability:   m.Availability,
		RegistrationNo: m.RegistrationNo,
		PasswordHash:   m.PasswordHash,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
