package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/helpbridge/helpbridge/internal/contracts"
	"github.com/helpbridge/helpbridge/internal/domain"
)

// RegisterIdentity creates a new account in PENDING status. One record per
// account regardless of role; role-specific attributes are optional fields.
func (s *Service) RegisterIdentity(ctx context.Context, input RegisterIdentityInput) (domain.Identity, error) {
	role := domain.Role(strings.ToUpper(strings.TrimSpace(input.Role)))
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := domain.ValidateRegisterInput(role, input.FullName, email); err != nil {
		return domain.Identity{}, err
	}
	if strings.TrimSpace(input.Password) == "" {
		return domain.Identity{}, domain.ErrInvalidInput
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return domain.Identity{}, err
	}
	now := s.nowFn()
	row := domain.Identity{
		UserID:         uuid.NewString(),
		Role:           role,
		FullName:       strings.TrimSpace(input.FullName),
		Email:          email,
		Phone:          strings.TrimSpace(input.Phone),
		City:           strings.TrimSpace(input.City),
		Status:         domain.IdentityStatusPending,
		IDProofPath:    strings.TrimSpace(input.IDProofPath),
		Availability:   strings.TrimSpace(input.Availability),
		RegistrationNo: strings.TrimSpace(input.RegistrationNo),
		PasswordHash:   hash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.identities.Create(ctx, row); err != nil {
		return domain.Identity{}, err
	}
	if err := s.enqueueEvent(ctx, domain.EventIdentityRegistered, contracts.EventClassDomain, row.UserID, contracts.IdentityStatusPayload{
		UserID: row.UserID,
		Role:   string(row.Role),
		Status: string(row.Status),
	}); err != nil {
		return domain.Identity{}, err
	}
	return row, nil
}

func (s *Service) GetIdentity(ctx context.Context, userID string) (domain.Identity, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Identity{}, domain.ErrInvalidInput
	}
	return s.identities.GetByID(ctx, userID)
}

func (s *Service) ListVolunteers(ctx context.Context, city string) ([]domain.Identity, error) {
	if strings.TrimSpace(city) != "" {
		return s.identities.ListVolunteersByCity(ctx, city)
	}
	return s.identities.ListByRole(ctx, domain.RoleVolunteer, "")
}

func (s *Service) ListIdentitiesByRole(ctx context.Context, role domain.Role, city string) ([]domain.Identity, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}
	return s.identities.ListByRole(ctx, role, strings.TrimSpace(city))
}

// ApproveIdentity flips an account to APPROVED and notifies the owner.
func (s *Service) ApproveIdentity(ctx context.Context, userID string) error {
	return s.setIdentityStatus(ctx, userID, domain.IdentityStatusApproved, domain.EventIdentityApproved,
		"HelpBridge Account Approved",
		"Congratulations! Your account has been approved. You can now log in and access all features.")
}

// RejectIdentity flips an account to REJECTED and notifies the owner.
func (s *Service) RejectIdentity(ctx context.Context, userID string) error {
	return s.setIdentityStatus(ctx, userID, domain.IdentityStatusRejected, domain.EventIdentityRejected,
		"HelpBridge Account Update",
		"We regret to inform you that your account registration has been rejected. Please contact support for details.")
}

func (s *Service) setIdentityStatus(ctx context.Context, userID string, status domain.IdentityStatus, eventType, subject, message string) error {
	identity, err := s.GetIdentity(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.identities.UpdateStatus(ctx, userID, status, s.nowFn()); err != nil {
		return err
	}
	if err := s.enqueueEvent(ctx, eventType, contracts.EventClassDomain, userID, contracts.IdentityStatusPayload{
		UserID: userID,
		Role:   string(identity.Role),
		Status: string(status),
	}); err != nil {
		return err
	}
	body := "Dear " + identity.FullName + ",\n\n" + message + "\n\nBest Regards,\nHelpBridge Team"
	s.requestNotification(ctx, identity.Email, subject, body, "", "")
	s.notifyInApp(ctx, userID, message)
	return nil
}

// DashboardSummary reports per-role account counts for the admin view.
func (s *Service) DashboardSummary(ctx context.Context) (contracts.DashboardSummaryResponse, error) {
	var out contracts.DashboardSummaryResponse
	for _, entry := range []struct {
		role domain.Role
		dst  *contracts.RoleStats
	}{
		{domain.RoleRequester, &out.Requesters},
		{domain.RoleVolunteer, &out.Volunteers},
		{domain.RoleOrganization, &out.Organizations},
		{domain.RoleDonor, &out.Donors},
	} {
		count, err := s.identities.CountByRole(ctx, entry.role)
		if err != nil {
			return contracts.DashboardSummaryResponse{}, err
		}
		entry.dst.Total = count.Total
		entry.dst.Approved = count.Approved
		entry.dst.Pending = count.Pending
	}
	return out, nil
}

func (s *Service) ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.notifications.ListByUser(ctx, userID)
}
