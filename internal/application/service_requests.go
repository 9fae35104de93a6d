package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/helpbridge/helpbridge/internal/contracts"
	"github.com/helpbridge/helpbridge/internal/domain"
)

// CreateRequest inserts a new PENDING request and notifies volunteers in the
// same city. Volunteer lookup and notification are best effort; only the
// insert itself can fail the call.
func (s *Service) CreateRequest(ctx context.Context, input CreateRequestInput) (domain.ServiceRequest, error) {
	input.RequesterID = strings.TrimSpace(input.RequesterID)
	input.Description = strings.TrimSpace(input.Description)
	if err := domain.ValidateCreateRequestInput(input.RequesterID, input.Description); err != nil {
		return domain.ServiceRequest{}, err
	}
	now := s.nowFn()
	row := domain.ServiceRequest{
		RequestID:   uuid.NewString(),
		RequesterID: input.RequesterID,
		Description: input.Description,
		RequestDate: strings.TrimSpace(input.RequestDate),
		RequestTime: strings.TrimSpace(input.RequestTime),
		City:        strings.TrimSpace(input.City),
		Location:    strings.TrimSpace(input.Location),
		Status:      domain.RequestStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.requests.Create(ctx, row); err != nil {
		return domain.ServiceRequest{}, err
	}
	if err := s.enqueueEvent(ctx, domain.EventRequestCreated, contracts.EventClassDomain, row.RequestID, contracts.RequestCreatedPayload{
		RequestID:   row.RequestID,
		RequesterID: row.RequesterID,
		City:        row.City,
		CreatedAt:   now.Format(time.RFC3339),
	}); err != nil {
		return domain.ServiceRequest{}, err
	}
	s.notifyNearbyVolunteers(ctx, row)
	return row, nil
}

func (s *Service) notifyNearbyVolunteers(ctx context.Context, row domain.ServiceRequest) {
	if row.City == "" {
		return
	}
	volunteers, err := s.identities.ListVolunteersByCity(ctx, row.City)
	if err != nil {
		return
	}
	for _, v := range volunteers {
		s.requestNotification(ctx, v.Email, "New Request Nearby",
			"A new request has been posted in your city: "+row.Description, "", "")
		s.notifyInApp(ctx, v.UserID, "A new request has been posted in "+row.City+".")
	}
}

// AssignVolunteer links a volunteer and owning organization to the request and
// forces status to ASSIGNED. There is no precondition on the prior status:
// re-assignment after a rejection and overwriting an existing assignment both
// go through here (last writer wins).
func (s *Service) AssignVolunteer(ctx context.Context, requestID, volunteerID, organizationID string) (domain.ServiceRequest, error) {
	volunteer, err := s.requireRole(ctx, volunteerID, domain.RoleVolunteer)
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	if _, err := s.requireRole(ctx, organizationID, domain.RoleOrganization); err != nil {
		return domain.ServiceRequest{}, err
	}
	now := s.nowFn()
	row, err := s.requests.Mutate(ctx, requestID, func(r *domain.ServiceRequest) error {
		r.VolunteerID = volunteerID
		r.OrganizationID = organizationID
		r.Status = domain.RequestStatusAssigned
		r.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	if err := s.enqueueEvent(ctx, domain.EventVolunteerAssigned, contracts.EventClassDomain, row.RequestID, contracts.VolunteerAssignedPayload{
		RequestID:      row.RequestID,
		VolunteerID:    volunteerID,
		OrganizationID: organizationID,
		AssignedAt:     now.Format(time.RFC3339),
	}); err != nil {
		return domain.ServiceRequest{}, err
	}
	s.requestNotification(ctx, volunteer.Email, "New Request Assigned",
		"You have been assigned a new request: "+row.Description+". Please log in to your dashboard to accept it.", "", "")
	s.notifyInApp(ctx, volunteerID, "You have been assigned request "+row.RequestID+".")
	return row, nil
}

// VolunteerAccept moves an ASSIGNED request to ACCEPTED and notifies the
// requester, attaching the volunteer's identity-proof document when it exists
// under the document root. A missing document downgrades to a plain notice and
// never fails the transition.
func (s *Service) VolunteerAccept(ctx context.Context, requestID string) (domain.ServiceRequest, error) {
	now := s.nowFn()
	row, err := s.requests.Mutate(ctx, requestID, func(r *domain.ServiceRequest) error {
		if r.Status != domain.RequestStatusAssigned {
			return domain.ErrInvalidTransition
		}
		r.Status = domain.RequestStatusAccepted
		r.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	if err := s.enqueueEvent(ctx, domain.EventRequestAccepted, contracts.EventClassDomain, row.RequestID, contracts.RequestAcceptedPayload{
		RequestID:   row.RequestID,
		VolunteerID: row.VolunteerID,
		AcceptedBy:  "volunteer",
		AcceptedAt:  now.Format(time.RFC3339),
	}); err != nil {
		return domain.ServiceRequest{}, err
	}
	s.notifyRequesterOfAcceptance(ctx, row)
	return row, nil
}

func (s *Service) notifyRequesterOfAcceptance(ctx context.Context, row domain.ServiceRequest) {
	if row.VolunteerID == "" {
		return
	}
	volunteer, err := s.identities.GetByID(ctx, row.VolunteerID)
	if err != nil {
		return
	}
	recipient := s.cfg.SupportEmail
	if requester, lookupErr := s.identities.GetByID(ctx, row.RequesterID); lookupErr == nil {
		recipient = requester.Email
	}

	subject := "Request Accepted by Volunteer"
	body := fmt.Sprintf("Dear Requester,\n\nYour request %q has been accepted by volunteer %s.\n\nBest Regards,\nHelpBridge Team",
		row.Description, volunteer.FullName)

	attachmentPath := ""
	fallback := "(No identity-proof document available for this volunteer)"
	if volunteer.IDProofPath != "" {
		if abs, ok := s.documents.Resolve(volunteer.IDProofPath); ok {
			attachmentPath = abs
			fallback = ""
			body += "\n\nPlease find the volunteer's identity proof attached for your verification."
		} else {
			fallback = "(Note: identity-proof document not found on server)"
		}
	}
	s.requestNotification(ctx, recipient, subject, body, attachmentPath, fallback)
	s.notifyInApp(ctx, row.RequesterID, "Your request has been accepted by volunteer "+volunteer.FullName+".")
}

// RejectAssignment clears the volunteer and returns an ASSIGNED request to
// PENDING. This is the only transition that removes a volunteer without
// completing the request.
func (s *Service) RejectAssignment(ctx context.Context, requestID string) (domain.ServiceRequest, error) {
	now := s.nowFn()
	var rejectedVolunteer string
	row, err := s.requests.Mutate(ctx, requestID, func(r *domain.ServiceRequest) error {
		if r.Status != domain.RequestStatusAssigned {
			return domain.ErrInvalidTransition
		}
		rejectedVolunteer = r.VolunteerID
		r.VolunteerID = ""
		r.Status = domain.RequestStatusPending
		r.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	if err := s.enqueueEvent(ctx, domain.EventAssignmentRejected, contracts.EventClassDomain, row.RequestID, contracts.AssignmentRejectedPayload{
		RequestID:   row.RequestID,
		VolunteerID: rejectedVolunteer,
		RejectedAt:  now.Format(time.RFC3339),
	}); err != nil {
		return domain.ServiceRequest{}, err
	}
	return row, nil
}

// AcceptByOrganization lets an organization claim a PENDING request directly,
// without a volunteer.
func (s *Service) AcceptByOrganization(ctx context.Context, requestID, organizationID string) (domain.ServiceRequest, error) {
	if _, err := s.requireRole(ctx, organizationID, domain.RoleOrganization); err != nil {
		return domain.ServiceRequest{}, err
	}
	now := s.nowFn()
	row, err := s.requests.Mutate(ctx, requestID, func(r *domain.ServiceRequest) error {
		if r.Status != domain.RequestStatusPending {
			return domain.ErrInvalidTransition
		}
		r.OrganizationID = organizationID
		r.Status = domain.RequestStatusAccepted
		r.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	if err := s.enqueueEvent(ctx, domain.EventRequestAccepted, contracts.EventClassDomain, row.RequestID, contracts.RequestAcceptedPayload{
		RequestID:  row.RequestID,
		AcceptedBy: "organization",
		AcceptedAt: now.Format(time.RFC3339),
	}); err != nil {
		return domain.ServiceRequest{}, err
	}
	return row, nil
}

// Complete force-completes a request from any state. COMPLETED is terminal for
// the accept/reject paths.
func (s *Service) Complete(ctx context.Context, requestID string) (domain.ServiceRequest, error) {
	now := s.nowFn()
	row, err := s.requests.Mutate(ctx, requestID, func(r *domain.ServiceRequest) error {
		r.Status = domain.RequestStatusCompleted
		r.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	if err := s.enqueueEvent(ctx, domain.EventRequestCompleted, contracts.EventClassDomain, row.RequestID, contracts.RequestCompletedPayload{
		RequestID:   row.RequestID,
		CompletedAt: now.Format(time.RFC3339),
	}); err != nil {
		return domain.ServiceRequest{}, err
	}
	return row, nil
}

// SubmitFeedback stores free-text feedback without touching status.
func (s *Service) SubmitFeedback(ctx context.Context, requestID, feedback string) (domain.ServiceRequest, error) {
	now := s.nowFn()
	return s.requests.Mutate(ctx, requestID, func(r *domain.ServiceRequest) error {
		r.Feedback = feedback
		r.UpdatedAt = now
		return nil
	})
}

// AllocateFunds adds a finite non-negative amount to the request's allocation
// accumulator. The accumulator never decreases.
func (s *Service) AllocateFunds(ctx context.Context, requestID string, amount float64) (domain.ServiceRequest, error) {
	if err := domain.ValidateAllocationAmount(amount); err != nil {
		return domain.ServiceRequest{}, err
	}
	now := s.nowFn()
	row, err := s.requests.Mutate(ctx, requestID, func(r *domain.ServiceRequest) error {
		r.FundsAllocated += amount
		r.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	if err := s.enqueueEvent(ctx, domain.EventFundsAllocated, contracts.EventClassDomain, row.RequestID, contracts.FundsAllocatedPayload{
		RequestID: row.RequestID,
		Amount:    amount,
		Total:     row.FundsAllocated,
	}); err != nil {
		return domain.ServiceRequest{}, err
	}
	return row, nil
}

// DeleteRequest removes the record unconditionally. Cleanup of dependent
// records is a collaborator concern, not enforced here.
func (s *Service) DeleteRequest(ctx context.Context, requestID string) error {
	if strings.TrimSpace(requestID) == "" {
		return domain.ErrInvalidInput
	}
	return s.requests.Delete(ctx, requestID)
}

func (s *Service) GetRequest(ctx context.Context, requestID string) (domain.ServiceRequest, error) {
	if strings.TrimSpace(requestID) == "" {
		return domain.ServiceRequest{}, domain.ErrInvalidInput
	}
	return s.requests.GetByID(ctx, requestID)
}

func (s *Service) ListRequestsByRequester(ctx context.Context, requesterID string) ([]domain.ServiceRequest, error) {
	return s.requests.ListByRequester(ctx, requesterID)
}

func (s *Service) ListRequestsByVolunteer(ctx context.Context, volunteerID string) ([]domain.ServiceRequest, error) {
	return s.requests.ListByVolunteer(ctx, volunteerID)
}

// ListNearbyRequests returns PENDING requests in the given city.
func (s *Service) ListNearbyRequests(ctx context.Context, city string) ([]domain.ServiceRequest, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.requests.ListNearby(ctx, city, domain.RequestStatusPending)
}

// ListRequestsForOrganization returns PENDING requests plus those owned by the
// organization. The filter runs at the store layer.
func (s *Service) ListRequestsForOrganization(ctx context.Context, organizationID string) ([]domain.ServiceRequest, error) {
	if strings.TrimSpace(organizationID) == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.requests.ListForOrganization(ctx, organizationID)
}

func (s *Service) requireRole(ctx context.Context, userID string, role domain.Role) (domain.Identity, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Identity{}, domain.ErrInvalidInput
	}
	identity, err := s.identities.GetByID(ctx, userID)
	if err != nil {
		return domain.Identity{}, err
	}
	if identity.Role != role {
		return domain.Identity{}, domain.ErrNotFound
	}
	return identity, nil
}
