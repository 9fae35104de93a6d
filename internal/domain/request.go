package domain

import (
	"math"
	"strings"
	"time"
)

type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "PENDING"
	RequestStatusAssigned   RequestStatus = "ASSIGNED"
	RequestStatusAccepted   RequestStatus = "ACCEPTED"
	RequestStatusInProgress RequestStatus = "IN_PROGRESS"
	RequestStatusCompleted  RequestStatus = "COMPLETED"
)

// ServiceRequest is a help request tracked through the assignment state machine.
// VolunteerID and OrganizationID are empty until an assignment or claim happens;
// RejectAssignment is the only transition that clears a volunteer without completing.
type ServiceRequest struct {
	RequestID      string        `json:"request_id"`
	RequesterID    string        `json:"requester_id"`
	VolunteerID    string        `json:"volunteer_id,omitempty"`
	OrganizationID string        `json:"organization_id,omitempty"`
	Description    string        `json:"description"`
	RequestDate    string        `json:"request_date,omitempty"`
	RequestTime    string        `json:"request_time,omitempty"`
	City           string        `json:"city,omitempty"`
	Location       string        `json:"location,omitempty"`
	Status         RequestStatus `json:"status"`
	Feedback       string        `json:"feedback,omitempty"`
	FundsAllocated float64       `json:"funds_allocated"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (r ServiceRequest) IsTerminal() bool {
	return r.Status == RequestStatusCompleted
}

func ValidateCreateRequestInput(requesterID, description string) error {
	if strings.TrimSpace(requesterID) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(description) == "" {
		return ErrInvalidInput
	}
	return nil
}

func ValidateAllocationAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ErrInvalidInput
	}
	if amount < 0 {
		return ErrInvalidInput
	}
	return nil
}
