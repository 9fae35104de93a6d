package domain

import (
	"net/mail"
	"strings"
	"time"
)

type Role string

const (
	RoleRequester    Role = "REQUESTER"
	RoleVolunteer    Role = "VOLUNTEER"
	RoleOrganization Role = "ORGANIZATION"
	RoleDonor        Role = "DONOR"
	RoleAdmin        Role = "ADMIN"
)

type IdentityStatus string

const (
	IdentityStatusPending   IdentityStatus = "PENDING"
	IdentityStatusApproved  IdentityStatus = "APPROVED"
	IdentityStatusRejected  IdentityStatus = "REJECTED"
	IdentityStatusSuspended IdentityStatus = "SUSPENDED"
)

// Identity is a single account record carrying a role tag plus the optional
// role-specific attributes. There is deliberately no per-role subtype.
type Identity struct {
	UserID         string         `json:"user_id"`
	Role           Role           `json:"role"`
	FullName       string         `json:"full_name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone,omitempty"`
	City           string         `json:"city,omitempty"`
	Status         IdentityStatus `json:"status"`
	IDProofPath    string         `json:"id_proof_path,omitempty"`
	Availability   string         `json:"availability,omitempty"`
	RegistrationNo string         `json:"registration_no,omitempty"`
	PasswordHash   string         `json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Notification is an in-app notification row, distinct from outbound email
// delivery which flows through the outbox.
type Notification struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}

func ValidRole(role Role) bool {
	switch role {
	case RoleRequester, RoleVolunteer, RoleOrganization, RoleDonor, RoleAdmin:
		return true
	}
	return false
}

func ValidateRegisterInput(role Role, fullName, email string) error {
	if !ValidRole(role) {
		return ErrInvalidInput
	}
	if strings.TrimSpace(fullName) == "" {
		return ErrInvalidInput
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return ErrInvalidInput
	}
	return nil
}
