// Package memory provides mutex-guarded in-memory implementations of the
// persistence ports. They back unit tests and credential-free local runs with
// the same record-atomic semantics the postgres adapters provide.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/helpbridge/helpbridge/internal/domain"
	"github.com/helpbridge/helpbridge/internal/ports"
)

type Repositories struct {
	Requests      *RequestRepository
	Campaigns     *CampaignRepository
	Donations     *DonationRepository
	Identities    *IdentityRepository
	Notifications *NotificationRepository
	Outbox        *OutboxRepository
}

func NewRepositories() *Repositories {
	campaigns := &CampaignRepository{rows: make(map[string]domain.Campaign)}
	return &Repositories{
		Requests:      &RequestRepository{rows: make(map[string]domain.ServiceRequest)},
		Campaigns:     campaigns,
		Donations:     &DonationRepository{rows: make(map[string]domain.Donation), byOrder: make(map[string]string), campaigns: campaigns},
		Identities:    &IdentityRepository{rows: make(map[string]domain.Identity), byEmail: make(map[string]string)},
		Notifications: &NotificationRepository{},
		Outbox:        &OutboxRepository{rows: make(map[string]ports.OutboxRecord)},
	}
}

type RequestRepository struct {
	mu   sync.Mutex
	rows map[string]domain.ServiceRequest
}

func (r *RequestRepository) Create(_ context.Context, row domain.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.RequestID]; ok {
		return domain.ErrConflict
	}
	r.rows[row.RequestID] = row
	return nil
}

func (r *RequestRepository) GetByID(_ context.Context, requestID string) (domain.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[requestID]
	if !ok {
		return domain.ServiceRequest{}, domain.ErrNotFound
	}
	return row, nil
}

// Mutate serializes read-check-write cycles on one request behind the store
// mutex, mirroring the row lock the postgres adapter takes.
func (r *RequestRepository) Mutate(_ context.Context, requestID string, apply func(*domain.ServiceRequest) error) (domain.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[requestID]
	if !ok {
		return domain.ServiceRequest{}, domain.ErrNotFound
	}
	if err := apply(&row); err != nil {
		return domain.ServiceRequest{}, err
	}
	r.rows[requestID] = row
	return row, nil
}

func (r *RequestRepository) Delete(_ context.Context, requestID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[requestID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, requestID)
	return nil
}

func (r *RequestRepository) ListByRequester(_ context.Context, requesterID string) ([]domain.ServiceRequest, error) {
	return r.list(func(row domain.ServiceRequest) bool { return row.RequesterID == requesterID })
}

func (r *RequestRepository) ListByVolunteer(_ context.Context, volunteerID string) ([]domain.ServiceRequest, error) {
	return r.list(func(row domain.ServiceRequest) bool { return row.VolunteerID == volunteerID })
}

func (r *RequestRepository) ListNearby(_ context.Context, city string, status domain.RequestStatus) ([]domain.ServiceRequest, error) {
	return r.list(func(row domain.ServiceRequest) bool {
		return strings.EqualFold(row.City, city) && row.Status == status
	})
}

func (r *RequestRepository) ListForOrganization(_ context.Context, organizationID string) ([]domain.ServiceRequest, error) {
	return r.list(func(row domain.ServiceRequest) bool {
		return row.Status == domain.RequestStatusPending || row.OrganizationID == organizationID
	})
}

func (r *RequestRepository) list(match func(domain.ServiceRequest) bool) ([]domain.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ServiceRequest, 0)
	for _, row := range r.rows {
		if match(row) {
			out = append(out, row)
		}
	}
	slices.SortFunc(out, func(a, b domain.ServiceRequest) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

type CampaignRepository struct {
	mu   sync.Mutex
	rows map[string]domain.Campaign
}

func (r *CampaignRepository) Create(_ context.Context, row domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.CampaignID]; ok {
		return domain.ErrConflict
	}
	r.rows[row.CampaignID] = row
	return nil
}

func (r *CampaignRepository) GetByID(_ context.Context, campaignID string) (domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(campaignID)
}

func (r *CampaignRepository) getLocked(campaignID string) (domain.Campaign, error) {
	row, ok := r.rows[campaignID]
	if !ok {
		return domain.Campaign{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *CampaignRepository) List(_ context.Context, filter ports.CampaignFilter) ([]domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Campaign, 0, len(r.rows))
	for _, row := range r.rows {
		if filter.OrganizationID != "" && row.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		out = append(out, row)
	}
	slices.SortFunc(out, func(a, b domain.Campaign) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (r *CampaignRepository) AddCollected(_ context.Context, campaignID string, delta float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addCollectedLocked(campaignID, delta)
}

func (r *CampaignRepository) addCollectedLocked(campaignID string, delta float64) error {
	row, ok := r.rows[campaignID]
	if !ok {
		return domain.ErrNotFound
	}
	row.CollectedAmount += delta
	row.UpdatedAt = time.Now().UTC()
	r.rows[campaignID] = row
	return nil
}

func (r *CampaignRepository) SetStatus(_ context.Context, campaignID string, status domain.CampaignStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[campaignID]
	if !ok {
		return domain.ErrNotFound
	}
	row.Status = status
	row.UpdatedAt = at
	r.rows[campaignID] = row
	return nil
}

type DonationRepository struct {
	mu        sync.Mutex
	rows      map[string]domain.Donation
	byOrder   map[string]string
	campaigns *CampaignRepository
}

func (r *DonationRepository) GetByOrderID(_ context.Context, gatewayOrderID string) (domain.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byOrder[gatewayOrderID]
	if !ok {
		return domain.Donation{}, domain.ErrNotFound
	}
	return r.rows[id], nil
}

// Settle inserts the donation and credits the campaign under one lock pair so
// two concurrent settlements of the same order cannot both pass the
// uniqueness check.
func (r *DonationRepository) Settle(_ context.Context, row domain.Donation) (domain.Donation, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existingID, ok := r.byOrder[row.GatewayOrderID]; ok {
		return r.rows[existingID], true, nil
	}

	r.campaigns.mu.Lock()
	defer r.campaigns.mu.Unlock()
	if _, err := r.campaigns.getLocked(row.CampaignID); err != nil {
		return domain.Donation{}, false, err
	}
	r.rows[row.DonationID] = row
	r.byOrder[row.GatewayOrderID] = row.DonationID
	if err := r.campaigns.addCollectedLocked(row.CampaignID, row.Amount); err != nil {
		delete(r.rows, row.DonationID)
		delete(r.byOrder, row.GatewayOrderID)
		return domain.Donation{}, false, err
	}
	return row, false, nil
}

func (r *DonationRepository) ListByCampaign(_ context.Context, campaignID string) ([]domain.Donation, error) {
	return r.list(func(row domain.Donation) bool { return row.CampaignID == campaignID })
}

func (r *DonationRepository) ListByDonor(_ context.Context, donorID string) ([]domain.Donation, error) {
	return r.list(func(row domain.Donation) bool { return row.DonorID == donorID })
}

func (r *DonationRepository) list(match func(domain.Donation) bool) ([]domain.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Donation, 0)
	for _, row := range r.rows {
		if match(row) {
			out = append(out, row)
		}
	}
	slices.SortFunc(out, func(a, b domain.Donation) int {
		return b.DonatedAt.Compare(a.DonatedAt)
	})
	return out, nil
}

type IdentityRepository struct {
	mu      sync.Mutex
	rows    map[string]domain.Identity
	byEmail map[string]string
}

func (r *IdentityRepository) Create(_ context.Context, row domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[row.Email]; ok {
		return domain.ErrConflict
	}
	r.rows[row.UserID] = row
	r.byEmail[row.Email] = row.UserID
	return nil
}

func (r *IdentityRepository) GetByID(_ context.Context, userID string) (domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[userID]
	if !ok {
		return domain.Identity{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *IdentityRepository) GetByEmail(_ context.Context, email string) (domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return domain.Identity{}, domain.ErrNotFound
	}
	return r.rows[id], nil
}

func (r *IdentityRepository) ListVolunteersByCity(_ context.Context, city string) ([]domain.Identity, error) {
	return r.list(func(row domain.Identity) bool {
		return row.Role == domain.RoleVolunteer &&
			row.Status == domain.IdentityStatusApproved &&
			strings.EqualFold(row.City, city)
	})
}

func (r *IdentityRepository) ListByRole(_ context.Context, role domain.Role, city string) ([]domain.Identity, error) {
	return r.list(func(row domain.Identity) bool {
		if row.Role != role {
			return false
		}
		return city == "" || strings.EqualFold(row.City, city)
	})
}

func (r *IdentityRepository) UpdateStatus(_ context.Context, userID string, status domain.IdentityStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[userID]
	if !ok {
		return domain.ErrNotFound
	}
	row.Status = status
	row.UpdatedAt = at
	r.rows[userID] = row
	return nil
}

func (r *IdentityRepository) CountByRole(_ context.Context, role domain.Role) (ports.RoleCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out ports.RoleCount
	for _, row := range r.rows {
		if row.Role != role {
			continue
		}
		out.Total++
		switch row.Status {
		case domain.IdentityStatusApproved:
			out.Approved++
		case domain.IdentityStatusPending:
			out.Pending++
		}
	}
	return out, nil
}

func (r *IdentityRepository) list(match func(domain.Identity) bool) ([]domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Identity, 0)
	for _, row := range r.rows {
		if match(row) {
			out = append(out, row)
		}
	}
	slices.SortFunc(out, func(a, b domain.Identity) int {
		return strings.Compare(a.UserID, b.UserID)
	})
	return out, nil
}

type NotificationRepository struct {
	mu   sync.Mutex
	rows []domain.Notification
}

func (r *NotificationRepository) Create(_ context.Context, row domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, row)
	return nil
}

func (r *NotificationRepository) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, 0)
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	slices.SortFunc(out, func(a, b domain.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}
