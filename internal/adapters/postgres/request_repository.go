package postgres

import (
	"context"

	"github.com/helpbridge/helpbridge/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type requestRepository struct {
	db *gorm.DB
}

func (r *requestRepository) Create(ctx context.Context, row domain.ServiceRequest) error {
	rec := toRequestModel(row)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, requestID string) (domain.ServiceRequest, error) {
	var rec requestModel
	if err := r.db.WithContext(ctx).Where("request_id = ?", requestID).Take(&rec).Error; err != nil {
		return domain.ServiceRequest{}, translateNotFound(err)
	}
	return toDomainRequest(rec), nil
}

// Mutate runs the read-check-write under a row lock so concurrent
// status-changing calls on the same request serialize.
func (r *requestRepository) Mutate(ctx context.Context, requestID string, apply func(*domain.ServiceRequest) error) (domain.ServiceRequest, error) {
	var result domain.ServiceRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec requestModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("request_id = ?", requestID).
			Take(&rec).Error; err != nil {
			return translateNotFound(err)
		}
		row := toDomainRequest(rec)
		if err := apply(&row); err != nil {
			return err
		}
		updated := toRequestModel(row)
		if err := tx.Where("request_id = ?", requestID).Save(&updated).Error; err != nil {
			return err
		}
		result = row
		return nil
	})
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	return result, nil
}

func (r *requestRepository) Delete(ctx context.Context, requestID string) error {
	res := r.db.WithContext(ctx).Where("request_id = ?", requestID).Delete(&requestModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *requestRepository) ListByRequester(ctx context.Context, requesterID string) ([]domain.ServiceRequest, error) {
	return r.list(ctx, r.db.Where("requester_id = ?", requesterID))
}

func (r *requestRepository) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.ServiceRequest, error) {
	return r.list(ctx, r.db.Where("volunteer_id = ?", volunteerID))
}

func (r *requestRepository) ListNearby(ctx context.Context, city string, status domain.RequestStatus) ([]domain.ServiceRequest, error) {
	return r.list(ctx, r.db.Where("LOWER(city) = LOWER(?) AND status = ?", city, string(status)))
}

// ListForOrganization is an indexed union of the open pool and the
// organization's own requests; no full-table scan in application code.
func (r *requestRepository) ListForOrganization(ctx context.Context, organizationID string) ([]domain.ServiceRequest, error) {
	return r.list(ctx, r.db.Where("status = ? OR organization_id = ?", string(domain.RequestStatusPending), organizationID))
}

func (r *requestRepository) list(ctx context.Context, query *gorm.DB) ([]domain.ServiceRequest, error) {
	var rows []requestModel
	if err := query.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.ServiceRequest, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toDomainRequest(rec))
	}
	return out, nil
}
