package postgres

import (
	"context"
	"time"

	"github.com/helpbridge/helpbridge/internal/domain"
	"github.com/helpbridge/helpbridge/internal/ports"
	"gorm.io/gorm"
)

type identityRepository struct {
	db *gorm.DB
}

func (r *identityRepository) Create(ctx context.Context, row domain.Identity) error {
	rec := identityModel{
		UserID:         row.UserID,
		Role:           string(row.Role),
		FullName:       row.FullName,
		Email:          row.Email,
		Phone:          row.Phone,
		City:           row.City,
		Status:         string(row.Status),
		IDProofPath:    row.IDProofPath,
		Availability:   row.Availability,
		RegistrationNo: row.RegistrationNo,
		PasswordHash:   row.PasswordHash,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *identityRepository) GetByID(ctx context.Context, userID string) (domain.Identity, error) {
	var rec identityModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error; err != nil {
		return domain.Identity{}, translateNotFound(err)
	}
	return toDomainIdentity(rec), nil
}

func (r *identityRepository) GetByEmail(ctx context.Context, email string) (domain.Identity, error) {
	var rec identityModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&rec).Error; err != nil {
		return domain.Identity{}, translateNotFound(err)
	}
	return toDomainIdentity(rec), nil
}

func (r *identityRepository) ListVolunteersByCity(ctx context.Context, city string) ([]domain.Identity, error) {
	return r.list(ctx, r.db.
		Where("role = ? AND LOWER(city) = LOWER(?)", string(domain.RoleVolunteer), city).
		Where("status = ?", string(domain.IdentityStatusApproved)))
}

func (r *identityRepository) ListByRole(ctx context.Context, role domain.Role, city string) ([]domain.Identity, error) {
	query := r.db.Where("role = ?", string(role))
	if city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}
	return r.list(ctx, query)
}

func (r *identityRepository) UpdateStatus(ctx context.Context, userID string, status domain.IdentityStatus, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&identityModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *identityRepository) CountByRole(ctx context.Context, role domain.Role) (ports.RoleCount, error) {
	var counts ports.RoleCount
	base := r.db.WithContext(ctx).Model(&identityModel{}).Where("role = ?", string(role))
	if err := base.Session(&gorm.Session{}).Count(&counts.Total).Error; err != nil {
		return ports.RoleCount{}, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", string(domain.IdentityStatusApproved)).
		Count(&counts.Approved).Error; err != nil {
		return ports.RoleCount{}, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", string(domain.IdentityStatusPending)).
		Count(&counts.Pending).Error; err != nil {
		return ports.RoleCount{}, err
	}
	return counts, nil
}

func (r *identityRepository) list(ctx context.Context, query *gorm.DB) ([]domain.Identity, error) {
	var rows []identityModel
	if err := query.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Identity, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toDomainIdentity(rec))
	}
	return out, nil
}
