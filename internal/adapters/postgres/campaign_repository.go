package postgres

import (
	"context"
	"time"

	"github.com/helpbridge/helpbridge/internal/domain"
	"github.com/helpbridge/helpbridge/internal/ports"
	"gorm.io/gorm"
)

type campaignRepository struct {
	db *gorm.DB
}

func (r *campaignRepository) Create(ctx context.Context, row domain.Campaign) error {
	rec := campaignModel{
		CampaignID:      row.CampaignID,
		OrganizationID:  row.OrganizationID,
		Title:           row.Title,
		Description:     row.Description,
		Category:        row.Category,
		City:            row.City,
		Status:          string(row.Status),
		TargetAmount:    row.TargetAmount,
		CollectedAmount: row.CollectedAmount,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *campaignRepository) GetByID(ctx context.Context, campaignID string) (domain.Campaign, error) {
	var rec campaignModel
	if err := r.db.WithContext(ctx).Where("campaign_id = ?", campaignID).Take(&rec).Error; err != nil {
		return domain.Campaign{}, translateNotFound(err)
	}
	return toDomainCampaign(rec), nil
}

func (r *campaignRepository) List(ctx context.Context, filter ports.CampaignFilter) ([]domain.Campaign, error) {
	query := r.db.WithContext(ctx).Model(&campaignModel{})
	if filter.OrganizationID != "" {
		query = query.Where("organization_id = ?", filter.OrganizationID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	var rows []campaignModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Campaign, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toDomainCampaign(rec))
	}
	return out, nil
}

// AddCollected applies the delta in SQL so concurrent credits never lose an
// update.
func (r *campaignRepository) AddCollected(ctx context.Context, campaignID string, delta float64) error {
	res := r.db.WithContext(ctx).Model(&campaignModel{}).
		Where("campaign_id = ?", campaignID).
		Updates(map[string]any{
			"collected_amount": gorm.Expr("collected_amount + ?", delta),
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *campaignRepository) SetStatus(ctx context.Context, campaignID string, status domain.CampaignStatus, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&campaignModel{}).
		Where("campaign_id = ?", campaignID).
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
