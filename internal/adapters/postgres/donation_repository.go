package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/helpbridge/helpbridge/internal/domain"
	"gorm.io/gorm"
)

type donationRepository struct {
	db *gorm.DB
}

func (r *donationRepository) GetByOrderID(ctx context.Context, gatewayOrderID string) (domain.Donation, error) {
	var rec donationModel
	if err := r.db.WithContext(ctx).Where("gateway_order_id = ?", gatewayOrderID).Take(&rec).Error; err != nil {
		return domain.Donation{}, translateNotFound(err)
	}
	return toDomainDonation(rec), nil
}

// Settle writes the donation and credits the campaign in one transaction. The
// unique index on gateway_order_id is the idempotence anchor: a concurrent
// settlement of the same order hits the unique violation, and the existing
// row is returned as already settled.
func (r *donationRepository) Settle(ctx context.Context, row domain.Donation) (domain.Donation, bool, error) {
	rec := donationModel{
		DonationID:       row.DonationID,
		CampaignID:       row.CampaignID,
		DonorID:          optional(row.DonorID),
		Amount:           row.Amount,
		GatewayOrderID:   row.GatewayOrderID,
		GatewayPaymentID: row.GatewayPaymentID,
		Status:           string(row.Status),
		DonatedAt:        row.DonatedAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		res := tx.Model(&campaignModel{}).
			Where("campaign_id = ?", row.CampaignID).
			Updates(map[string]any{
				"collected_amount": gorm.Expr("collected_amount + ?", row.Amount),
				"updated_at":       time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err == nil {
		return row, false, nil
	}
	if isUniqueViolation(err) {
		existing, getErr := r.GetByOrderID(ctx, row.GatewayOrderID)
		if getErr != nil {
			return domain.Donation{}, false, getErr
		}
		return existing, true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Donation{}, false, domain.ErrNotFound
	}
	return domain.Donation{}, false, err
}

func (r *donationRepository) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Donation, error) {
	return r.list(ctx, r.db.Where("campaign_id = ?", campaignID))
}

func (r *donationRepository) ListByDonor(ctx context.Context, donorID string) ([]domain.Donation, error) {
	return r.list(ctx, r.db.Where("donor_id = ?", donorID))
}

func (r *donationRepository) list(ctx context.Context, query *gorm.DB) ([]domain.Donation, error) {
	var rows []donationModel
	if err := query.WithContext(ctx).Order("donated_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Donation, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toDomainDonation(rec))
	}
	return out, nil
}
