package postgres

import (
	"context"

	"github.com/helpbridge/helpbridge/internal/domain"
	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

func (r *notificationRepository) Create(ctx context.Context, row domain.Notification) error {
	rec := notificationModel{
		NotificationID: row.NotificationID,
		UserID:         row.UserID,
		Message:        row.Message,
		CreatedAt:      row.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	var rows []notificationModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Notification, 0, len(rows))
	for _, rec := range rows {
		out = append(out, domain.Notification{
			NotificationID: rec.NotificationID,
			UserID:         rec.UserID,
			Message:        rec.Message,
			CreatedAt:      rec.CreatedAt,
		})
	}
	return out, nil
}
