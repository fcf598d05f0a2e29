package repository

import (
	"context"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return errors.Wrap(r.DB.WithContext(ctx).Create(n).Error, "create notification")
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID uint, limit int) ([]model.Notification, error) {
	query := r.DB.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var list []model.Notification
	err := query.Find(&list).Error
	return list, errors.Wrap(err, "list notifications")
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID uint) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "mark notification read")
	}
	return res.RowsAffected > 0, nil
}
