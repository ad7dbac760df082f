package repository

import (
	"context"
	"projectk_backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return storeErr("create notification", r.DB.WithContext(ctx).Create(n).Error)
}

func (r *NotificationRepository) CreateBatch(ctx context.Context, ns []model.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return storeErr("create notifications", r.DB.WithContext(ctx).Create(&ns).Error)
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]model.Notification, error) {
	tx := r.DB.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		tx = tx.Where("is_read = ?", false)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var ns []model.Notification
	if err := tx.Order("created_at DESC").Find(&ns).Error; err != nil {
		return nil, storeErr("list notifications", err)
	}
	return ns, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, storeErr("count notifications", err)
}

// MarkRead 返回是否命中该用户的通知
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return false, storeErr("mark notification read", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	// 已读的通知 RowsAffected 也可能为 0
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Count(&count).Error
	return count > 0, storeErr("find notification", err)
}
