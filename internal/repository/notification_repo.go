package repository

import (
	"context"

	"bookswap-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationListFilter struct {
	Role       *models.Role
	UserID     *uuid.UUID
	UnreadOnly bool
	Limit      int
	Offset     int
}

type NotificationRepo interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, f NotificationListFilter) ([]models.Notification, int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, role models.Role, userID *uuid.UUID) (int64, error)
}

type notificationRepo struct{ db *gorm.DB }

func NewNotificationRepo(db *gorm.DB) NotificationRepo { return &notificationRepo{db: db} }

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) List(ctx context.Context, f NotificationListFilter) ([]models.Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Notification{})

	if f.Role != nil {
		q = q.Where("recipient_role = ?", *f.Role)
	}
	if f.UserID != nil {
		q = q.Where("recipient_id IS NULL OR recipient_id = ?", *f.UserID)
	}
	if f.UnreadOnly {
		q = q.Where("read = false")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []models.Notification
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&list).Error
	return list, total, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND read = false", id).
		Update("read", true)
	return tx.RowsAffected > 0, tx.Error
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, role models.Role, userID *uuid.UUID) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient_role = ? AND read = false", role)
	if userID != nil {
		q = q.Where("recipient_id IS NULL OR recipient_id = ?", *userID)
	}
	tx := q.Update("read", true)
	return tx.RowsAffected, tx.Error
}
