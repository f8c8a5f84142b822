package service

import (
	"context"

	"bookswap-api/internal/models"
	"bookswap-api/internal/repository"

	"github.com/google/uuid"
)

// NotificationService serves the rows the admin and customer UIs poll.
type NotificationService struct {
	repo *repository.Repository
}

func NewNotificationService(repo *repository.Repository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) List(ctx context.Context, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	uid, role, err := requireAuth(ctx)
	if err != nil {
		return nil, 0, err
	}
	f := repository.NotificationListFilter{
		Role:       &role,
		UnreadOnly: unreadOnly,
		Limit:      limit,
		Offset:     offset,
	}
	if !isStaff(role) {
		f.UserID = &uid
	}
	return s.repo.Notifications.List(ctx, f)
}

func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	if _, _, err := requireAuth(ctx); err != nil {
		return err
	}
	ok, err := s.repo.Notifications.MarkRead(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context) (int64, error) {
	uid, role, err := requireAuth(ctx)
	if err != nil {
		return 0, err
	}
	var userID *uuid.UUID
	if !isStaff(role) {
		userID = &uid
	}
	return s.repo.Notifications.MarkAllRead(ctx, role, userID)
}
