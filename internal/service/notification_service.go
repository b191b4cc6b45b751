package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hireradar/hireradar-api/internal/domain"
	"github.com/hireradar/hireradar-api/internal/repository/ports"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationList struct {
	Items       []domain.Notification
	UnreadCount int64
	Limit       int
	Offset      int
}

type NotificationService struct {
	notifications ports.NotificationRepository
}

func NewNotificationService(notifications ports.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) (*NotificationList, error) {
	limit, offset = normalizePagination(limit, offset)
	items, err := s.notifications.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &NotificationList{Items: items, UnreadCount: unread, Limit: limit, Offset: offset}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID uuid.UUID, id int64) error {
	if err := s.notifications.MarkRead(ctx, id, userID); err != nil {
		if isNotFound(err) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}
