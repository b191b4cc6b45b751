package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/hireradar/hireradar-api/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, userID uuid.UUID, kind domain.NotificationType, message string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id int64, userID uuid.UUID) error
}
