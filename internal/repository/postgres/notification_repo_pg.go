package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/hireradar/hireradar-api/internal/domain"
	"github.com/hireradar/hireradar-api/internal/repository/ports"
)

type NotificationRepository struct {
	db DBTX
}

func NewNotificationRepo(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, userID uuid.UUID, kind domain.NotificationType, message string) (*domain.Notification, error) {
	const query = `
        INSERT INTO notification (user_id, type, message)
        VALUES ($1, $2, $3)
        RETURNING id, user_id, type, message, is_read, created_at
    `
	var n domain.Notification
	if err := r.db.QueryRowxContext(ctx, query, userID, kind, message).StructScan(&n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Notification, error) {
	const query = `
        SELECT id, user_id, type, message, is_read, created_at
        FROM notification
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3
    `
	items := make([]domain.Notification, 0)
	if err := r.db.SelectContext(ctx, &items, query, userID, limit, offset); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notification WHERE user_id = $1 AND is_read = FALSE`, userID)
	return count, err
}

// MarkRead only touches notifications owned by userID; anything else reads as
// not found.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64, userID uuid.UUID) error {
	const query = `
        UPDATE notification
        SET is_read = TRUE
        WHERE id = $1 AND user_id = $2
    `
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(result)
}

var _ ports.NotificationRepository = (*NotificationRepository)(nil)
