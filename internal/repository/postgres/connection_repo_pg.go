package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/hireradar/hireradar-api/internal/domain"
	"github.com/hireradar/hireradar-api/internal/repository/ports"
)

const connectionColumns = `id, sender_id, receiver_id, status, created_at, updated_at`

type ConnectionRepository struct {
	db DBTX
}

func NewConnectionRepo(db DBTX) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

func (r *ConnectionRepository) Create(ctx context.Context, senderID, receiverID uuid.UUID) (*domain.ConnectionRequest, error) {
	const query = `
        INSERT INTO connection_request (sender_id, receiver_id, status)
        VALUES ($1, $2, 'pending')
        RETURNING ` + connectionColumns

	var req domain.ConnectionRequest
	if err := r.db.QueryRowxContext(ctx, query, senderID, receiverID).StructScan(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *ConnectionRepository) FindByID(ctx context.Context, id int64) (*domain.ConnectionRequest, error) {
	const query = `SELECT ` + connectionColumns + ` FROM connection_request WHERE id = $1`
	var req domain.ConnectionRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *ConnectionRepository) FindOpenBetween(ctx context.Context, a, b uuid.UUID) (*domain.ConnectionRequest, error) {
	const query = `
        SELECT ` + connectionColumns + `
        FROM connection_request
        WHERE ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
          AND status IN ('pending', 'accepted')
        ORDER BY created_at DESC
        LIMIT 1
    `
	var req domain.ConnectionRequest
	if err := r.db.GetContext(ctx, &req, query, a, b); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *ConnectionRepository) UpdateStatus(ctx context.Context, id int64, status domain.ConnectionStatus) (*domain.ConnectionRequest, error) {
	const query = `
        UPDATE connection_request
        SET status = $2,
            updated_at = NOW()
        WHERE id = $1 AND status = 'pending'
        RETURNING ` + connectionColumns

	var req domain.ConnectionRequest
	if err := r.db.QueryRowxContext(ctx, query, id, status).StructScan(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *ConnectionRepository) ListPendingForReceiver(ctx context.Context, receiverID uuid.UUID) ([]domain.ConnectionView, error) {
	const query = `
        SELECT c.id, c.status, u.id AS user_id, u.full_name, u.email, u.role, u.image_url, u.headline, c.created_at
        FROM connection_request c
        JOIN user_account u ON u.id = c.sender_id
        WHERE c.receiver_id = $1 AND c.status = 'pending'
        ORDER BY c.created_at DESC, c.id DESC
    `
	views := make([]domain.ConnectionView, 0)
	if err := r.db.SelectContext(ctx, &views, query, receiverID); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *ConnectionRepository) ListAccepted(ctx context.Context, userID uuid.UUID) ([]domain.ConnectionView, error) {
	const query = `
        SELECT c.id, c.status, u.id AS user_id, u.full_name, u.email, u.role, u.image_url, u.headline, c.created_at
        FROM connection_request c
        JOIN user_account u
          ON u.id = CASE WHEN c.sender_id = $1 THEN c.receiver_id ELSE c.sender_id END
        WHERE (c.sender_id = $1 OR c.receiver_id = $1) AND c.status = 'accepted'
        ORDER BY c.updated_at DESC, c.id DESC
    `
	views := make([]domain.ConnectionView, 0)
	if err := r.db.SelectContext(ctx, &views, query, userID); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *ConnectionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM connection_request WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(result)
}

var _ ports.ConnectionRepository = (*ConnectionRepository)(nil)
