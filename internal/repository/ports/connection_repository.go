package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/hireradar/hireradar-api/internal/domain"
)

type ConnectionRepository interface {
	Create(ctx context.Context, senderID, receiverID uuid.UUID) (*domain.ConnectionRequest, error)
	FindByID(ctx context.Context, id int64) (*domain.ConnectionRequest, error)
	// FindOpenBetween returns the pending or accepted request linking the two
	// users in either direction.
	FindOpenBetween(ctx context.Context, a, b uuid.UUID) (*domain.ConnectionRequest, error)
	// UpdateStatus only moves a pending request; anything else is sql.ErrNoRows.
	UpdateStatus(ctx context.Context, id int64, status domain.ConnectionStatus) (*domain.ConnectionRequest, error)
	ListPendingForReceiver(ctx context.Context, receiverID uuid.UUID) ([]domain.ConnectionView, error)
	ListAccepted(ctx context.Context, userID uuid.UUID) ([]domain.ConnectionView, error)
	Delete(ctx context.Context, id int64) error
}
