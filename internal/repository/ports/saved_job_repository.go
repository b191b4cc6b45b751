package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/hireradar/hireradar-api/internal/domain"
)

type SavedJobRepository interface {
	Add(ctx context.Context, userID uuid.UUID, jobID int64) (*domain.SavedJob, error)
	Remove(ctx context.Context, userID uuid.UUID, jobID int64) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.SavedJobListItem, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
