package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/hireradar/hireradar-api/internal/domain"
)

type JobRepository interface {
	Search(ctx context.Context, filter domain.JobFilter) (*domain.JobListResult, error)
	FindByID(ctx context.Context, id int64) (*domain.Job, error)
	Create(ctx context.Context, employerID uuid.UUID, input domain.JobInput) (*domain.Job, error)
	Update(ctx context.Context, id int64, input domain.JobInput) (*domain.Job, error)
	ReplaceSkills(ctx context.Context, jobID int64, skillIDs []int64) error
	Delete(ctx context.Context, id int64) error
}
