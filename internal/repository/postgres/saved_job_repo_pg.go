package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/hireradar/hireradar-api/internal/domain"
	"github.com/hireradar/hireradar-api/internal/repository/ports"
)

type SavedJobRepository struct {
	db DBTX
}

func NewSavedJobRepo(db DBTX) *SavedJobRepository {
	return &SavedJobRepository{db: db}
}

// Add is idempotent: saving a job twice returns the existing row.
func (r *SavedJobRepository) Add(ctx context.Context, userID uuid.UUID, jobID int64) (*domain.SavedJob, error) {
	const query = `
		INSERT INTO saved_job (user_id, job_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, job_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, job_id, created_at
	`
	var saved domain.SavedJob
	if err := r.db.GetContext(ctx, &saved, query, userID, jobID); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *SavedJobRepository) Remove(ctx context.Context, userID uuid.UUID, jobID int64) error {
	const query = `
		DELETE FROM saved_job
		WHERE user_id = $1 AND job_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, userID, jobID)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(result)
}

func (r *SavedJobRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.SavedJobListItem, error) {
	const query = `
		SELECT
			s.id,
			s.user_id,
			s.job_id,
			s.created_at,
			j.title,
			j.company,
			j.location,
			j.emp_type
		FROM saved_job s
		JOIN job j ON j.id = s.job_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryxContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.SavedJobListItem, 0)
	for rows.Next() {
		var item domain.SavedJobListItem
		if err := rows.StructScan(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *SavedJobRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM saved_job
		WHERE user_id = $1
	`
	var count int64
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, err
	}
	return count, nil
}

var _ ports.SavedJobRepository = (*SavedJobRepository)(nil)
