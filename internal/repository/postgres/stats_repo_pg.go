package postgres

import (
	"context"

	"github.com/hireradar/hireradar-api/internal/domain"
	"github.com/hireradar/hireradar-api/internal/repository/ports"
)

type StatsRepository struct {
	db DBTX
}

func NewStatsRepo(db DBTX) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) PlatformStats(ctx context.Context) (*domain.PlatformStats, error) {
	const query = `
        SELECT
            (SELECT COUNT(*) FROM user_account WHERE role <> 'admin') AS total_users,
            (SELECT COUNT(*) FROM job) AS total_jobs,
            (SELECT COUNT(*) FROM job_application) AS total_applications
    `
	var stats domain.PlatformStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, err
	}
	return &stats, nil
}

var _ ports.StatsRepository = (*StatsRepository)(nil)
