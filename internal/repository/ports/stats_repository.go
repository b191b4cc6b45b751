package ports

import (
	"context"

	"github.com/hireradar/hireradar-api/internal/domain"
)

type StatsRepository interface {
	PlatformStats(ctx context.Context) (*domain.PlatformStats, error)
}
