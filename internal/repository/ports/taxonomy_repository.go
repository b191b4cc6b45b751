package ports

import (
	"context"

	"github.com/hireradar/hireradar-api/internal/domain"
)

type SkillRepository interface {
	List(ctx context.Context) ([]domain.Skill, error)
	Create(ctx context.Context, name string) (*domain.Skill, error)
	Rename(ctx context.Context, id int64, name string) (*domain.Skill, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, name string) (*domain.Category, error)
	Rename(ctx context.Context, id int64, name string) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}
