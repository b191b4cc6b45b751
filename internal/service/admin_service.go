package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/hireradar/hireradar-api/internal/domain"
	"github.com/hireradar/hireradar-api/internal/repository/ports"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSkillNotFound    = errors.New("skill not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrNameRequired     = errors.New("missing field: name")
	ErrNameTaken        = errors.New("name already exists")
	ErrSelfDelete       = errors.New("administrators cannot delete their own account")
)

type AdminService struct {
	users      ports.UserRepository
	jobs       ports.JobRepository
	skills     ports.SkillRepository
	categories ports.CategoryRepository
	stats      ports.StatsRepository
}

func NewAdminService(users ports.UserRepository, jobs ports.JobRepository, skills ports.SkillRepository, categories ports.CategoryRepository, stats ports.StatsRepository) *AdminService {
	return &AdminService{users: users, jobs: jobs, skills: skills, categories: categories, stats: stats}
}

func (s *AdminService) Stats(ctx context.Context) (*domain.PlatformStats, error) {
	return s.stats.PlatformStats(ctx)
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	limit, offset = normalizePagination(limit, offset)
	return s.users.List(ctx, limit, offset)
}

func (s *AdminService) DeleteUser(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return ErrSelfDelete
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *AdminService) ListJobs(ctx context.Context, limit, offset int) (*domain.JobListResult, error) {
	limit, offset = normalizePagination(limit, offset)
	return s.jobs.Search(ctx, domain.JobFilter{Limit: limit, Offset: offset})
}

func (s *AdminService) DeleteJob(ctx context.Context, id int64) error {
	if err := s.jobs.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrJobNotFound
		}
		return err
	}
	return nil
}

func (s *AdminService) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	return s.skills.List(ctx)
}

func (s *AdminService) CreateSkill(ctx context.Context, name string) (*domain.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	skill, err := s.skills.Create(ctx, name)
	if err != nil {
		return nil, mapNamedErr(err, ErrSkillNotFound)
	}
	return skill, nil
}

func (s *AdminService) RenameSkill(ctx context.Context, id int64, name string) (*domain.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	skill, err := s.skills.Rename(ctx, id, name)
	if err != nil {
		return nil, mapNamedErr(err, ErrSkillNotFound)
	}
	return skill, nil
}

func (s *AdminService) DeleteSkill(ctx context.Context, id int64) error {
	return mapNamedErr(s.skills.Delete(ctx, id), ErrSkillNotFound)
}

func (s *AdminService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *AdminService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	category, err := s.categories.Create(ctx, name)
	if err != nil {
		return nil, mapNamedErr(err, ErrCategoryNotFound)
	}
	return category, nil
}

func (s *AdminService) RenameCategory(ctx context.Context, id int64, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	category, err := s.categories.Rename(ctx, id, name)
	if err != nil {
		return nil, mapNamedErr(err, ErrCategoryNotFound)
	}
	return category, nil
}

func (s *AdminService) DeleteCategory(ctx context.Context, id int64) error {
	return mapNamedErr(s.categories.Delete(ctx, id), ErrCategoryNotFound)
}

func mapNamedErr(err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case isNotFound(err):
		return notFound
	case isUniqueViolation(err):
		return ErrNameTaken
	default:
		return err
	}
}
