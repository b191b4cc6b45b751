package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hireradar/hireradar-api/internal/domain"
	"github.com/hireradar/hireradar-api/internal/repository/ports"
)

var (
	ErrJobNotFound      = errors.New("job not found")
	ErrNotJobOwner      = errors.New("only the employer who posted the job can change it")
	ErrEmployerOnly     = errors.New("only employers can post jobs")
	ErrInvalidReference = errors.New("unknown category or skill")
)

type JobQuery struct {
	Search    string
	Location  string
	Skill     string
	SalaryMin *int64
	Page      int
	Limit     int
}

type JobPage struct {
	Items []domain.Job
	Total int64
	Page  int
	Limit int
}

type JobService struct {
	jobs ports.JobRepository
	tx   ports.Transactor
}

func NewJobService(jobs ports.JobRepository, tx ports.Transactor) *JobService {
	return &JobService{jobs: jobs, tx: tx}
}

func (s *JobService) Search(ctx context.Context, q JobQuery) (*JobPage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit, _ := normalizePagination(q.Limit, 0)

	result, err := s.jobs.Search(ctx, domain.JobFilter{
		Search:    q.Search,
		Location:  q.Location,
		Skill:     q.Skill,
		SalaryMin: q.SalaryMin,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}
	return &JobPage{Items: result.Items, Total: result.Total, Page: page, Limit: limit}, nil
}

func (s *JobService) Get(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

func (s *JobService) Create(ctx context.Context, employer *domain.User, input domain.JobInput) (*domain.Job, error) {
	if employer == nil || employer.Role != domain.RoleEmployer {
		return nil, ErrEmployerOnly
	}

	var created *domain.Job
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos ports.TxRepositories) error {
		job, err := repos.Jobs.Create(ctx, employer.ID, input)
		if err != nil {
			return err
		}
		if err := repos.Jobs.ReplaceSkills(ctx, job.ID, input.SkillIDs); err != nil {
			return err
		}
		job.SkillIDs = skillIDsOrEmpty(input.SkillIDs)
		created = job
		return nil
	})
	if err != nil {
		return nil, mapJobWriteErr(err)
	}
	return created, nil
}

func (s *JobService) Update(ctx context.Context, userID uuid.UUID, id int64, input domain.JobInput) (*domain.Job, error) {
	var updated *domain.Job
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos ports.TxRepositories) error {
		existing, err := repos.Jobs.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing.EmployerID != userID {
			return ErrNotJobOwner
		}
		job, err := repos.Jobs.Update(ctx, id, input)
		if err != nil {
			return err
		}
		if err := repos.Jobs.ReplaceSkills(ctx, id, input.SkillIDs); err != nil {
			return err
		}
		job.SkillIDs = skillIDsOrEmpty(input.SkillIDs)
		updated = job
		return nil
	})
	if err != nil {
		return nil, mapJobWriteErr(err)
	}
	return updated, nil
}

func (s *JobService) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos ports.TxRepositories) error {
		existing, err := repos.Jobs.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing.EmployerID != userID {
			return ErrNotJobOwner
		}
		return repos.Jobs.Delete(ctx, id)
	})
	if err != nil {
		return mapJobWriteErr(err)
	}
	return nil
}

func mapJobWriteErr(err error) error {
	switch {
	case isNotFound(err):
		return ErrJobNotFound
	case isForeignKeyViolation(err):
		return ErrInvalidReference
	case errors.Is(err, ErrNotJobOwner):
		return err
	default:
		return fmt.Errorf("write job: %w", err)
	}
}

func skillIDsOrEmpty(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return append([]int64(nil), ids...)
}
