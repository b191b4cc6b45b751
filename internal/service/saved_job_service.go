package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hireradar/hireradar-api/internal/domain"
	"github.com/hireradar/hireradar-api/internal/repository/ports"
)

var ErrSavedJobNotFound = errors.New("saved job not found")

type SavedJobService struct {
	saved ports.SavedJobRepository
	jobs  ports.JobRepository
}

type SavedJobListResult struct {
	Items  []domain.SavedJobListItem
	Total  int64
	Limit  int
	Offset int
}

func NewSavedJobService(savedRepo ports.SavedJobRepository, jobRepo ports.JobRepository) *SavedJobService {
	return &SavedJobService{
		saved: savedRepo,
		jobs:  jobRepo,
	}
}

// Save bookmarks a job. Saving an already saved job returns the existing entry.
func (s *SavedJobService) Save(ctx context.Context, userID uuid.UUID, jobID int64) (*domain.SavedJob, error) {
	if _, err := s.jobs.FindByID(ctx, jobID); err != nil {
		if isNotFound(err) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	saved, err := s.saved.Add(ctx, userID, jobID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return saved, nil
}

func (s *SavedJobService) Remove(ctx context.Context, userID uuid.UUID, jobID int64) error {
	if err := s.saved.Remove(ctx, userID, jobID); err != nil {
		if isNotFound(err) {
			return ErrSavedJobNotFound
		}
		return err
	}
	return nil
}

func (s *SavedJobService) List(ctx context.Context, userID uuid.UUID, limit, offset int) (*SavedJobListResult, error) {
	nLimit, nOffset := normalizePagination(limit, offset)

	items, err := s.saved.ListByUser(ctx, userID, nLimit, nOffset)
	if err != nil {
		return nil, err
	}

	total, err := s.saved.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &SavedJobListResult{
		Items:  items,
		Total:  total,
		Limit:  nLimit,
		Offset: nOffset,
	}, nil
}
