package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hireradar/hireradar-api/internal/domain"
	"github.com/hireradar/hireradar-api/internal/repository/ports"
)

const jobSelect = `
        SELECT j.id, j.title, j.company, j.location, j.emp_type, j.salary_range, j.salary_min,
               j.description, j.employer_id, j.category_id, j.created_at, j.updated_at,
               COALESCE((SELECT array_agg(js.skill_id ORDER BY js.skill_id)
                         FROM job_skill js WHERE js.job_id = j.id), '{}') AS skill_ids
        FROM job j`

const jobReturning = `id, title, company, location, emp_type, salary_range, salary_min, description, employer_id, category_id, created_at, updated_at`

type jobRow struct {
	domain.Job
	SkillIDs pq.Int64Array `db:"skill_ids"`
}

func (r jobRow) toDomain() domain.Job {
	job := r.Job
	job.SkillIDs = []int64(r.SkillIDs)
	if job.SkillIDs == nil {
		job.SkillIDs = []int64{}
	}
	return job
}

type JobRepository struct {
	db DBTX
}

func NewJobRepo(db DBTX) *JobRepository {
	return &JobRepository{db: db}
}

func buildJobFilter(filter domain.JobFilter) (string, []any) {
	clauses := make([]string, 0, 4)
	args := make([]any, 0, 6)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if s := strings.TrimSpace(filter.Search); s != "" {
		p := next("%" + s + "%")
		clauses = append(clauses, fmt.Sprintf("(j.title ILIKE %s OR j.company ILIKE %s OR j.description ILIKE %s)", p, p, p))
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		clauses = append(clauses, "j.location ILIKE "+next("%"+loc+"%"))
	}
	if filter.SalaryMin != nil {
		clauses = append(clauses, "j.salary_min >= "+next(*filter.SalaryMin))
	}
	if skill := strings.TrimSpace(filter.Skill); skill != "" {
		clauses = append(clauses, `EXISTS (
            SELECT 1 FROM job_skill js JOIN skill s ON s.id = js.skill_id
            WHERE js.job_id = j.id AND LOWER(s.name) = LOWER(`+next(skill)+`))`)
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *JobRepository) Search(ctx context.Context, filter domain.JobFilter) (*domain.JobListResult, error) {
	where, args := buildJobFilter(filter)

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM job j"+where, args...); err != nil {
		return nil, err
	}

	query := jobSelect + where + fmt.Sprintf(" ORDER BY j.created_at DESC, j.id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows := make([]jobRow, 0)
	if err := r.db.SelectContext(ctx, &rows, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, err
	}

	items := make([]domain.Job, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return &domain.JobListResult{Items: items, Total: total}, nil
}

func (r *JobRepository) FindByID(ctx context.Context, id int64) (*domain.Job, error) {
	var row jobRow
	if err := r.db.GetContext(ctx, &row, jobSelect+" WHERE j.id = $1", id); err != nil {
		return nil, err
	}
	job := row.toDomain()
	return &job, nil
}

func (r *JobRepository) Create(ctx context.Context, employerID uuid.UUID, input domain.JobInput) (*domain.Job, error) {
	const query = `
        INSERT INTO job (title, company, location, emp_type, salary_range, salary_min, description, employer_id, category_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING ` + jobReturning

	var job domain.Job
	err := r.db.QueryRowxContext(ctx, query,
		input.Title, input.Company, input.Location, input.EmpType, input.SalaryRange,
		input.SalaryMin, input.Description, employerID, input.CategoryID,
	).StructScan(&job)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) Update(ctx context.Context, id int64, input domain.JobInput) (*domain.Job, error) {
	const query = `
        UPDATE job
        SET title = $2,
            company = $3,
            location = $4,
            emp_type = $5,
            salary_range = $6,
            salary_min = $7,
            description = $8,
            category_id = $9,
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + jobReturning

	var job domain.Job
	err := r.db.QueryRowxContext(ctx, query,
		id, input.Title, input.Company, input.Location, input.EmpType, input.SalaryRange,
		input.SalaryMin, input.Description, input.CategoryID,
	).StructScan(&job)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) ReplaceSkills(ctx context.Context, jobID int64, skillIDs []int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM job_skill WHERE job_id = $1`, jobID); err != nil {
		return err
	}
	if len(skillIDs) == 0 {
		return nil
	}
	const insert = `
        INSERT INTO job_skill (job_id, skill_id)
        SELECT $1, UNNEST($2::bigint[])
        ON CONFLICT DO NOTHING
    `
	_, err := r.db.ExecContext(ctx, insert, jobID, pq.Array(skillIDs))
	return err
}

func (r *JobRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM job WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(result)
}

var _ ports.JobRepository = (*JobRepository)(nil)
