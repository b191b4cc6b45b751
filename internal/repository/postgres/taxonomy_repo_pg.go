package postgres

import (
	"context"

	"github.com/hireradar/hireradar-api/internal/domain"
	"github.com/hireradar/hireradar-api/internal/repository/ports"
)

// namedTable backs the small id/name lookup tables (skill, category).
type namedTable struct {
	db    DBTX
	table string
}

type namedRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

func (t namedTable) list(ctx context.Context) ([]namedRow, error) {
	rows := make([]namedRow, 0)
	if err := t.db.SelectContext(ctx, &rows, `SELECT id, name FROM `+t.table+` ORDER BY name, id`); err != nil {
		return nil, err
	}
	return rows, nil
}

func (t namedTable) create(ctx context.Context, name string) (namedRow, error) {
	var row namedRow
	err := t.db.GetContext(ctx, &row, `INSERT INTO `+t.table+` (name) VALUES ($1) RETURNING id, name`, name)
	return row, err
}

func (t namedTable) rename(ctx context.Context, id int64, name string) (namedRow, error) {
	var row namedRow
	err := t.db.GetContext(ctx, &row, `UPDATE `+t.table+` SET name = $2 WHERE id = $1 RETURNING id, name`, id, name)
	return row, err
}

func (t namedTable) delete(ctx context.Context, id int64) error {
	result, err := t.db.ExecContext(ctx, `DELETE FROM `+t.table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(result)
}

type SkillRepository struct {
	t namedTable
}

func NewSkillRepo(db DBTX) *SkillRepository {
	return &SkillRepository{t: namedTable{db: db, table: "skill"}}
}

func (r *SkillRepository) List(ctx context.Context) ([]domain.Skill, error) {
	rows, err := r.t.list(ctx)
	if err != nil {
		return nil, err
	}
	skills := make([]domain.Skill, 0, len(rows))
	for _, row := range rows {
		skills = append(skills, domain.Skill(row))
	}
	return skills, nil
}

func (r *SkillRepository) Create(ctx context.Context, name string) (*domain.Skill, error) {
	row, err := r.t.create(ctx, name)
	if err != nil {
		return nil, err
	}
	skill := domain.Skill(row)
	return &skill, nil
}

func (r *SkillRepository) Rename(ctx context.Context, id int64, name string) (*domain.Skill, error) {
	row, err := r.t.rename(ctx, id, name)
	if err != nil {
		return nil, err
	}
	skill := domain.Skill(row)
	return &skill, nil
}

func (r *SkillRepository) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}

type CategoryRepository struct {
	t namedTable
}

func NewCategoryRepo(db DBTX) *CategoryRepository {
	return &CategoryRepository{t: namedTable{db: db, table: "category"}}
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.t.list(ctx)
	if err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, domain.Category(row))
	}
	return categories, nil
}

func (r *CategoryRepository) Create(ctx context.Context, name string) (*domain.Category, error) {
	row, err := r.t.create(ctx, name)
	if err != nil {
		return nil, err
	}
	category := domain.Category(row)
	return &category, nil
}

func (r *CategoryRepository) Rename(ctx context.Context, id int64, name string) (*domain.Category, error) {
	row, err := r.t.rename(ctx, id, name)
	if err != nil {
		return nil, err
	}
	category := domain.Category(row)
	return &category, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}

var (
	_ ports.SkillRepository    = (*SkillRepository)(nil)
	_ ports.CategoryRepository = (*CategoryRepository)(nil)
)
