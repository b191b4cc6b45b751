package domain

import (
	"time"

	"github.com/google/uuid"
)

type Job struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Company     string    `db:"company" json:"company"`
	Location    *string   `db:"location" json:"location,omitempty"`
	EmpType     *string   `db:"emp_type" json:"emp_type,omitempty"`
	SalaryRange *string   `db:"salary_range" json:"salary_range,omitempty"`
	SalaryMin   *int64    `db:"salary_min" json:"salary_min,omitempty"`
	Description *string   `db:"description" json:"description,omitempty"`
	EmployerID  uuid.UUID `db:"employer_id" json:"employer_id"`
	CategoryID  *int64    `db:"category_id" json:"category_id,omitempty"`
	SkillIDs    []int64   `db:"-" json:"skill_ids"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type JobInput struct {
	Title       string
	Company     string
	Location    *string
	EmpType     *string
	SalaryRange *string
	SalaryMin   *int64
	Description *string
	CategoryID  *int64
	SkillIDs    []int64
}

type JobFilter struct {
	Search    string
	Location  string
	Skill     string
	SalaryMin *int64
	Limit     int
	Offset    int
}

type JobListResult struct {
	Items []Job
	Total int64
}
