package domain

import (
	"time"

	"github.com/google/uuid"
)

// SavedJob is a job a candidate bookmarked for later.
type SavedJob struct {
	ID        int64     `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	JobID     int64     `db:"job_id" json:"job_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type SavedJobListItem struct {
	SavedJob
	Title    string  `db:"title" json:"title"`
	Company  string  `db:"company" json:"company"`
	Location *string `db:"location" json:"location,omitempty"`
	EmpType  *string `db:"emp_type" json:"emp_type,omitempty"`
}
