package domain

type PlatformStats struct {
	TotalUsers        int64 `db:"total_users" json:"total_users"`
	TotalJobs         int64 `db:"total_jobs" json:"total_jobs"`
	TotalApplications int64 `db:"total_applications" json:"total_applications"`
}
