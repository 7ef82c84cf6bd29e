package dto

import "time"

// DashboardResponse aggregates submission activity for professors.
type DashboardResponse struct {
	TotalSubmissions int64                    `json:"total_submissions"`
	DistinctStudents int64                    `json:"distinct_students"`
	LatestSubmission *time.Time               `json:"latest_submission"`
	PerStudentCounts []StudentSubmissionCount `json:"per_student_counts"`
	GeneratedAt      time.Time                `json:"generated_at"`
	CacheHit         bool                     `json:"cache_hit"`
}

// StudentSubmissionCount summarizes one student's submission activity.
type StudentSubmissionCount struct {
	StudentID   uint   `json:"student_id"`
	StudentNo   string `json:"student_no"`
	Name        string `json:"name"`
	Submissions int64  `json:"submissions"`
}
