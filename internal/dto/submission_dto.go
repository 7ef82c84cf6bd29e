package dto

import (
	"time"

	"github.com/gradeflow/gradeflow-api/internal/models"
)

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID               uint        `json:"id"`
	StudentID        uint        `json:"student_id"`
	OriginalFilename string      `json:"original_filename"`
	SubmittedAt      time.Time   `json:"submitted_at"`
	Student          StudentLite `json:"student"`
}

// StudentLite summarizes a student in submission responses.
type StudentLite struct {
	ID        uint   `json:"id"`
	StudentNo string `json:"student_no"`
	Name      string `json:"name"`
}

// NewSubmissionResponse maps a model to its API representation.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:               submission.ID,
		StudentID:        submission.StudentID,
		OriginalFilename: submission.OriginalFilename,
		SubmittedAt:      submission.SubmittedAt,
		Student: StudentLite{
			ID:        submission.Student.ID,
			StudentNo: submission.Student.StudentNo,
			Name:      submission.Student.Name,
		},
	}
}

// NewSubmissionResponseSlice maps a slice of models.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
