package dto

import (
	"time"

	"github.com/gradeflow/gradeflow-api/internal/models"
)

// Failure kinds carried on evaluation outcomes. Empty means success.
const (
	EvaluationFailureExtract = "extract"
	EvaluationFailureInvoke  = "invoke"
	EvaluationFailureParse   = "parse"
)

// EvaluationRequest asks for one automated grading pass.
type EvaluationRequest struct {
	SubmissionID      uint  `json:"submission_id" validate:"required,gt=0"`
	RubricFileID      uint  `json:"rubric_file_id" validate:"required,gt=0"`
	ModelAnswerFileID *uint `json:"model_answer_file_id" validate:"omitempty,gt=0"`
}

// EvaluationOutcome is the uniform result of an evaluation attempt. Grade is
// nil when the attempt failed; Comments then holds the display detail and
// FailureKind the stage that failed, so callers are not forced to
// string-match the comments.
type EvaluationOutcome struct {
	Grade       *string   `json:"grade"`
	Comments    string    `json:"comments"`
	FailureKind string    `json:"failure_kind,omitempty"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// EvaluationResponse serializes a persisted evaluation row.
type EvaluationResponse struct {
	ID              uint      `json:"id"`
	SubmissionID    uint      `json:"submission_id"`
	AutoGrade       *string   `json:"auto_grade"`
	AutoComments    string    `json:"auto_comments"`
	IsAutoEvaluated bool      `json:"is_auto_evaluated"`
	EvaluatedAt     time.Time `json:"evaluated_at"`
}

// NewEvaluationResponse maps a model to its API representation.
func NewEvaluationResponse(evaluation models.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:              evaluation.ID,
		SubmissionID:    evaluation.SubmissionID,
		AutoGrade:       evaluation.AutoGrade,
		AutoComments:    evaluation.AutoComments,
		IsAutoEvaluated: evaluation.IsAutoEvaluated,
		EvaluatedAt:     evaluation.EvaluatedAt,
	}
}

// NewEvaluationResponseSlice maps a slice of models.
func NewEvaluationResponseSlice(evaluations []models.Evaluation) []EvaluationResponse {
	responses := make([]EvaluationResponse, 0, len(evaluations))
	for _, evaluation := range evaluations {
		responses = append(responses, NewEvaluationResponse(evaluation))
	}

	return responses
}
