package dto

import (
	"time"

	"github.com/gradeflow/gradeflow-api/internal/models"
)

// ProfessorFileUploadRequest describes the multipart payload for rubric and
// model-answer uploads.
type ProfessorFileUploadRequest struct {
	Kind string `form:"kind" validate:"required,oneof=rubric model_answer"`
}

// ProfessorFileFilter describes query string filters for listing professor files.
type ProfessorFileFilter struct {
	Kind *string `query:"kind" validate:"omitempty,oneof=rubric model_answer"`
}

// ProfessorFileResponse is returned to API clients when viewing professor files.
type ProfessorFileResponse struct {
	ID               uint      `json:"id"`
	ProfessorID      uint      `json:"professor_id"`
	Kind             string    `json:"kind"`
	OriginalFilename string    `json:"original_filename"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// NewProfessorFileResponse maps a model to its API representation.
func NewProfessorFileResponse(file models.ProfessorFile) ProfessorFileResponse {
	return ProfessorFileResponse{
		ID:               file.ID,
		ProfessorID:      file.ProfessorID,
		Kind:             file.Kind,
		OriginalFilename: file.OriginalFilename,
		UploadedAt:       file.UploadedAt,
	}
}

// NewProfessorFileResponseSlice maps a slice of models.
func NewProfessorFileResponseSlice(files []models.ProfessorFile) []ProfessorFileResponse {
	responses := make([]ProfessorFileResponse, 0, len(files))
	for _, file := range files {
		responses = append(responses, NewProfessorFileResponse(file))
	}

	return responses
}
