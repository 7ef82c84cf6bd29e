package models

import "time"

const (
	// ProfessorFileKindRubric marks a grading-criteria document.
	ProfessorFileKindRubric = "rubric"
	// ProfessorFileKindModelAnswer marks a reference answer document.
	ProfessorFileKindModelAnswer = "model_answer"
)

// ProfessorFile is a rubric or model-answer document uploaded by a professor,
// discriminated by the Kind tag. Lifecycle mirrors Submission: blob and record
// live and die together.
type ProfessorFile struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ProfessorID      uint      `gorm:"not null;index" json:"professor_id"`
	Kind             string    `gorm:"size:32;not null;index" json:"kind"`
	BlobKey          string    `gorm:"size:512;not null" json:"blob_key"`
	OriginalFilename string    `gorm:"size:255;not null" json:"original_filename"`
	UploadedAt       time.Time `gorm:"not null" json:"uploaded_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Professor        Professor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"professor"`
}

// ValidProfessorFileKind reports whether kind is one of the supported tags.
func ValidProfessorFileKind(kind string) bool {
	return kind == ProfessorFileKindRubric || kind == ProfessorFileKindModelAnswer
}
