package models

import (
	"time"

	"gorm.io/datatypes"
)

// Evaluation stores the outcome of one automated grading pass over a
// submission. AutoGrade is nil when the pass failed; AutoComments then carries
// the failure detail shown to the professor.
type Evaluation struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	SubmissionID    uint           `gorm:"not null;index" json:"submission_id"`
	AutoGrade       *string        `gorm:"size:2" json:"auto_grade"`
	AutoComments    string         `gorm:"type:text" json:"auto_comments"`
	IsAutoEvaluated bool           `gorm:"not null;default:true" json:"is_auto_evaluated"`
	EvaluatedAt     time.Time      `gorm:"not null" json:"evaluated_at"`
	Detail          datatypes.JSON `json:"detail,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	Submission      Submission     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsGraded reports whether the evaluation produced a usable grade.
func (e Evaluation) IsGraded() bool {
	return e.AutoGrade != nil && *e.AutoGrade != ""
}
