package models

import "time"

// Submission represents a file submitted by a student. The record and its blob
// are created together on upload and removed together on delete; the blob key
// must resolve to a stored object for the lifetime of the record.
type Submission struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	StudentID        uint      `gorm:"not null;index" json:"student_id"`
	BlobKey          string    `gorm:"size:512;not null" json:"blob_key"`
	OriginalFilename string    `gorm:"size:255;not null" json:"original_filename"`
	SubmittedAt      time.Time `gorm:"not null" json:"submitted_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Student          Student   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}
