package models

import "time"

// Student represents a learner that can submit assignment files.
type Student struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	StudentNo    string    `gorm:"size:32;uniqueIndex;not null" json:"student_no"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;not null" json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
