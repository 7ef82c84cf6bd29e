package models

import "time"

// Professor represents a staff member that reviews and grades submissions.
type Professor struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AdminID      string    `gorm:"size:32;uniqueIndex;not null" json:"admin_id"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
