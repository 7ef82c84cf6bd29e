package database

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gradeflow/gradeflow-api/internal/models"
)

// Seed inserts the default demo accounts when the tables are empty. The shared
// demo password is hashed per-account with bcrypt.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Student{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count students: %w", err)
	}

	if count > 0 {
		return nil
	}

	students := []models.Student{
		{StudentNo: "20251111", Name: "Lee Gukmin", Email: "leegukmin@email.com"},
		{StudentNo: "20252222", Name: "Kim Daehak", Email: "kimdaehak@email.com"},
		{StudentNo: "20253333", Name: "Choi Haksaeng", Email: "choihaksaeng@email.com"},
	}

	professors := []models.Professor{
		{AdminID: "admin1", Name: "Prof. Lee"},
		{AdminID: "admin2", Name: "Prof. Kim"},
		{AdminID: "admin3", Name: "Prof. Choi"},
	}

	for i := range students {
		hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		students[i].PasswordHash = string(hash)
	}

	for i := range professors {
		hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		professors[i].PasswordHash = string(hash)
	}

	if err := db.Create(&students).Error; err != nil {
		return fmt.Errorf("failed to seed students: %w", err)
	}

	if err := db.Create(&professors).Error; err != nil {
		return fmt.Errorf("failed to seed professors: %w", err)
	}

	return nil
}
