package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gradeflow/gradeflow-api/internal/models"
)

// ProfessorRepository defines data operations for professors.
type ProfessorRepository interface {
	GetByID(ctx context.Context, id uint) (models.Professor, error)
	GetByAdminID(ctx context.Context, adminID string) (models.Professor, error)
	Create(ctx context.Context, professor *models.Professor) error
}

type professorRepository struct {
	db *gorm.DB
}

// NewProfessorRepository instantiates the repository.
func NewProfessorRepository(db *gorm.DB) ProfessorRepository {
	return &professorRepository{db: db}
}

func (r *professorRepository) GetByID(ctx context.Context, id uint) (models.Professor, error) {
	var professor models.Professor
	if err := r.db.WithContext(ctx).First(&professor, id).Error; err != nil {
		return models.Professor{}, err
	}

	return professor, nil
}

func (r *professorRepository) GetByAdminID(ctx context.Context, adminID string) (models.Professor, error) {
	var professor models.Professor
	if err := r.db.WithContext(ctx).Where("admin_id = ?", adminID).First(&professor).Error; err != nil {
		return models.Professor{}, err
	}

	return professor, nil
}

func (r *professorRepository) Create(ctx context.Context, professor *models.Professor) error {
	return r.db.WithContext(ctx).Create(professor).Error
}
