package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gradeflow/gradeflow-api/internal/models"
)

// ProfessorFileFilter allows narrowing professor-file queries.
type ProfessorFileFilter struct {
	ProfessorID *uint
	Kind        *string
}

// ProfessorFileRepository defines data operations for rubric and model-answer files.
type ProfessorFileRepository interface {
	List(ctx context.Context, filter ProfessorFileFilter) ([]models.ProfessorFile, error)
	GetByID(ctx context.Context, id uint) (models.ProfessorFile, error)
	Create(ctx context.Context, file *models.ProfessorFile) error
	Delete(ctx context.Context, id uint) error
}

type professorFileRepository struct {
	db *gorm.DB
}

// NewProfessorFileRepository instantiates the repository.
func NewProfessorFileRepository(db *gorm.DB) ProfessorFileRepository {
	return &professorFileRepository{db: db}
}

func (r *professorFileRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ProfessorFile{}).Preload("Professor")
}

func (r *professorFileRepository) List(ctx context.Context, filter ProfessorFileFilter) ([]models.ProfessorFile, error) {
	query := r.baseQuery(ctx)

	if filter.ProfessorID != nil {
		query = query.Where("professor_id = ?", *filter.ProfessorID)
	}

	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}

	var files []models.ProfessorFile
	if err := query.Order("uploaded_at DESC").Find(&files).Error; err != nil {
		return nil, err
	}

	return files, nil
}

func (r *professorFileRepository) GetByID(ctx context.Context, id uint) (models.ProfessorFile, error) {
	var file models.ProfessorFile
	if err := r.baseQuery(ctx).First(&file, id).Error; err != nil {
		return models.ProfessorFile{}, err
	}

	return file, nil
}

func (r *professorFileRepository) Create(ctx context.Context, file *models.ProfessorFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *professorFileRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ProfessorFile{}, id).Error
}
