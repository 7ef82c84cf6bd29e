package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gradeflow/gradeflow-api/internal/dto"
	"github.com/gradeflow/gradeflow-api/internal/models"
	"github.com/gradeflow/gradeflow-api/internal/observability"
	"github.com/gradeflow/gradeflow-api/internal/repository"
	"github.com/gradeflow/gradeflow-api/pkg/blob"
)

// ErrProfessorFileNotFound indicates a professor file could not be found.
var ErrProfessorFileNotFound = errors.New("professor file not found")

// ProfessorFileService manages rubric and model-answer uploads.
type ProfessorFileService interface {
	Upload(ctx context.Context, professorID uint, payload dto.ProfessorFileUploadRequest, file *multipart.FileHeader) (dto.ProfessorFileResponse, error)
	List(ctx context.Context, filter dto.ProfessorFileFilter) ([]dto.ProfessorFileResponse, error)
	Delete(ctx context.Context, id uint) error
}

type professorFileService struct {
	files      repository.ProfessorFileRepository
	professors repository.ProfessorRepository
	blobs      blob.Store
	validator  *validator.Validate
	logger     zerolog.Logger
	now        func() time.Time
}

// NewProfessorFileService constructs a ProfessorFileService instance.
func NewProfessorFileService(files repository.ProfessorFileRepository, professors repository.ProfessorRepository, blobs blob.Store, validate *validator.Validate, logger zerolog.Logger) ProfessorFileService {
	return &professorFileService{
		files:      files,
		professors: professors,
		blobs:      blobs,
		validator:  validate,
		logger:     logger.With().Str("component", "professor_file_service").Logger(),
		now:        time.Now,
	}
}

func (s *professorFileService) Upload(ctx context.Context, professorID uint, payload dto.ProfessorFileUploadRequest, file *multipart.FileHeader) (dto.ProfessorFileResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProfessorFileResponse{}, err
	}

	if file == nil {
		return dto.ProfessorFileResponse{}, fmt.Errorf("upload file is required")
	}

	if !models.ValidProfessorFileKind(payload.Kind) {
		return dto.ProfessorFileResponse{}, fmt.Errorf("unknown file kind: %s", payload.Kind)
	}

	professor, err := s.professors.GetByID(ctx, professorID)
	if err != nil {
		return dto.ProfessorFileResponse{}, err
	}

	if err := validateUploadType(file); err != nil {
		return dto.ProfessorFileResponse{}, err
	}

	reader, err := file.Open()
	if err != nil {
		return dto.ProfessorFileResponse{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	key := blob.ProfessorFileKey(payload.Kind, professor.AdminID, file.Filename)
	if err := s.blobs.Put(ctx, key, reader, file.Size); err != nil {
		return dto.ProfessorFileResponse{}, fmt.Errorf("failed to store file: %w", err)
	}

	record := models.ProfessorFile{
		ProfessorID:      professor.ID,
		Kind:             payload.Kind,
		BlobKey:          key,
		OriginalFilename: file.Filename,
		UploadedAt:       s.now(),
	}

	if err := s.files.Create(ctx, &record); err != nil {
		return dto.ProfessorFileResponse{}, err
	}

	observability.Uploads().WithLabelValues(payload.Kind).Inc()
	s.logger.Info().Uint("file_id", record.ID).Str("kind", payload.Kind).Msg("professor file uploaded")

	return dto.NewProfessorFileResponse(record), nil
}

func (s *professorFileService) List(ctx context.Context, filter dto.ProfessorFileFilter) ([]dto.ProfessorFileResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	files, err := s.files.List(ctx, repository.ProfessorFileFilter{Kind: filter.Kind})
	if err != nil {
		return nil, err
	}

	return dto.NewProfessorFileResponseSlice(files), nil
}

// Delete removes the blob first, then the record; any professor may delete
// any rubric or model-answer file (there is no finer-grained authorization).
func (s *professorFileService) Delete(ctx context.Context, id uint) error {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfessorFileNotFound
		}
		return err
	}

	if err := s.blobs.Delete(ctx, file.BlobKey); err != nil && !errors.Is(err, blob.ErrNotFound) {
		return fmt.Errorf("failed to delete stored file: %w", err)
	}

	if err := s.files.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	s.logger.Info().Uint("file_id", id).Msg("professor file deleted")

	return nil
}
