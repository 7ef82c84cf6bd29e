package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gradeflow/gradeflow-api/internal/dto"
	"github.com/gradeflow/gradeflow-api/internal/middleware"
	"github.com/gradeflow/gradeflow-api/internal/models"
	"github.com/gradeflow/gradeflow-api/internal/observability"
	"github.com/gradeflow/gradeflow-api/internal/repository"
	"github.com/gradeflow/gradeflow-api/pkg/blob"
)

var (
	// ErrSubmissionNotFound indicates a submission could not be found.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrNotOwner indicates the actor may not modify the submission.
	ErrNotOwner = errors.New("submission belongs to another student")
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the MIME type is not permitted.
	ErrUploadTypeNotAllowed = errors.New("file type not allowed")
)

// Actor identifies the authenticated principal performing an operation.
type Actor struct {
	ID   uint
	Role string
}

// SubmissionService orchestrates submission upload, listing and deletion.
type SubmissionService interface {
	Submit(ctx context.Context, studentID uint, file *multipart.FileHeader) (dto.SubmissionResponse, error)
	ListForStudent(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error)
	ListAll(ctx context.Context) ([]dto.SubmissionResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type submissionService struct {
	submissions repository.SubmissionRepository
	students    repository.StudentRepository
	blobs       blob.Store
	logger      zerolog.Logger
	maxSize     int64
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(submissions repository.SubmissionRepository, students repository.StudentRepository, blobs blob.Store, maxSizeMB int, logger zerolog.Logger) SubmissionService {
	if maxSizeMB <= 0 {
		maxSizeMB = 25
	}
	return &submissionService{
		submissions: submissions,
		students:    students,
		blobs:       blobs,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		maxSize:     int64(maxSizeMB) * 1024 * 1024,
		now:         time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, studentID uint, file *multipart.FileHeader) (dto.SubmissionResponse, error) {
	if file == nil {
		return dto.SubmissionResponse{}, fmt.Errorf("submission file is required")
	}

	if file.Size > s.maxSize {
		return dto.SubmissionResponse{}, ErrUploadTooLarge
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	if err := validateUploadType(file); err != nil {
		return dto.SubmissionResponse{}, err
	}

	reader, err := file.Open()
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	// Same student, same filename: same key, previous blob is overwritten.
	key := blob.SubmissionKey(student.StudentNo, file.Filename)
	if err := s.blobs.Put(ctx, key, reader, file.Size); err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("failed to store file: %w", err)
	}

	submission := models.Submission{
		StudentID:        student.ID,
		BlobKey:          key,
		OriginalFilename: file.Filename,
		SubmittedAt:      s.now(),
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	observability.Uploads().WithLabelValues("submission").Inc()
	s.logger.Info().Uint("submission_id", created.ID).Str("blob_key", key).Msg("submission created")

	return dto.NewSubmissionResponse(created), nil
}

func (s *submissionService) ListForStudent(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) ListAll(ctx context.Context) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

// Delete removes the blob first and treats the record deletion as the
// durability point: a failure between the two steps surfaces as an error so
// the caller never sees a half-deleted submission reported as success.
func (s *submissionService) Delete(ctx context.Context, id uint, actor Actor) error {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return err
	}

	if actor.Role != middleware.RoleProfessor && submission.StudentID != actor.ID {
		return ErrNotOwner
	}

	if err := s.blobs.Delete(ctx, submission.BlobKey); err != nil && !errors.Is(err, blob.ErrNotFound) {
		return fmt.Errorf("failed to delete stored file: %w", err)
	}

	if err := s.submissions.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete submission record: %w", err)
	}

	s.logger.Info().Uint("submission_id", id).Msg("submission deleted")

	return nil
}

func validateUploadType(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect file type: %w", err)
	}

	// Archives are accepted at upload even though the evaluator cannot
	// extract them; docx files also detect as zip containers.
	allowed := []string{
		"application/pdf",
		"text/plain",
		"application/zip",
		"application/x-zip-compressed",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/x-rar-compressed",
		"application/vnd.rar",
	}
	for _, a := range allowed {
		if mime.Is(a) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrUploadTypeNotAllowed, mime.String())
}
