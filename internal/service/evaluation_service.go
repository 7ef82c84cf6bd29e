package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/gradeflow/gradeflow-api/internal/dto"
	"github.com/gradeflow/gradeflow-api/internal/extract"
	"github.com/gradeflow/gradeflow-api/internal/middleware"
	"github.com/gradeflow/gradeflow-api/internal/models"
	"github.com/gradeflow/gradeflow-api/internal/observability"
	"github.com/gradeflow/gradeflow-api/internal/repository"
	"github.com/gradeflow/gradeflow-api/pkg/ai"
	"github.com/gradeflow/gradeflow-api/pkg/blob"
)

var (
	// ErrRubricKindMismatch indicates the referenced file is not of the expected kind.
	ErrRubricKindMismatch = errors.New("referenced file is not a rubric")
	// ErrModelAnswerKindMismatch indicates the referenced file is not a model answer.
	ErrModelAnswerKindMismatch = errors.New("referenced file is not a model answer")
)

// EvaluationService runs the automated grading pipeline: extract submission
// and rubric text, build the prompt, invoke the model, parse the reply, and
// persist the outcome.
type EvaluationService interface {
	Evaluate(ctx context.Context, req dto.EvaluationRequest) (dto.EvaluationOutcome, error)
	ListBySubmission(ctx context.Context, submissionID uint, actor Actor) ([]dto.EvaluationResponse, error)
}

type evaluationService struct {
	submissions repository.SubmissionRepository
	files       repository.ProfessorFileRepository
	evaluations repository.EvaluationRepository
	blobs       blob.Store
	invoker     ai.Invoker
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewEvaluationService constructs an EvaluationService instance.
func NewEvaluationService(submissions repository.SubmissionRepository, files repository.ProfessorFileRepository, evaluations repository.EvaluationRepository, blobs blob.Store, invoker ai.Invoker, validate *validator.Validate, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		submissions: submissions,
		files:       files,
		evaluations: evaluations,
		blobs:       blobs,
		invoker:     invoker,
		validator:   validate,
		logger:      logger.With().Str("component", "evaluation_service").Logger(),
		tracer:      otel.Tracer("github.com/gradeflow/gradeflow-api/internal/service/evaluation"),
		now:         time.Now,
	}
}

// Evaluate runs one grading pass. Every pipeline failure produces the same
// outcome shape: a nil grade plus a display comment, with the failing stage
// carried in FailureKind. Only infrastructure problems (missing records,
// database failures) return a Go error instead.
func (s *evaluationService) Evaluate(ctx context.Context, req dto.EvaluationRequest) (dto.EvaluationOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.run", trace.WithAttributes(
		attribute.Int64("evaluation.submission_id", int64(req.SubmissionID)),
		attribute.Int64("evaluation.rubric_file_id", int64(req.RubricFileID)),
	))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.EvaluationOutcome{}, err
	}

	submission, err := s.submissions.GetByID(ctx, req.SubmissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationOutcome{}, ErrSubmissionNotFound
		}
		return dto.EvaluationOutcome{}, err
	}

	rubricFile, err := s.files.GetByID(ctx, req.RubricFileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationOutcome{}, ErrProfessorFileNotFound
		}
		return dto.EvaluationOutcome{}, err
	}

	if rubricFile.Kind != models.ProfessorFileKindRubric {
		return dto.EvaluationOutcome{}, ErrRubricKindMismatch
	}

	var modelAnswerFile *models.ProfessorFile
	if req.ModelAnswerFileID != nil {
		file, err := s.files.GetByID(ctx, *req.ModelAnswerFileID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.EvaluationOutcome{}, ErrProfessorFileNotFound
			}
			return dto.EvaluationOutcome{}, err
		}
		if file.Kind != models.ProfessorFileKindModelAnswer {
			return dto.EvaluationOutcome{}, ErrModelAnswerKindMismatch
		}
		modelAnswerFile = &file
	}

	start := s.now()
	defer func() {
		observability.EvaluationLatency().Observe(time.Since(start).Seconds())
	}()

	submissionText, err := s.extractBlob(ctx, submission.BlobKey, submission.OriginalFilename)
	if err != nil {
		span.SetStatus(codes.Error, "submission_extraction_failed")
		return s.failureOutcome(ctx, submission.ID, dto.EvaluationFailureExtract,
			fmt.Sprintf("failed to read the submission file: %v", err), nil)
	}

	rubricText, err := s.extractBlob(ctx, rubricFile.BlobKey, rubricFile.OriginalFilename)
	if err != nil {
		span.SetStatus(codes.Error, "rubric_extraction_failed")
		return s.failureOutcome(ctx, submission.ID, dto.EvaluationFailureExtract,
			fmt.Sprintf("failed to read the rubric file: %v", err), nil)
	}

	// The model answer is optional context: when its extraction fails the
	// evaluation continues with an empty model-answer section.
	modelAnswerText := ""
	if modelAnswerFile != nil {
		text, err := s.extractBlob(ctx, modelAnswerFile.BlobKey, modelAnswerFile.OriginalFilename)
		if err != nil {
			s.logger.Warn().Err(err).Uint("file_id", modelAnswerFile.ID).Msg("model answer extraction failed, proceeding without it")
		} else {
			modelAnswerText = text
		}
	}

	prompt := ai.BuildEvaluationPrompt(submissionText, rubricText, modelAnswerText)

	raw, err := s.invoker.Invoke(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model_invocation_failed")
		return s.failureOutcome(ctx, submission.ID, dto.EvaluationFailureInvoke,
			fmt.Sprintf("automated evaluation failed: %v", err), nil)
	}

	parsed, err := ai.ParseEvaluation(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reply_parsing_failed")
		return s.failureOutcome(ctx, submission.ID, dto.EvaluationFailureParse,
			fmt.Sprintf("failed to process the evaluation result: %v", err), &raw)
	}

	outcome := dto.EvaluationOutcome{
		Grade:       &parsed.Grade,
		Comments:    parsed.Comments,
		EvaluatedAt: s.now(),
	}

	if err := s.persist(ctx, submission.ID, outcome, &raw); err != nil {
		return dto.EvaluationOutcome{}, err
	}

	observability.Evaluations().WithLabelValues("success").Inc()
	s.logger.Info().Uint("submission_id", submission.ID).Str("grade", parsed.Grade).Msg("submission evaluated")

	return outcome, nil
}

// ListBySubmission returns the evaluation history of one submission. Students
// may only read their own submissions; professors may read any.
func (s *evaluationService) ListBySubmission(ctx context.Context, submissionID uint, actor Actor) ([]dto.EvaluationResponse, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	if actor.Role != middleware.RoleProfessor && submission.StudentID != actor.ID {
		return nil, ErrNotOwner
	}

	evaluations, err := s.evaluations.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	return dto.NewEvaluationResponseSlice(evaluations), nil
}

// extractBlob re-derives text from the stored blob on every call; extracted
// text is never cached.
func (s *evaluationService) extractBlob(ctx context.Context, key, originalFilename string) (string, error) {
	path, cleanup, err := s.blobs.Localize(ctx, key)
	if err != nil {
		return "", err
	}
	defer cleanup()

	return extract.Extract(path, extract.DetectKind(originalFilename))
}

func (s *evaluationService) failureOutcome(ctx context.Context, submissionID uint, kind, comments string, raw *string) (dto.EvaluationOutcome, error) {
	outcome := dto.EvaluationOutcome{
		Comments:    comments,
		FailureKind: kind,
		EvaluatedAt: s.now(),
	}

	if err := s.persist(ctx, submissionID, outcome, raw); err != nil {
		return dto.EvaluationOutcome{}, err
	}

	observability.Evaluations().WithLabelValues(kind).Inc()
	s.logger.Warn().Uint("submission_id", submissionID).Str("failure_kind", kind).Msg(comments)

	return outcome, nil
}

func (s *evaluationService) persist(ctx context.Context, submissionID uint, outcome dto.EvaluationOutcome, raw *string) error {
	evaluation := models.Evaluation{
		SubmissionID:    submissionID,
		AutoGrade:       outcome.Grade,
		AutoComments:    outcome.Comments,
		IsAutoEvaluated: true,
		EvaluatedAt:     outcome.EvaluatedAt,
	}

	if raw != nil {
		detail, err := json.Marshal(map[string]string{"raw_reply": *raw})
		if err == nil {
			evaluation.Detail = datatypes.JSON(detail)
		}
	}

	if err := s.evaluations.Create(ctx, &evaluation); err != nil {
		return fmt.Errorf("failed to persist evaluation: %w", err)
	}

	return nil
}
