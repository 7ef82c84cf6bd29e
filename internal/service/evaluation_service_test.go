package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/gradeflow/gradeflow-api/internal/dto"
	"github.com/gradeflow/gradeflow-api/internal/middleware"
	"github.com/gradeflow/gradeflow-api/internal/models"
	"github.com/gradeflow/gradeflow-api/pkg/ai"
	"github.com/gradeflow/gradeflow-api/pkg/blob"
)

type evaluationFixture struct {
	service     EvaluationService
	submissions *fakeSubmissionRepo
	files       *fakeProfessorFileRepo
	evaluations *fakeEvaluationRepo
	blobs       *blob.DiskStore
	invoker     *stubInvoker
}

func newEvaluationFixture(t *testing.T, invoker *stubInvoker) *evaluationFixture {
	t.Helper()

	store, err := blob.NewDiskStore(t.TempDir(), testLogger())
	require.NoError(t, err)

	submissions := newFakeSubmissionRepo(models.Submission{
		ID:               1,
		StudentID:        7,
		BlobKey:          "20251111_report.txt",
		OriginalFilename: "report.txt",
		SubmittedAt:      time.Now(),
	})

	files := newFakeProfessorFileRepo(
		models.ProfessorFile{
			ID:               1,
			ProfessorID:      3,
			Kind:             models.ProfessorFileKindRubric,
			BlobKey:          "rubric_admin1_criteria.txt",
			OriginalFilename: "criteria.txt",
		},
		models.ProfessorFile{
			ID:               2,
			ProfessorID:      3,
			Kind:             models.ProfessorFileKindModelAnswer,
			BlobKey:          "model_answer_admin1_answer.txt",
			OriginalFilename: "answer.txt",
		},
	)

	evaluations := &fakeEvaluationRepo{}

	return &evaluationFixture{
		service:     NewEvaluationService(submissions, files, evaluations, store, invoker, validator.New(), testLogger()),
		submissions: submissions,
		files:       files,
		evaluations: evaluations,
		blobs:       store,
		invoker:     invoker,
	}
}

func (f *evaluationFixture) putBlob(t *testing.T, key, content string) {
	t.Helper()
	require.NoError(t, f.blobs.Put(context.Background(), key, strings.NewReader(content), int64(len(content))))
}

func TestEvaluateSuccess(t *testing.T) {
	invoker := &stubInvoker{reply: `{"grade":"A","comments":"Correct and concise."}`}
	fixture := newEvaluationFixture(t, invoker)
	fixture.putBlob(t, "20251111_report.txt", "the student answer")
	fixture.putBlob(t, "rubric_admin1_criteria.txt", "grade on correctness")

	outcome, err := fixture.service.Evaluate(context.Background(), dto.EvaluationRequest{
		SubmissionID: 1,
		RubricFileID: 1,
	})
	require.NoError(t, err)

	require.NotNil(t, outcome.Grade)
	require.Equal(t, "A", *outcome.Grade)
	require.Equal(t, "Correct and concise.", outcome.Comments)
	require.Empty(t, outcome.FailureKind)
	require.False(t, outcome.EvaluatedAt.IsZero())

	require.Equal(t, 1, invoker.calls)
	require.Contains(t, invoker.prompts[0], "the student answer")
	require.Contains(t, invoker.prompts[0], "grade on correctness")
	require.NotContains(t, invoker.prompts[0], "# Model Answer")

	require.Len(t, fixture.evaluations.created, 1)
	persisted := fixture.evaluations.created[0]
	require.Equal(t, uint(1), persisted.SubmissionID)
	require.NotNil(t, persisted.AutoGrade)
	require.Equal(t, "A", *persisted.AutoGrade)
	require.True(t, persisted.IsAutoEvaluated)
	require.Contains(t, string(persisted.Detail), "raw_reply")
}

func TestEvaluateIncludesModelAnswer(t *testing.T) {
	invoker := &stubInvoker{reply: `{"grade":"B","comments":"close to the reference"}`}
	fixture := newEvaluationFixture(t, invoker)
	fixture.putBlob(t, "20251111_report.txt", "the student answer")
	fixture.putBlob(t, "rubric_admin1_criteria.txt", "grade on correctness")
	fixture.putBlob(t, "model_answer_admin1_answer.txt", "the reference answer")

	modelAnswerID := uint(2)
	outcome, err := fixture.service.Evaluate(context.Background(), dto.EvaluationRequest{
		SubmissionID:      1,
		RubricFileID:      1,
		ModelAnswerFileID: &modelAnswerID,
	})
	require.NoError(t, err)
	require.NotNil(t, outcome.Grade)

	require.Contains(t, invoker.prompts[0], "# Model Answer")
	require.Contains(t, invoker.prompts[0], "the reference answer")
}

func TestEvaluateMissingSubmissionBlobIsExtractFailure(t *testing.T) {
	invoker := &stubInvoker{reply: `{"grade":"A","comments":"never reached"}`}
	fixture := newEvaluationFixture(t, invoker)
	fixture.putBlob(t, "rubric_admin1_criteria.txt", "grade on correctness")

	outcome, err := fixture.service.Evaluate(context.Background(), dto.EvaluationRequest{
		SubmissionID: 1,
		RubricFileID: 1,
	})
	require.NoError(t, err)

	require.Nil(t, outcome.Grade)
	require.Equal(t, dto.EvaluationFailureExtract, outcome.FailureKind)
	require.Contains(t, outcome.Comments, "failed to read the submission file")

	// The model is never contacted when extraction fails.
	require.Zero(t, invoker.calls)

	// Failures persist too.
	require.Len(t, fixture.evaluations.created, 1)
	require.Nil(t, fixture.evaluations.created[0].AutoGrade)
}

func TestEvaluateMissingModelAnswerBlobProceedsWithoutIt(t *testing.T) {
	invoker := &stubInvoker{reply: `{"grade":"C","comments":"graded without reference"}`}
	fixture := newEvaluationFixture(t, invoker)
	fixture.putBlob(t, "20251111_report.txt", "the student answer")
	fixture.putBlob(t, "rubric_admin1_criteria.txt", "grade on correctness")

	modelAnswerID := uint(2)
	outcome, err := fixture.service.Evaluate(context.Background(), dto.EvaluationRequest{
		SubmissionID:      1,
		RubricFileID:      1,
		ModelAnswerFileID: &modelAnswerID,
	})
	require.NoError(t, err)

	require.NotNil(t, outcome.Grade)
	require.Equal(t, "C", *outcome.Grade)
	require.NotContains(t, invoker.prompts[0], "# Model Answer")
}

func TestEvaluateInvokerFailure(t *testing.T) {
	invoker := &stubInvoker{err: ai.ErrUnavailable}
	fixture := newEvaluationFixture(t, invoker)
	fixture.putBlob(t, "20251111_report.txt", "the student answer")
	fixture.putBlob(t, "rubric_admin1_criteria.txt", "grade on correctness")

	outcome, err := fixture.service.Evaluate(context.Background(), dto.EvaluationRequest{
		SubmissionID: 1,
		RubricFileID: 1,
	})
	require.NoError(t, err)

	require.Nil(t, outcome.Grade)
	require.Equal(t, dto.EvaluationFailureInvoke, outcome.FailureKind)
	require.Contains(t, outcome.Comments, "automated evaluation failed")
	require.Len(t, fixture.evaluations.created, 1)
}

func TestEvaluateUnparseableReply(t *testing.T) {
	invoker := &stubInvoker{reply: "I cannot grade this submission."}
	fixture := newEvaluationFixture(t, invoker)
	fixture.putBlob(t, "20251111_report.txt", "the student answer")
	fixture.putBlob(t, "rubric_admin1_criteria.txt", "grade on correctness")

	outcome, err := fixture.service.Evaluate(context.Background(), dto.EvaluationRequest{
		SubmissionID: 1,
		RubricFileID: 1,
	})
	require.NoError(t, err)

	require.Nil(t, outcome.Grade)
	require.Equal(t, dto.EvaluationFailureParse, outcome.FailureKind)
	require.Contains(t, outcome.Comments, "failed to process the evaluation result")

	// The raw reply is kept for later inspection.
	require.Len(t, fixture.evaluations.created, 1)
	require.Contains(t, string(fixture.evaluations.created[0].Detail), "I cannot grade this submission.")
}

func TestEvaluateRubricKindMismatch(t *testing.T) {
	invoker := &stubInvoker{}
	fixture := newEvaluationFixture(t, invoker)

	_, err := fixture.service.Evaluate(context.Background(), dto.EvaluationRequest{
		SubmissionID: 1,
		RubricFileID: 2, // model answer, not a rubric
	})
	require.ErrorIs(t, err, ErrRubricKindMismatch)
	require.Empty(t, fixture.evaluations.created)
}

func TestEvaluateModelAnswerKindMismatch(t *testing.T) {
	invoker := &stubInvoker{}
	fixture := newEvaluationFixture(t, invoker)

	rubricAsAnswer := uint(1)
	_, err := fixture.service.Evaluate(context.Background(), dto.EvaluationRequest{
		SubmissionID:      1,
		RubricFileID:      1,
		ModelAnswerFileID: &rubricAsAnswer,
	})
	require.ErrorIs(t, err, ErrModelAnswerKindMismatch)
}

func TestEvaluateUnknownSubmission(t *testing.T) {
	fixture := newEvaluationFixture(t, &stubInvoker{})

	_, err := fixture.service.Evaluate(context.Background(), dto.EvaluationRequest{
		SubmissionID: 99,
		RubricFileID: 1,
	})
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestEvaluateUnknownRubric(t *testing.T) {
	fixture := newEvaluationFixture(t, &stubInvoker{})

	_, err := fixture.service.Evaluate(context.Background(), dto.EvaluationRequest{
		SubmissionID: 1,
		RubricFileID: 99,
	})
	require.ErrorIs(t, err, ErrProfessorFileNotFound)
}

func TestEvaluateValidationFailure(t *testing.T) {
	fixture := newEvaluationFixture(t, &stubInvoker{})

	_, err := fixture.service.Evaluate(context.Background(), dto.EvaluationRequest{})
	require.Error(t, err)

	var validationErrs validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))
}

func TestListBySubmission(t *testing.T) {
	invoker := &stubInvoker{reply: `{"grade":"A","comments":"Correct and concise."}`}
	fixture := newEvaluationFixture(t, invoker)
	fixture.putBlob(t, "20251111_report.txt", "the student answer")
	fixture.putBlob(t, "rubric_admin1_criteria.txt", "grade on correctness")

	_, err := fixture.service.Evaluate(context.Background(), dto.EvaluationRequest{
		SubmissionID: 1,
		RubricFileID: 1,
	})
	require.NoError(t, err)

	owner := Actor{ID: 7, Role: middleware.RoleStudent}
	responses, err := fixture.service.ListBySubmission(context.Background(), 1, owner)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].AutoGrade)
	require.Equal(t, "A", *responses[0].AutoGrade)

	_, err = fixture.service.ListBySubmission(context.Background(), 99, owner)
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestListBySubmissionOwnership(t *testing.T) {
	fixture := newEvaluationFixture(t, &stubInvoker{})

	// Another student may not read someone else's evaluation history.
	_, err := fixture.service.ListBySubmission(context.Background(), 1, Actor{ID: 8, Role: middleware.RoleStudent})
	require.ErrorIs(t, err, ErrNotOwner)

	// Professors may read any submission's history.
	responses, err := fixture.service.ListBySubmission(context.Background(), 1, Actor{ID: 3, Role: middleware.RoleProfessor})
	require.NoError(t, err)
	require.Empty(t, responses)
}
