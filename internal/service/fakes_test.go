package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gradeflow/gradeflow-api/internal/models"
	"github.com/gradeflow/gradeflow-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type fakeStudentRepo struct {
	students map[uint]models.Student
}

func newFakeStudentRepo(students ...models.Student) *fakeStudentRepo {
	repo := &fakeStudentRepo{students: make(map[uint]models.Student)}
	for _, student := range students {
		repo.students[student.ID] = student
	}
	return repo
}

func (f *fakeStudentRepo) GetByID(_ context.Context, id uint) (models.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (f *fakeStudentRepo) GetByStudentNo(_ context.Context, studentNo string) (models.Student, error) {
	for _, student := range f.students {
		if student.StudentNo == studentNo {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (f *fakeStudentRepo) Create(_ context.Context, student *models.Student) error {
	student.ID = uint(len(f.students) + 1)
	f.students[student.ID] = *student
	return nil
}

type fakeProfessorRepo struct {
	professors map[uint]models.Professor
}

func newFakeProfessorRepo(professors ...models.Professor) *fakeProfessorRepo {
	repo := &fakeProfessorRepo{professors: make(map[uint]models.Professor)}
	for _, professor := range professors {
		repo.professors[professor.ID] = professor
	}
	return repo
}

func (f *fakeProfessorRepo) GetByID(_ context.Context, id uint) (models.Professor, error) {
	professor, ok := f.professors[id]
	if !ok {
		return models.Professor{}, gorm.ErrRecordNotFound
	}
	return professor, nil
}

func (f *fakeProfessorRepo) GetByAdminID(_ context.Context, adminID string) (models.Professor, error) {
	for _, professor := range f.professors {
		if professor.AdminID == adminID {
			return professor, nil
		}
	}
	return models.Professor{}, gorm.ErrRecordNotFound
}

func (f *fakeProfessorRepo) Create(_ context.Context, professor *models.Professor) error {
	professor.ID = uint(len(f.professors) + 1)
	f.professors[professor.ID] = *professor
	return nil
}

type fakeSubmissionRepo struct {
	submissions []models.Submission
	nextID      uint
	deleted     []uint
}

func newFakeSubmissionRepo(submissions ...models.Submission) *fakeSubmissionRepo {
	repo := &fakeSubmissionRepo{nextID: 1}
	for _, submission := range submissions {
		if submission.ID >= repo.nextID {
			repo.nextID = submission.ID + 1
		}
		repo.submissions = append(repo.submissions, submission)
	}
	return repo
}

func (f *fakeSubmissionRepo) List(_ context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	var out []models.Submission
	for _, submission := range f.submissions {
		if filter.StudentID != nil && submission.StudentID != *filter.StudentID {
			continue
		}
		out = append(out, submission)
	}
	return out, nil
}

func (f *fakeSubmissionRepo) GetByID(_ context.Context, id uint) (models.Submission, error) {
	for _, submission := range f.submissions {
		if submission.ID == id {
			return submission, nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (f *fakeSubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	submission.ID = f.nextID
	f.nextID++
	f.submissions = append(f.submissions, *submission)
	return nil
}

func (f *fakeSubmissionRepo) Delete(_ context.Context, id uint) error {
	for i, submission := range f.submissions {
		if submission.ID == id {
			f.submissions = append(f.submissions[:i], f.submissions[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeProfessorFileRepo struct {
	files   []models.ProfessorFile
	nextID  uint
	deleted []uint
}

func newFakeProfessorFileRepo(files ...models.ProfessorFile) *fakeProfessorFileRepo {
	repo := &fakeProfessorFileRepo{nextID: 1}
	for _, file := range files {
		if file.ID >= repo.nextID {
			repo.nextID = file.ID + 1
		}
		repo.files = append(repo.files, file)
	}
	return repo
}

func (f *fakeProfessorFileRepo) List(_ context.Context, filter repository.ProfessorFileFilter) ([]models.ProfessorFile, error) {
	var out []models.ProfessorFile
	for _, file := range f.files {
		if filter.ProfessorID != nil && file.ProfessorID != *filter.ProfessorID {
			continue
		}
		if filter.Kind != nil && file.Kind != *filter.Kind {
			continue
		}
		out = append(out, file)
	}
	return out, nil
}

func (f *fakeProfessorFileRepo) GetByID(_ context.Context, id uint) (models.ProfessorFile, error) {
	for _, file := range f.files {
		if file.ID == id {
			return file, nil
		}
	}
	return models.ProfessorFile{}, gorm.ErrRecordNotFound
}

func (f *fakeProfessorFileRepo) Create(_ context.Context, file *models.ProfessorFile) error {
	file.ID = f.nextID
	f.nextID++
	f.files = append(f.files, *file)
	return nil
}

func (f *fakeProfessorFileRepo) Delete(_ context.Context, id uint) error {
	for i, file := range f.files {
		if file.ID == id {
			f.files = append(f.files[:i], f.files[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeEvaluationRepo struct {
	created []models.Evaluation
}

func (f *fakeEvaluationRepo) Create(_ context.Context, evaluation *models.Evaluation) error {
	evaluation.ID = uint(len(f.created) + 1)
	f.created = append(f.created, *evaluation)
	return nil
}

func (f *fakeEvaluationRepo) ListBySubmission(_ context.Context, submissionID uint) ([]models.Evaluation, error) {
	var out []models.Evaluation
	for _, evaluation := range f.created {
		if evaluation.SubmissionID == submissionID {
			out = append(out, evaluation)
		}
	}
	return out, nil
}

func (f *fakeEvaluationRepo) LatestBySubmission(_ context.Context, submissionID uint) (models.Evaluation, error) {
	evaluations, _ := f.ListBySubmission(nil, submissionID)
	if len(evaluations) == 0 {
		return models.Evaluation{}, gorm.ErrRecordNotFound
	}
	return evaluations[len(evaluations)-1], nil
}

type stubInvoker struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (s *stubInvoker) Invoke(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}
