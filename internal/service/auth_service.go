package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gradeflow/gradeflow-api/internal/dto"
	"github.com/gradeflow/gradeflow-api/internal/middleware"
	"github.com/gradeflow/gradeflow-api/internal/repository"
)

// ErrInvalidCredentials indicates the identity or secret did not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

const tokenTTL = 12 * time.Hour

// AuthService authenticates students and professors and issues tokens.
type AuthService interface {
	LoginStudent(ctx context.Context, payload dto.StudentLoginRequest) (dto.LoginResponse, error)
	LoginProfessor(ctx context.Context, payload dto.ProfessorLoginRequest) (dto.LoginResponse, error)
}

type authService struct {
	students   repository.StudentRepository
	professors repository.ProfessorRepository
	validator  *validator.Validate
	jwtSecret  string
	logger     zerolog.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(students repository.StudentRepository, professors repository.ProfessorRepository, validate *validator.Validate, jwtSecret string, logger zerolog.Logger) AuthService {
	return &authService{
		students:   students,
		professors: professors,
		validator:  validate,
		jwtSecret:  jwtSecret,
		logger:     logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) LoginStudent(ctx context.Context, payload dto.StudentLoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	student, err := s.students.GetByStudentNo(ctx, payload.StudentNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(payload.Password)) != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := middleware.IssueToken(s.jwtSecret, student.ID, middleware.RoleStudent, tokenTTL)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Str("student_no", student.StudentNo).Msg("student logged in")

	return dto.LoginResponse{Token: token, Role: middleware.RoleStudent, Name: student.Name}, nil
}

func (s *authService) LoginProfessor(ctx context.Context, payload dto.ProfessorLoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	professor, err := s.professors.GetByAdminID(ctx, payload.AdminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(professor.PasswordHash), []byte(payload.Password)) != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := middleware.IssueToken(s.jwtSecret, professor.ID, middleware.RoleProfessor, tokenTTL)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Str("admin_id", professor.AdminID).Msg("professor logged in")

	return dto.LoginResponse{Token: token, Role: middleware.RoleProfessor, Name: professor.Name}, nil
}
