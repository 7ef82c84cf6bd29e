package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gradeflow/gradeflow-api/internal/dto"
	"github.com/gradeflow/gradeflow-api/internal/middleware"
	"github.com/gradeflow/gradeflow-api/internal/models"
)

const testJWTSecret = "test-secret"

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthService(t *testing.T) AuthService {
	t.Helper()

	students := newFakeStudentRepo(models.Student{
		ID:           7,
		StudentNo:    "20251111",
		Name:         "Kim",
		PasswordHash: hashPassword(t, "1234"),
	})
	professors := newFakeProfessorRepo(models.Professor{
		ID:           3,
		AdminID:      "admin1",
		Name:         "Professor Lee",
		PasswordHash: hashPassword(t, "1234"),
	})

	return NewAuthService(students, professors, validator.New(), testJWTSecret, testLogger())
}

func TestLoginStudentSuccess(t *testing.T) {
	svc := newAuthService(t)

	response, err := svc.LoginStudent(context.Background(), dto.StudentLoginRequest{
		StudentNo: "20251111",
		Password:  "1234",
	})
	require.NoError(t, err)

	require.Equal(t, middleware.RoleStudent, response.Role)
	require.Equal(t, "Kim", response.Name)
	require.NotEmpty(t, response.Token)

	token, err := jwt.Parse(response.Token, func(_ *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, middleware.RoleStudent, claims["role"])
}

func TestLoginStudentWrongPassword(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.LoginStudent(context.Background(), dto.StudentLoginRequest{
		StudentNo: "20251111",
		Password:  "wrong",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginStudentUnknownAccount(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.LoginStudent(context.Background(), dto.StudentLoginRequest{
		StudentNo: "99999999",
		Password:  "1234",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginStudentMissingFields(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.LoginStudent(context.Background(), dto.StudentLoginRequest{})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginProfessorSuccess(t *testing.T) {
	svc := newAuthService(t)

	response, err := svc.LoginProfessor(context.Background(), dto.ProfessorLoginRequest{
		AdminID:  "admin1",
		Password: "1234",
	})
	require.NoError(t, err)
	require.Equal(t, middleware.RoleProfessor, response.Role)
	require.NotEmpty(t, response.Token)
}

func TestLoginProfessorWrongPassword(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.LoginProfessor(context.Background(), dto.ProfessorLoginRequest{
		AdminID:  "admin1",
		Password: "wrong",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
