package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const jwtTestSecret = "middleware-test-secret"

func protectedApp(extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{JWTProtected(jwtTestSecret)}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("user_id"),
			"role":    c.Locals("user_role"),
		})
	})
	app.Get("/protected", handlers...)
	return app
}

func request(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestJWTProtectedAcceptsValidToken(t *testing.T) {
	token, err := IssueToken(jwtTestSecret, 7, RoleStudent, time.Hour)
	require.NoError(t, err)

	resp, err := protectedApp().Test(request(token), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJWTProtectedRejectsMissingHeader(t *testing.T) {
	resp, err := protectedApp().Test(request(""), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsMalformedToken(t *testing.T) {
	resp, err := protectedApp().Test(request("not-a-token"), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsWrongSecret(t *testing.T) {
	token, err := IssueToken("another-secret", 7, RoleStudent, time.Hour)
	require.NoError(t, err)

	resp, err := protectedApp().Test(request(token), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsExpiredToken(t *testing.T) {
	token, err := IssueToken(jwtTestSecret, 7, RoleStudent, -time.Minute)
	require.NoError(t, err)

	resp, err := protectedApp().Test(request(token), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	studentToken, err := IssueToken(jwtTestSecret, 7, RoleStudent, time.Hour)
	require.NoError(t, err)
	professorToken, err := IssueToken(jwtTestSecret, 3, RoleProfessor, time.Hour)
	require.NoError(t, err)

	app := protectedApp(RequireRole(RoleProfessor))

	resp, err := app.Test(request(studentToken), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(request(professorToken), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
