package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func perform(t *testing.T, handler fiber.Handler) (*http.Response, APIResponse) {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	var payload APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))

	return resp, payload
}

func TestOK(t *testing.T) {
	resp, payload := perform(t, func(c *fiber.Ctx) error {
		return OK(c, fiber.Map{"value": 1}, "done", fiber.Map{"page": 1})
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, payload.Success)
	require.Equal(t, "done", payload.Message)
	require.NotNil(t, payload.Data)
	require.NotNil(t, payload.Meta)
}

func TestOKDefaultsMessage(t *testing.T) {
	_, payload := perform(t, func(c *fiber.Ctx) error {
		return OK(c, nil, "", nil)
	})

	require.Equal(t, "success", payload.Message)
}

func TestCreated(t *testing.T) {
	resp, payload := perform(t, func(c *fiber.Ctx) error {
		return Created(c, fiber.Map{"id": 1}, "created")
	})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, payload.Success)
}

func TestFail(t *testing.T) {
	resp, payload := perform(t, func(c *fiber.Ctx) error {
		return Fail(c, http.StatusBadRequest, "bad input", fiber.Map{"field": "name"})
	})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.False(t, payload.Success)
	require.Equal(t, "bad input", payload.Message)
	require.NotNil(t, payload.Details)
}

func TestFailDefaultsMessage(t *testing.T) {
	_, payload := perform(t, func(c *fiber.Ctx) error {
		return Fail(c, http.StatusInternalServerError, "", nil)
	})

	require.Equal(t, "error", payload.Message)
}
