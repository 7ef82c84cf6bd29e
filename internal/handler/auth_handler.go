package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gradeflow/gradeflow-api/internal/dto"
	"github.com/gradeflow/gradeflow-api/internal/service"
	"github.com/gradeflow/gradeflow-api/internal/utils"
)

// AuthHandler manages login endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler builds an auth handler instance.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/student/login", h.loginStudent)
	router.Post("/professor/login", h.loginProfessor)
}

func (h *AuthHandler) loginStudent(c *fiber.Ctx) error {
	var payload dto.StudentLoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid request body", nil)
	}

	response, err := h.service.LoginStudent(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.OK(c, response, "login successful", nil)
}

func (h *AuthHandler) loginProfessor(c *fiber.Ctx) error {
	var payload dto.ProfessorLoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid request body", nil)
	}

	response, err := h.service.LoginProfessor(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.OK(c, response, "login successful", nil)
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.Fail(c, fiber.StatusUnauthorized, "identity or password does not match", nil)
	case isValidationError(err):
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	default:
		h.logger.Error().Err(err).Msg("login failed")
		return utils.Fail(c, fiber.StatusInternalServerError, "internal server error", nil)
	}
}
