package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gradeflow/gradeflow-api/internal/dto"
	"github.com/gradeflow/gradeflow-api/internal/service"
	"github.com/gradeflow/gradeflow-api/internal/utils"
)

// EvaluationHandler manages automated evaluation endpoints.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler builds an evaluation handler instance.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Post("", h.evaluate)
}

// RegisterSubmissionRoutes attaches the per-submission evaluation listing.
func (h *EvaluationHandler) RegisterSubmissionRoutes(router fiber.Router) {
	router.Get("/:id/evaluations", h.listBySubmission)
}

func (h *EvaluationHandler) evaluate(c *fiber.Ctx) error {
	var payload dto.EvaluationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid request body", nil)
	}

	outcome, err := h.service.Evaluate(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.OK(c, outcome, "evaluation completed", nil)
}

func (h *EvaluationHandler) listBySubmission(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid submission id", nil)
	}

	evaluations, err := h.service.ListBySubmission(c.Context(), id, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.OK(c, evaluations, "evaluations retrieved", nil)
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "submission not found", nil)
	case errors.Is(err, service.ErrProfessorFileNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "professor file not found", nil)
	case errors.Is(err, service.ErrNotOwner):
		return utils.Fail(c, fiber.StatusForbidden, "submission belongs to another student", nil)
	case errors.Is(err, service.ErrRubricKindMismatch), errors.Is(err, service.ErrModelAnswerKindMismatch):
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	case isValidationError(err):
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	default:
		h.logger.Error().Err(err).Msg("evaluation request failed")
		return utils.Fail(c, fiber.StatusInternalServerError, "internal server error", nil)
	}
}
